package runtime

import (
	"fmt"

	"github.com/aretw0/pagedform/pkg/domain"
	"github.com/aretw0/pagedform/pkg/render"
)

// Form builds the view of the selected page: the page marker first, then the
// serialized values of every other page, the navigation controls and the
// page body.
func (c *Controller) Form() (*render.Form, error) {
	if c.selected < 0 {
		return nil, fmt.Errorf("form %q: %w", c.name, domain.ErrNoSelectedPage)
	}
	selected := c.pages[c.selected]

	hidden := []render.HiddenField{
		render.Hidden(c.Namespace().Key(domain.PageField), c.keys[c.selected]),
	}
	for i, p := range c.pages {
		if i == c.selected {
			continue
		}
		hidden = append(hidden, render.SortedHiddenFields(p.SerializedValues())...)
	}

	body, err := selected.Render()
	if err != nil {
		return nil, fmt.Errorf("form %q: render page %q: %w", c.name, c.keys[c.selected], err)
	}

	final := c.selected == c.LastIndex()
	submit := c.labels.Continue
	if final {
		submit = c.labels.Final
	}

	return &render.Form{
		Name:   c.name,
		Page:   c.keys[c.selected],
		Index:  c.selected,
		Count:  len(c.pages),
		Hidden: hidden,
		Controls: render.Controls{
			Back:        c.selected > 0,
			BackName:    domain.BackKey,
			BackLabel:   c.labels.Back,
			SubmitName:  domain.SubmitKey,
			SubmitLabel: submit,
			Final:       final,
		},
		Body: body,
	}, nil
}
