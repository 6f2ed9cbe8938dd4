package page

import (
	"sort"

	"github.com/spf13/cast"

	"github.com/aretw0/pagedform/pkg/render"
)

// Render produces the page content. Validation messages are only attached
// once the page has read live values, so a page reached by navigation is
// shown clean.
func (p *Page) Render() (render.Fragment, error) {
	frag := render.Fragment{
		Title:       p.title,
		Description: p.description,
		Fields:      make([]render.FieldView, 0, len(p.fields)),
	}

	var messages map[string][]string
	if p.submitted {
		messages = p.Errors()
	}

	for _, f := range p.fields {
		view := render.FieldView{
			Name:     p.ns.Key(f.Name),
			Field:    f.Name,
			Label:    f.label(),
			Help:     f.Help,
			Widget:   f.widget(),
			Required: f.Required,
			Errors:   messages[f.Name],
		}

		value := p.values[f.Name]
		selected := map[string]bool{}
		if f.Multi() {
			view.Values = cast.ToStringSlice(value)
			for _, v := range view.Values {
				selected[v] = true
			}
		} else {
			view.Value = cast.ToString(value)
			selected[view.Value] = true
		}

		if len(f.Options) > 0 {
			view.Options = make([]render.Option, 0, len(f.Options))
			for _, opt := range f.Options {
				opt.Selected = selected[opt.Value]
				view.Options = append(view.Options, opt)
			}
		}
		frag.Fields = append(frag.Fields, view)
	}

	var loose []string
	for name := range messages {
		if _, declared := p.index[name]; !declared {
			loose = append(loose, name)
		}
	}
	sort.Strings(loose)
	for _, name := range loose {
		frag.Errors = append(frag.Errors, messages[name]...)
	}
	return frag, nil
}
