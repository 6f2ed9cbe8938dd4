// Package validator checks form definitions before they are compiled.
package validator

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/aretw0/pagedform/internal/dto"
	"github.com/aretw0/pagedform/pkg/domain"
	"github.com/aretw0/pagedform/pkg/registry"
	"github.com/aretw0/pagedform/pkg/render"
)

var widgets = map[string]bool{
	render.WidgetText:       true,
	render.WidgetTextArea:   true,
	render.WidgetPassword:   true,
	render.WidgetSelect:     true,
	render.WidgetRadio:      true,
	render.WidgetCheckbox:   true,
	render.WidgetCheckboxes: true,
	render.WidgetHidden:     true,
}

var optionWidgets = map[string]bool{
	render.WidgetSelect:     true,
	render.WidgetRadio:      true,
	render.WidgetCheckboxes: true,
}

// ValidateDefinition reports every structural problem of def: missing or
// duplicated keys, unknown widgets and types, dangling equals references,
// option widgets without options and invalid patterns.
// Types are resolved through reg, which may be nil.
func ValidateDefinition(def *dto.FormDefinition, reg *registry.Registry) error {
	var errs []string
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Sprintf(format, args...))
	}

	if strings.Contains(def.Name, domain.Separator) {
		add("form name %q must not contain %q", def.Name, domain.Separator)
	}
	if len(def.Pages) == 0 {
		add("form %q has no pages", def.Name)
	}

	pages := make(map[string]bool, len(def.Pages))
	for i, p := range def.Pages {
		where := fmt.Sprintf("page %d", i)
		switch {
		case p.Key == "":
			add("%s: missing key", where)
		case strings.Contains(p.Key, domain.Separator):
			add("page %q: key must not contain %q", p.Key, domain.Separator)
		case pages[p.Key]:
			add("page %q: duplicate key", p.Key)
		}
		if p.Key != "" {
			where = fmt.Sprintf("page %q", p.Key)
			pages[p.Key] = true
		}

		fields := make(map[string]bool, len(p.Fields))
		for _, f := range p.Fields {
			if f.Name == "" {
				add("%s: field without name", where)
				continue
			}
			if fields[f.Name] {
				add("%s: duplicate field %q", where, f.Name)
			}
			fields[f.Name] = true
		}

		for _, f := range p.Fields {
			if f.Name == "" {
				continue
			}
			at := fmt.Sprintf("%s field %q", where, f.Name)
			if strings.Contains(f.Name, domain.Separator) {
				add("%s: name must not contain %q", at, domain.Separator)
			}
			if f.Widget != "" && !widgets[f.Widget] {
				add("%s: unknown widget %q", at, f.Widget)
			}
			if optionWidgets[f.Widget] && len(f.Options) == 0 {
				add("%s: widget %q needs options", at, f.Widget)
			}
			if f.Type != "" {
				if _, err := reg.Resolve(f.Type); err != nil {
					add("%s: %v", at, err)
				}
			}
			if f.Equals != "" && !fields[f.Equals] {
				add("%s: equals refers to unknown field %q", at, f.Equals)
			}
			if f.Equals == f.Name && f.Name != "" {
				add("%s: equals refers to itself", at)
			}
			if f.Pattern != "" {
				if _, err := regexp.Compile(f.Pattern); err != nil {
					add("%s: invalid pattern: %v", at, err)
				}
			}
			if f.MaxLength > 0 && f.MinLength > f.MaxLength {
				add("%s: min_length %d exceeds max_length %d", at, f.MinLength, f.MaxLength)
			}
			if f.Default != nil && len(f.Options) > 0 && f.Widget != render.WidgetCheckboxes {
				if !hasOption(f.Options, fmt.Sprint(f.Default)) {
					add("%s: default %v is not one of the options", at, f.Default)
				}
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("found %d errors:\n- %s", len(errs), strings.Join(errs, "\n- "))
	}
	return nil
}

func hasOption(options []dto.OptionDefinition, value string) bool {
	for _, opt := range options {
		if opt.Value == value {
			return true
		}
	}
	return false
}
