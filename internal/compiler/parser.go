// Package compiler turns form definition files into blueprints.
package compiler

import (
	"bytes"
	"fmt"
	"os"
	"reflect"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/pagedform/internal/dto"
	"github.com/aretw0/pagedform/pkg/registry"
)

// Parser decodes definition files. YAML and JSON share the same path since
// JSON documents are valid YAML.
type Parser struct {
	registry *registry.Registry
}

// Option configures a Parser.
type Option func(*Parser)

// WithRegistry resolves field types through reg before the built-in names.
func WithRegistry(reg *registry.Registry) Option {
	return func(p *Parser) {
		p.registry = reg
	}
}

// NewParser creates a new parser instance.
func NewParser(opts ...Option) *Parser {
	p := &Parser{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Registry returns the type registry, which may be nil.
func (p *Parser) Registry() *registry.Registry {
	return p.registry
}

// ParseFile reads and parses the definition at path.
func (p *Parser) ParseFile(path string) (*dto.FormDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read definition: %w", err)
	}
	def, err := p.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return def, nil
}

// Parse decodes raw definition content. Unknown keys are rejected.
func (p *Parser) Parse(data []byte) (*dto.FormDefinition, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("failed to parse definition: empty document")
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse definition: %w", err)
	}

	var def dto.FormDefinition
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:  optionHook,
		ErrorUnused: true,
		Result:      &def,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("failed to decode definition: %w", err)
	}
	return &def, nil
}

// optionHook lets options be written as plain scalars.
func optionHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != reflect.TypeOf(dto.OptionDefinition{}) {
		return data, nil
	}
	switch from.Kind() {
	case reflect.String, reflect.Int, reflect.Int64, reflect.Float64, reflect.Bool:
		v := fmt.Sprint(data)
		return dto.OptionDefinition{Value: v, Label: v}, nil
	}
	return data, nil
}
