package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// ErrAborted signals the user aborted input (e.g. Ctrl+C).
var ErrAborted = errors.New("runner: aborted")

// InputConfig configures a single-line prompt.
type InputConfig struct {
	Message   string
	Default   string
	Help      string
	Validator func(string) error
}

// ConfirmConfig configures a yes/no prompt.
type ConfirmConfig struct {
	Message string
	Default bool
	Help    string
}

// SelectConfig configures a single or multi-select prompt.
type SelectConfig struct {
	Message      string
	Options      []string
	DefaultIndex int
	// Defaults are indices into Options, used by MultiSelect.
	Defaults []int
	Help     string
}

// TextAreaConfig configures a multi-line prompt.
type TextAreaConfig struct {
	Message string
	Default string
	Help    string
}

// PromptDriver asks the questions. Tests swap in a scripted driver.
type PromptDriver interface {
	Input(ctx context.Context, cfg InputConfig) (string, error)
	Password(ctx context.Context, cfg InputConfig) (string, error)
	Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error)
	Select(ctx context.Context, cfg SelectConfig) (int, error)
	MultiSelect(ctx context.Context, cfg SelectConfig) ([]int, error)
	TextArea(ctx context.Context, cfg TextAreaConfig) (string, error)
	Info(ctx context.Context, msg string) error
}

// SurveyDriver prompts on a terminal.
type SurveyDriver struct {
	out  io.Writer
	opts []survey.AskOpt
}

// NewSurveyDriver prompts on stdin/stdout.
func NewSurveyDriver() *SurveyDriver {
	return &SurveyDriver{out: os.Stdout}
}

// NewSurveyDriverWithStdio prompts on the given terminal streams.
func NewSurveyDriverWithStdio(in terminal.FileReader, out terminal.FileWriter, errOut io.Writer) *SurveyDriver {
	return &SurveyDriver{
		out:  out,
		opts: []survey.AskOpt{survey.WithStdio(in, out, errOut)},
	}
}

func (d *SurveyDriver) ask(p survey.Prompt, out any, extra ...survey.AskOpt) error {
	opts := append(append([]survey.AskOpt(nil), d.opts...), extra...)
	if err := survey.AskOne(p, out, opts...); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return ErrAborted
		}
		return err
	}
	return nil
}

func validatorOpts(v func(string) error) []survey.AskOpt {
	if v == nil {
		return nil
	}
	return []survey.AskOpt{survey.WithValidator(func(ans any) error {
		s, _ := ans.(string)
		return v(s)
	})}
}

func (d *SurveyDriver) Input(ctx context.Context, cfg InputConfig) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var out string
	p := &survey.Input{Message: cfg.Message, Help: cfg.Help, Default: cfg.Default}
	err := d.ask(p, &out, validatorOpts(cfg.Validator)...)
	return out, err
}

func (d *SurveyDriver) Password(ctx context.Context, cfg InputConfig) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var out string
	p := &survey.Password{Message: cfg.Message, Help: cfg.Help}
	err := d.ask(p, &out, validatorOpts(cfg.Validator)...)
	return out, err
}

func (d *SurveyDriver) Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	var out bool
	p := &survey.Confirm{Message: cfg.Message, Help: cfg.Help, Default: cfg.Default}
	err := d.ask(p, &out)
	return out, err
}

func (d *SurveyDriver) Select(ctx context.Context, cfg SelectConfig) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	p := &survey.Select{Message: cfg.Message, Options: cfg.Options, Help: cfg.Help}
	if cfg.DefaultIndex >= 0 && cfg.DefaultIndex < len(cfg.Options) {
		p.Default = cfg.Options[cfg.DefaultIndex]
	}
	var out int
	err := d.ask(p, &out)
	return out, err
}

func (d *SurveyDriver) MultiSelect(ctx context.Context, cfg SelectConfig) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p := &survey.MultiSelect{Message: cfg.Message, Options: cfg.Options, Help: cfg.Help}
	if len(cfg.Defaults) > 0 {
		p.Default = cfg.Defaults
	}
	var out []int
	err := d.ask(p, &out)
	return out, err
}

func (d *SurveyDriver) TextArea(ctx context.Context, cfg TextAreaConfig) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var out string
	p := &survey.Multiline{Message: cfg.Message, Help: cfg.Help, Default: cfg.Default}
	err := d.ask(p, &out)
	return out, err
}

func (d *SurveyDriver) Info(ctx context.Context, msg string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(d.out, msg)
	return err
}
