package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
)

// LineDriver prompts one line at a time on plain streams. It is used when
// stdin is not a terminal (pipes, CI, scripted input).
//
// Selections are answered with 1-based option numbers; multi-selections take
// a comma-separated list. An empty line keeps the default.
type LineDriver struct {
	reader *bufio.Reader
	out    io.Writer

	lines chan lineResult
	once  sync.Once
}

type lineResult struct {
	text string
	err  error
}

// NewLineDriver reads answers from in and writes prompts to out.
func NewLineDriver(in io.Reader, out io.Writer) *LineDriver {
	return &LineDriver{reader: bufio.NewReader(in), out: out}
}

func (d *LineDriver) pump() {
	for {
		text, err := d.reader.ReadString('\n')
		if text != "" {
			d.lines <- lineResult{text: text}
		}
		if err != nil {
			d.lines <- lineResult{err: err}
			close(d.lines)
			return
		}
	}
}

// readLine waits for the next line or for ctx to end.
func (d *LineDriver) readLine(ctx context.Context, prompt string) (string, error) {
	d.once.Do(func() {
		d.lines = make(chan lineResult)
		go d.pump()
	})
	fmt.Fprint(d.out, prompt)

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res, ok := <-d.lines:
		if !ok {
			return "", io.EOF
		}
		if res.err != nil {
			return "", res.err
		}
		return strings.TrimRight(res.text, "\r\n"), nil
	}
}

func (d *LineDriver) Input(ctx context.Context, cfg InputConfig) (string, error) {
	prompt := cfg.Message + ": "
	if cfg.Default != "" {
		prompt = fmt.Sprintf("%s [%s]: ", cfg.Message, cfg.Default)
	}
	for {
		text, err := d.readLine(ctx, prompt)
		if err != nil {
			return "", err
		}
		if text == "" {
			text = cfg.Default
		}
		if cfg.Validator != nil {
			if err := cfg.Validator(text); err != nil {
				fmt.Fprintf(d.out, "Error: %v. Please try again.\n", err)
				continue
			}
		}
		return text, nil
	}
}

func (d *LineDriver) Password(ctx context.Context, cfg InputConfig) (string, error) {
	cfg.Default = ""
	return d.Input(ctx, cfg)
}

func (d *LineDriver) Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error) {
	hint := "y/N"
	if cfg.Default {
		hint = "Y/n"
	}
	for {
		text, err := d.readLine(ctx, fmt.Sprintf("%s [%s]: ", cfg.Message, hint))
		if err != nil {
			return false, err
		}
		switch strings.ToLower(strings.TrimSpace(text)) {
		case "":
			return cfg.Default, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		fmt.Fprintln(d.out, "Please answer y or n.")
	}
}

func (d *LineDriver) listOptions(options []string) {
	for i, o := range options {
		fmt.Fprintf(d.out, "  %d) %s\n", i+1, o)
	}
}

func (d *LineDriver) Select(ctx context.Context, cfg SelectConfig) (int, error) {
	fmt.Fprintln(d.out, cfg.Message)
	d.listOptions(cfg.Options)
	for {
		text, err := d.readLine(ctx, fmt.Sprintf("Choice [%d]: ", cfg.DefaultIndex+1))
		if err != nil {
			return 0, err
		}
		if strings.TrimSpace(text) == "" {
			return cfg.DefaultIndex, nil
		}
		if n, err := strconv.Atoi(strings.TrimSpace(text)); err == nil && n >= 1 && n <= len(cfg.Options) {
			return n - 1, nil
		}
		fmt.Fprintf(d.out, "Please pick a number between 1 and %d.\n", len(cfg.Options))
	}
}

func (d *LineDriver) MultiSelect(ctx context.Context, cfg SelectConfig) ([]int, error) {
	fmt.Fprintln(d.out, cfg.Message)
	d.listOptions(cfg.Options)
	for {
		text, err := d.readLine(ctx, "Choices (comma separated, - for none): ")
		if err != nil {
			return nil, err
		}
		text = strings.TrimSpace(text)
		switch text {
		case "":
			return cfg.Defaults, nil
		case "-":
			return nil, nil
		}
		picked, ok := parseChoices(text, len(cfg.Options))
		if ok {
			return picked, nil
		}
		fmt.Fprintf(d.out, "Please list numbers between 1 and %d.\n", len(cfg.Options))
	}
}

func parseChoices(text string, count int) ([]int, bool) {
	var out []int
	for _, part := range strings.Split(text, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 1 || n > count {
			return nil, false
		}
		out = append(out, n-1)
	}
	return out, true
}

func (d *LineDriver) TextArea(ctx context.Context, cfg TextAreaConfig) (string, error) {
	return d.Input(ctx, InputConfig{Message: cfg.Message, Default: cfg.Default, Help: cfg.Help})
}

func (d *LineDriver) Info(_ context.Context, msg string) error {
	_, err := fmt.Fprintln(d.out, msg)
	return err
}
