package ui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
)

// SelectItem is one choice in a selection prompt.
type SelectItem struct {
	Label string
	Value string
	Desc  string
}

// Prompt asks questions with huh forms. Each question runs as its own form.
type Prompt struct {
	theme    *Theme
	headless *HeadlessManager
}

// NewPrompt creates a Prompt backed by the given theme and headless manager.
func NewPrompt(theme *Theme, hm *HeadlessManager) *Prompt {
	return &Prompt{theme: theme, headless: hm}
}

// Input asks for a single line of text. A blank answer is returned as "".
// In headless mode it returns ErrHeadless without prompting.
func (p *Prompt) Input(ctx context.Context, title, placeholder string) (string, error) {
	if p.headless.IsHeadless() {
		return "", ErrHeadless
	}

	var value string
	in := huh.NewInput().Title(title).Value(&value)
	if placeholder != "" {
		in = in.Placeholder(placeholder)
	}
	if err := p.run(ctx, huh.NewGroup(in)); err != nil {
		return "", err
	}
	return value, nil
}

// Select asks the user to pick one of items and returns its Value.
func (p *Prompt) Select(ctx context.Context, title string, items []SelectItem) (string, error) {
	if len(items) == 0 {
		return "", ErrNoOptions
	}
	if p.headless.IsHeadless() {
		return "", ErrHeadless
	}

	opts := make([]huh.Option[string], len(items))
	for i, it := range items {
		key := it.Label
		if it.Desc != "" {
			key = it.Label + " - " + it.Desc
		}
		opts[i] = huh.NewOption(key, it.Value)
	}

	selected := items[0].Value
	sel := huh.NewSelect[string]().Title(title).Options(opts...).Value(&selected)
	if err := p.run(ctx, huh.NewGroup(sel)); err != nil {
		return "", err
	}
	return selected, nil
}

func (p *Prompt) run(ctx context.Context, g *huh.Group) error {
	form := huh.NewForm(g).
		WithTheme(p.theme.huhTheme()).
		WithAccessible(false)

	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrCancelled
		}
		return fmt.Errorf("prompt: %w", err)
	}
	return nil
}
