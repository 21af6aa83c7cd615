package preferences

import (
	"context"
	"fmt"

	"collegeevents/internal/domain"
)

const themePrefix = "theme:"

// Themes remembers each owner's light/dark choice.
type Themes struct {
	store domain.KeyValueStore
}

func NewThemes(store domain.KeyValueStore) *Themes {
	return &Themes{store: store}
}

// Get returns the stored theme, or the system preference when nothing valid is stored.
func (t *Themes) Get(ctx context.Context, owner string, systemDark bool) (domain.Theme, error) {
	raw, ok, err := t.store.Get(ctx, themePrefix+owner)
	if err != nil {
		return "", fmt.Errorf("get theme: %w", err)
	}
	if theme := domain.Theme(raw); ok && theme.Valid() {
		return theme, nil
	}
	if systemDark {
		return domain.ThemeDark, nil
	}
	return domain.ThemeLight, nil
}

func (t *Themes) Set(ctx context.Context, owner string, theme domain.Theme) error {
	if !theme.Valid() {
		return fmt.Errorf("theme %q: %w", theme, domain.ErrInvalidInput)
	}
	if err := t.store.Set(ctx, themePrefix+owner, string(theme)); err != nil {
		return fmt.Errorf("set theme: %w", err)
	}
	return nil
}

// Toggle flips the current theme, persists it and returns the new value.
func (t *Themes) Toggle(ctx context.Context, owner string, systemDark bool) (domain.Theme, error) {
	current, err := t.Get(ctx, owner, systemDark)
	if err != nil {
		return "", err
	}
	next := domain.ThemeDark
	if current == domain.ThemeDark {
		next = domain.ThemeLight
	}
	if err := t.Set(ctx, owner, next); err != nil {
		return "", err
	}
	return next, nil
}
