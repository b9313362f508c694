package greeting

import (
	"context"
	"errors"
)

// ErrUnavailable reports that the greeting capability cannot be resolved right now.
var ErrUnavailable = errors.New("greeting provider unavailable")

// Provider supplies the text the hello endpoint appends to its prefix.
type Provider interface {
	SayHello(ctx context.Context) (string, error)
}

// ProviderFunc adapts an ordinary function to Provider.
type ProviderFunc func(ctx context.Context) (string, error)

// SayHello calls f(ctx).
func (f ProviderFunc) SayHello(ctx context.Context) (string, error) {
	return f(ctx)
}

// Static always returns the same text.
type Static struct {
	text string
}

// NewStatic creates a Provider that returns text unchanged.
func NewStatic(text string) *Static {
	return &Static{text: text}
}

func (s *Static) SayHello(context.Context) (string, error) {
	return s.text, nil
}

var (
	_ Provider = (*Static)(nil)
	_ Provider = ProviderFunc(nil)
)
