package greeting

import (
	"context"
	"sync"
)

// Mock implements Provider for unit tests. It returns Text or Err and counts calls.
type Mock struct {
	mu    sync.Mutex
	text  string
	err   error
	calls int
}

// NewMock creates a mock returning text.
func NewMock(text string) *Mock {
	return &Mock{text: text}
}

// NewFailingMock creates a mock returning err.
func NewFailingMock(err error) *Mock {
	return &Mock{err: err}
}

func (m *Mock) SayHello(context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return "", m.err
	}
	return m.text, nil
}

// SetText changes the text returned by later calls.
func (m *Mock) SetText(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = text
}

// Calls returns how many times SayHello ran.
func (m *Mock) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

var _ Provider = (*Mock)(nil)
