// Package clipboard provides the destinations a rendered prompt can be
// copied to.
package clipboard

import (
	"context"
	"sync"

	"github.com/atotto/clipboard"
)

type Writer interface {
	WriteText(ctx context.Context, text string) error
}

// WriterFunc adapts a function to Writer.
type WriterFunc func(ctx context.Context, text string) error

func (f WriterFunc) WriteText(ctx context.Context, text string) error {
	return f(ctx, text)
}

// System writes to the desktop clipboard.
type System struct{}

func (System) WriteText(_ context.Context, text string) error {
	return clipboard.WriteAll(text)
}

// Available reports whether a system clipboard utility was found.
func Available() bool {
	return !clipboard.Unsupported
}

// Discard drops the text.
type Discard struct{}

func (Discard) WriteText(context.Context, string) error {
	return nil
}

// Buffer keeps every written text in memory.
type Buffer struct {
	mu    sync.Mutex
	texts []string
}

func (b *Buffer) WriteText(_ context.Context, text string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.texts = append(b.texts, text)
	return nil
}

// Last returns the most recent text, or "" when nothing was written.
func (b *Buffer) Last() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.texts) == 0 {
		return ""
	}
	return b.texts[len(b.texts)-1]
}

func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.texts)
}
