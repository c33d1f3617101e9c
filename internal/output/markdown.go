package output

import (
	"bufio"
	"fmt"
	"io"
)

// Renderer is implemented by items that know their own markdown form
// (knowledge documents).
type Renderer interface {
	Markdown() string
}

// MarkdownWriter writes items that implement Renderer, separated by a
// horizontal rule. Items without a markdown form are rejected.
type MarkdownWriter struct {
	w     *bufio.Writer
	count int
}

// NewMarkdownWriter creates a markdown writer.
func NewMarkdownWriter(w io.Writer) *MarkdownWriter {
	return &MarkdownWriter{w: bufio.NewWriter(w)}
}

// Write renders a single item.
func (w *MarkdownWriter) Write(data any) error {
	r, ok := data.(Renderer)
	if !ok {
		return fmt.Errorf("markdown output requires a renderable document, got %T", data)
	}
	if w.count > 0 {
		if _, err := w.w.WriteString("\n---\n\n"); err != nil {
			return err
		}
	}
	if _, err := w.w.WriteString(r.Markdown()); err != nil {
		return err
	}
	w.count++
	return w.w.Flush()
}

// WriteAll renders multiple items.
func (w *MarkdownWriter) WriteAll(data []any) error {
	for _, item := range data {
		if err := w.Write(item); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the buffer.
func (w *MarkdownWriter) Flush() error {
	return w.w.Flush()
}

// Close flushes the writer.
func (w *MarkdownWriter) Close() error {
	return w.Flush()
}
