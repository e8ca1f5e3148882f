package presentation

import (
	"io"

	"github.com/linyaa-kiwi/vk-tower/internal/jsontree"
)

// Formatter handles porcelain output formatting
type Formatter struct {
	writer  io.Writer
	encoder *jsontree.Encoder
}

// NewFormatter creates a formatter writing format-encoded values to writer
func NewFormatter(writer io.Writer, format jsontree.Format) *Formatter {
	return &Formatter{
		writer:  writer,
		encoder: jsontree.NewEncoder(format),
	}
}

// Print renders one porcelain value followed by a newline
func (f *Formatter) Print(v jsontree.Value) error {
	return f.encoder.Write(f.writer, v)
}
