// Package cli holds terminal output helpers for the one-shot commands.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
)

// ANSI Color codes
const (
	ColorReset = "\033[0m"
	ColorRed   = "\033[31m"
	ColorGreen = "\033[32m"
	ColorCyan  = "\033[36m"
	ColorGray  = "\033[90m"
)

// StreamingWriter writes streamed content to a terminal
type StreamingWriter struct {
	mu        sync.Mutex
	writer    io.Writer
	colorMode bool
}

func NewStreamingWriter(w io.Writer) *StreamingWriter {
	if w == nil {
		w = os.Stdout
	}
	return &StreamingWriter{
		writer:    w,
		colorMode: true,
	}
}

func (sw *StreamingWriter) SetColorMode(enabled bool) {
	sw.colorMode = enabled
}

func (sw *StreamingWriter) Write(content string) {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	fmt.Fprint(sw.writer, content)
}

func (sw *StreamingWriter) WriteLine(content string) {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	fmt.Fprintln(sw.writer, content)
}

// WriteColored writes colored content if color mode is enabled
func (sw *StreamingWriter) WriteColored(content, color string) {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	if sw.colorMode {
		fmt.Fprintf(sw.writer, "%s%s%s", color, content, ColorReset)
	} else {
		fmt.Fprint(sw.writer, content)
	}
}

// TokenPrinter prints streamed tokens as they arrive. It implements
// llm.StreamHandler.
type TokenPrinter struct {
	writer *StreamingWriter
	color  string
	count  int
}

func NewTokenPrinter(writer *StreamingWriter, color string) *TokenPrinter {
	return &TokenPrinter{writer: writer, color: color}
}

func (p *TokenPrinter) OnToken(ctx context.Context, token string) error {
	p.count++
	if p.color == "" {
		p.writer.Write(token)
		return nil
	}
	p.writer.WriteColored(token, p.color)
	return nil
}

// Done ends the streamed line. Nothing is written when no token arrived.
func (p *TokenPrinter) Done() {
	if p.count > 0 {
		p.writer.WriteLine("")
	}
}

// Tokens reports how many tokens were printed
func (p *TokenPrinter) Tokens() int {
	return p.count
}
