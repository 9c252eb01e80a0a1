package cli

import (
	"bytes"
	"context"
	"testing"
)

func TestTokenPrinter_Plain(t *testing.T) {
	var buf bytes.Buffer
	printer := NewTokenPrinter(NewStreamingWriter(&buf), "")

	for _, token := range []string{"大象比蚂蚁大，", "所以", "蚂蚁比大象小"} {
		if err := printer.OnToken(context.Background(), token); err != nil {
			t.Fatalf("OnToken failed: %v", err)
		}
	}
	printer.Done()

	if got := buf.String(); got != "大象比蚂蚁大，所以蚂蚁比大象小\n" {
		t.Errorf("unexpected output %q", got)
	}
	if printer.Tokens() != 3 {
		t.Errorf("expected 3 tokens, got %d", printer.Tokens())
	}
}

func TestTokenPrinter_Colors(t *testing.T) {
	var buf bytes.Buffer
	writer := NewStreamingWriter(&buf)
	printer := NewTokenPrinter(writer, ColorGreen)

	printer.OnToken(context.Background(), "hi")
	if got := buf.String(); got != ColorGreen+"hi"+ColorReset {
		t.Errorf("unexpected colored output %q", got)
	}

	buf.Reset()
	writer.SetColorMode(false)
	printer.OnToken(context.Background(), "hi")
	if got := buf.String(); got != "hi" {
		t.Errorf("expected plain output, got %q", got)
	}
}

func TestTokenPrinter_DoneWithoutTokens(t *testing.T) {
	var buf bytes.Buffer
	NewTokenPrinter(NewStreamingWriter(&buf), "").Done()
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}
