package errors

import (
	stderrors "errors"
	"fmt"
)

// ProviderError reports a failed call to an external provider
// (the chat-completion API or a search backend).
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s provider: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// TemplateError reports a prompt template that could not be rendered.
type TemplateError struct {
	Template string
	Err      error
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("template %s: %v", e.Template, e.Err)
}

func (e *TemplateError) Unwrap() error {
	return e.Err
}

// HandlerError reports a streaming callback that refused a chunk.
type HandlerError struct {
	Err error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("stream handler: %v", e.Err)
}

func (e *HandlerError) Unwrap() error {
	return e.Err
}

// Provider wraps err as a ProviderError. A nil err stays nil and an
// existing ProviderError is returned as is.
func Provider(provider string, err error) error {
	if err == nil {
		return nil
	}
	var pe *ProviderError
	if stderrors.As(err, &pe) {
		return err
	}
	return &ProviderError{Provider: provider, Err: err}
}

// Template wraps err as a TemplateError.
func Template(name string, err error) error {
	if err == nil {
		return nil
	}
	return &TemplateError{Template: name, Err: err}
}

// Handler wraps err as a HandlerError.
func Handler(err error) error {
	if err == nil {
		return nil
	}
	var he *HandlerError
	if stderrors.As(err, &he) {
		return err
	}
	return &HandlerError{Err: err}
}

func IsProvider(err error) bool {
	var pe *ProviderError
	return stderrors.As(err, &pe)
}

func IsTemplate(err error) bool {
	var te *TemplateError
	return stderrors.As(err, &te)
}

func IsHandler(err error) bool {
	var he *HandlerError
	return stderrors.As(err, &he)
}
