// Package errors holds error helpers shared by repositories and HTTP clients.
package errors

import "fmt"

// WrapWithContext prefixes err with msg, preserving the chain. Nil stays nil.
func WrapWithContext(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// WrapWithContextf is WrapWithContext with a format string.
func WrapWithContextf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
