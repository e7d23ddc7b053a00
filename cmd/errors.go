package cmd

import "fmt"

// TargetUnreachableError indicates the initial handshake with the target failed.
type TargetUnreachableError struct {
	Target string
	Err    error
}

func (e *TargetUnreachableError) Error() string {
	return fmt.Sprintf("could not complete a TLS handshake with %s: %v", e.Target, e.Err)
}

func (e *TargetUnreachableError) Unwrap() error {
	return e.Err
}

// InvalidArgumentError signals a malformed command-line value.
type InvalidArgumentError struct {
	Name   string
	Value  string
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("invalid %s %q", e.Name, e.Value)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Name, e.Value, e.Reason)
}
