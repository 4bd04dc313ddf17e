package config

import "fmt"

// CodeConfig is the error code carried by every configuration error.
const CodeConfig = "CONFIG_ERROR"

// Error describes a configuration failure, optionally tied to one key.
type Error struct {
	Code string
	Key  string
	Msg  string
	Err  error
}

func newError(key, msg string, err error) *Error {
	return &Error{Code: CodeConfig, Key: key, Msg: msg, Err: err}
}

func (e *Error) Error() string {
	s := fmt.Sprintf("[%s] %s", e.Code, e.Msg)
	if e.Key != "" {
		s += fmt.Sprintf(" (key %q)", e.Key)
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *Error) Unwrap() error {
	return e.Err
}
