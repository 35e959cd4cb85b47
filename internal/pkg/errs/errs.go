package errs

import (
	"errors"
	"fmt"
	"strings"

	cr "github.com/cockroachdb/errors"
)

func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return cr.Wrap(err, msg)
}

func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return cr.Wrapf(err, format, args...)
}

func New(msg string) error {
	return cr.New(msg)
}

// NewMarked creates a sentinel that also matches the given category with errors.Is.
func NewMarked(msg string, category error) error {
	return &categorized{msg: msg, category: category}
}

type categorized struct {
	msg      string
	category error
}

func (e *categorized) Error() string { return e.msg }

func (e *categorized) Is(target error) bool { return target == e.category }

// Message returns the text of the outermost sentinel created with NewMarked in err's chain.
func Message(err error) (string, bool) {
	var c *categorized
	if errors.As(err, &c) {
		return c.msg, true
	}
	return "", false
}

// Is also follows marks added with Mark, which the standard library does not see.
func Is(err, reference error) bool {
	return cr.Is(err, reference)
}

func Mark(err error, markErr error) error {
	if err == nil {
		return markErr
	}
	return cr.Mark(err, markErr)
}

func ExtractStackLines(err error, maxLines int) []string {
	if err == nil {
		return nil
	}
	s := fmt.Sprintf("%+v", err)
	lines := strings.Split(s, "\n")
	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	return lines
}
