package coreerr

import (
	"fmt"
	"strings"
)

// curated is an error that remembers both its category and the formatted
// message built from it.
type curated struct {
	errno   Errno
	message string
}

// Errorf creates a new curated error of category errno.
func Errorf(errno Errno, format string, args ...interface{}) error {
	return curated{
		errno:   errno,
		message: fmt.Sprintf(format, args...),
	}
}

// Error implements the error interface. It normalises the message by
// collapsing a duplicated leading "category: category: ..." part that
// results from re-wrapping an already curated error.
func (e curated) Error() string {
	s := fmt.Sprintf("%s: %s", e.errno, e.message)
	parts := strings.SplitN(s, ": ", 3)
	if len(parts) > 1 && parts[0] == parts[1] {
		return strings.Join(parts[1:], ": ")
	}
	return s
}

// Errno returns the category the error was raised with.
func (e curated) Errno() Errno {
	return e.errno
}

// Is reports whether err is a curated error of category errno.
func Is(err error, errno Errno) bool {
	if err == nil {
		return false
	}
	e, ok := err.(curated)
	return ok && e.errno == errno
}
