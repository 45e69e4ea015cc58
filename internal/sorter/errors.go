package sorter

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration is raised during setup, before any run is written.
	ErrConfiguration = errors.New("sorter: configuration error")
	// ErrIO aborts the sort; I/O failures are not retried.
	ErrIO = errors.New("sorter: I/O error")

	ErrEmptySource = fmt.Errorf("%w: source has no header line", ErrIO)
	ErrCorruptRun  = fmt.Errorf("%w: run header does not match source", ErrIO)
)

func configErr(err error) error {
	return fmt.Errorf("%w: %w", ErrConfiguration, err)
}

func ioErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrIO, op, err)
}
