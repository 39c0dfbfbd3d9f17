package script

import "errors"

var (
	// ErrStateClosed is returned when operating on a closed interpreter.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrNotTable is returned when the chunk does not return a table.
	ErrNotTable = errors.New("action file must return a table")

	// ErrMissingRun is returned when the table lacks a run function.
	ErrMissingRun = errors.New("action table is missing a run function")

	// ErrMissingDescription is returned when the table lacks a description.
	ErrMissingDescription = errors.New("action table is missing a description")
)
