package reshape

import (
	"errors"
	"fmt"
)

// Sentinel errors for selection and pivot spec validation. Callers match
// them with errors.Is.
var (
	// ErrNoMatchingColumn is returned when a required selector matches
	// nothing in the frame.
	ErrNoMatchingColumn = errors.New("no columns matched selection")

	// ErrSpecMissingNameColumn is returned when a pivot spec frame has no
	// "name" column.
	ErrSpecMissingNameColumn = errors.New(`pivot spec must have a "name" column`)

	// ErrSpecMissingValueColumn is returned when a pivot spec frame has no
	// "value" column.
	ErrSpecMissingValueColumn = errors.New(`pivot spec must have a "value" column`)

	// ErrSpecNameNotString is returned when the spec's "name" column is not
	// a string column.
	ErrSpecNameNotString = errors.New(`pivot spec "name" column must be a string column`)

	// ErrSpecValueNotString is returned when the spec's "value" column is
	// not a string column.
	ErrSpecValueNotString = errors.New(`pivot spec "value" column must be a string column`)

	// ErrSpecNameNotUnique is returned when the spec's "name" column
	// contains duplicate output names.
	ErrSpecNameNotUnique = errors.New(`pivot spec "name" column must be unique`)

	// ErrBadValuesFn is returned when ValuesFn is not an aggregation
	// function or a map from value column to aggregation function.
	ErrBadValuesFn = errors.New("ValuesFn must be an AggFunc or a map[string]AggFunc")
)

// Warning is a non-fatal diagnostic produced during reshaping, such as a
// value column being promoted to lists because of duplicate keys.
type Warning struct {
	Column  string
	Message string
}

func (w Warning) String() string {
	if w.Column == "" {
		return w.Message
	}
	return fmt.Sprintf("column %q: %s", w.Column, w.Message)
}
