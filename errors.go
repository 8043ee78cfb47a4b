package changediff

import (
	"errors"
	"strings"
)

// ErrNoData is returned when a query response carries neither data nor errors.
var ErrNoData = errors.New("no data in response")

// QueryError is a single error entry returned alongside a query response.
type QueryError struct {
	Message string
}

func (e *QueryError) Error() string {
	return e.Message
}

// AggregateError combines every error returned by one failed operation.
type AggregateError struct {
	Errors []error
}

// NewAggregateError returns the error itself for a single error and an
// *AggregateError for several. With no errors at all it returns ErrNoData,
// so a failed response is never mistaken for success.
func NewAggregateError(errs ...error) error {
	var nonNil []error
	for _, err := range errs {
		if err != nil {
			nonNil = append(nonNil, err)
		}
	}
	switch len(nonNil) {
	case 0:
		return ErrNoData
	case 1:
		return nonNil[0]
	default:
		return &AggregateError{Errors: nonNil}
	}
}

func (e *AggregateError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "\n")
}

// Unwrap exposes every underlying error to errors.Is and errors.As.
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// Messages returns the message of every underlying error.
func (e *AggregateError) Messages() []string {
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return msgs
}
