package core

import (
	"errors"
	"fmt"
)

var (
	// ErrNilRequest is returned when a service receives a nil request.
	ErrNilRequest = errors.New("request cannot be nil")

	// ErrInvalidArgument is the parent of every input-related failure.
	ErrInvalidArgument = errors.New("invalid argument")

	ErrDuplicateCountry = fmt.Errorf("%w: country name already exists", ErrInvalidArgument)
	ErrInvalidPersonID  = fmt.Errorf("%w: person not found", ErrInvalidArgument)
	ErrUnknownCountry   = fmt.Errorf("%w: unknown country", ErrInvalidArgument)

	// ErrInvalidPersonIDFormat is returned for an ID that is not a UUID.
	ErrInvalidPersonIDFormat = fmt.Errorf("%w: invalid person id", ErrInvalidArgument)

	// ErrUnsupportedFile is returned for uploads that are not a readable
	// workbook or CSV file.
	ErrUnsupportedFile = errors.New("unsupported file")
)
