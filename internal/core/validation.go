package core

// validation.go checks person and country input before it reaches a
// repository. Every failing field is reported, so forms can show all
// problems at once.

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"
)

// Field limits for persons.
const (
	MaxPersonNameLength = 50
	MaxEmailLength      = 100
	MaxAddressLength    = 200
	MaxCountryNameLen   = 100
)

// ValidationError represents a single validation error for a field.
type ValidationError struct {
	Field   string // Field name
	Value   string // The invalid value
	Message string // Human-readable error message
}

func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// ValidationErrors collects field errors. It unwraps to ErrInvalidArgument.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Error()
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func (v ValidationErrors) Unwrap() error {
	return ErrInvalidArgument
}

// Messages returns the per-field messages in order.
func (v ValidationErrors) Messages() []string {
	out := make([]string, len(v))
	for i, e := range v {
		out[i] = e.Message
	}
	return out
}

type personFields struct {
	name, email, gender, address string
}

func (f personFields) validate() ValidationErrors {
	var errs ValidationErrors

	name := strings.TrimSpace(f.name)
	switch {
	case name == "":
		errs = append(errs, ValidationError{Field: "PersonName", Message: "Person Name can't be blank"})
	case utf8.RuneCountInString(name) > MaxPersonNameLength:
		errs = append(errs, ValidationError{Field: "PersonName", Value: f.name,
			Message: fmt.Sprintf("Person Name can't be longer than %d characters", MaxPersonNameLength)})
	}

	if email := strings.TrimSpace(f.email); email != "" {
		if utf8.RuneCountInString(email) > MaxEmailLength {
			errs = append(errs, ValidationError{Field: "Email", Value: f.email,
				Message: fmt.Sprintf("Email can't be longer than %d characters", MaxEmailLength)})
		} else if !isEmail(email) {
			errs = append(errs, ValidationError{Field: "Email", Value: f.email,
				Message: "Email must be a valid email address"})
		}
	}

	if f.gender != "" {
		if _, ok := ParseGender(f.gender); !ok {
			errs = append(errs, ValidationError{Field: "Gender", Value: f.gender,
				Message: "Gender must be one of Male, Female or Other"})
		}
	}

	if utf8.RuneCountInString(strings.TrimSpace(f.address)) > MaxAddressLength {
		errs = append(errs, ValidationError{Field: "Address", Value: f.address,
			Message: fmt.Sprintf("Address can't be longer than %d characters", MaxAddressLength)})
	}

	return errs
}

// isEmail accepts bare addresses only; display-name forms are rejected.
func isEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

// Validate reports every invalid field of the request.
func (r *PersonAddRequest) Validate() ValidationErrors {
	return personFields{r.PersonName, r.Email, string(r.Gender), r.Address}.validate()
}

// Validate reports every invalid field of the request.
func (r *PersonUpdateRequest) Validate() ValidationErrors {
	return personFields{r.PersonName, r.Email, string(r.Gender), r.Address}.validate()
}

// Validate checks the country name.
func (r *CountryAddRequest) Validate() ValidationErrors {
	name := strings.TrimSpace(r.CountryName)
	switch {
	case name == "":
		return ValidationErrors{{Field: "CountryName", Message: "Country Name can't be blank"}}
	case utf8.RuneCountInString(name) > MaxCountryNameLen:
		return ValidationErrors{{Field: "CountryName", Value: r.CountryName,
			Message: fmt.Sprintf("Country Name can't be longer than %d characters", MaxCountryNameLen)}}
	}
	return nil
}
