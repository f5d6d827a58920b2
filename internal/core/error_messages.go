package core

// error_messages.go maps technical errors to messages people can act on.
// Each message carries a code users can quote to support:
//
//	VAL001-VAL005  form and request validation
//	PER001-PER002  person lookups
//	CTY001-CTY002  countries
//	FILE001-FILE004 uploaded files
//	IMP001         import concurrency
//	DB001-DB006    database constraints and connectivity
//	RATE001        rate limiting
//	WEB001         unknown pages
//	ERR000         anything unrecognised

import (
	"fmt"
	"strings"
)

// UserMessage is a user-facing description of an error.
type UserMessage struct {
	Message string `json:"message"`
	Action  string `json:"action"`
	Code    string `json:"code"`
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns is matched in order against the lowercased error text.
// More specific patterns come first.
var errorPatterns = []errorPattern{
	{"request cannot be nil", UserMessage{"No data was submitted", "Fill in the form and submit it again", "VAL001"}},
	{"can't be blank", UserMessage{"A required field is empty", "Fill in every required field", "VAL002"}},
	{"can't be longer than", UserMessage{"A value is too long", "Shorten the highlighted field", "VAL003"}},
	{"must be a valid email", UserMessage{"The email address is not valid", "Use an address like name@example.com", "VAL004"}},
	{"gender must be one of", UserMessage{"The gender is not recognised", "Choose Male, Female or Other", "VAL005"}},
	{"invalid date", UserMessage{"The date could not be read", "Use the YYYY-MM-DD format", "VAL005"}},

	{"person not found", UserMessage{"The person does not exist", "Return to the list and pick another person", "PER001"}},
	{"invalid person id", UserMessage{"The person ID is not valid", "Return to the list and pick a person", "PER002"}},

	{"country name already exists", UserMessage{"A country with this name already exists", "Choose a different country name", "CTY001"}},
	{"unknown country", UserMessage{"The selected country does not exist", "Pick a country from the list", "CTY002"}},

	{"please select", UserMessage{"No file was uploaded", "Choose an xlsx file and upload it again", "FILE001"}},
	{"unsupported file", UserMessage{"The file type is not supported", "Upload an .xlsx workbook or a .csv file", "FILE002"}},
	{"request body too large", UserMessage{"File exceeds maximum size limit", "Split the file and upload the parts separately", "FILE003"}},
	{"read worksheet", UserMessage{"The worksheet could not be read", "Check that the workbook is not damaged", "FILE004"}},

	{"too many concurrent imports", UserMessage{"The server is busy with other imports", "Wait a moment and try again", "IMP001"}},

	{"duplicate key", UserMessage{"A record with this ID already exists", "Reload the page and try again", "DB001"}},
	{"violates unique", UserMessage{"This value must be unique but already exists", "Check for duplicate names", "DB002"}},
	{"violates foreign key", UserMessage{"Referenced record does not exist", "Pick a country from the list", "DB003"}},
	{"connection refused", UserMessage{"Unable to connect to database", "Please try again in a few moments", "DB004"}},
	{"connection reset", UserMessage{"Database connection was interrupted", "Please try again", "DB005"}},
	{"deadline exceeded", UserMessage{"Operation timed out", "Please try again later", "DB006"}},
	{"timeout", UserMessage{"Operation timed out", "Please try again later", "DB006"}},

	{"rate limit", UserMessage{"Too many requests", "Wait a minute before trying again", "RATE001"}},

	{"page not found", UserMessage{"The page does not exist", "Check the address or go back to the persons list", "WEB001"}},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts err into a UserMessage. A nil error yields the zero
// value and an unrecognised error the ERR000 fallback.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}
	return defaultMessage
}

// FormatUserError renders err as "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err matches a known pattern.
func IsUserFacing(err error) bool {
	return err != nil && MapError(err).Code != defaultMessage.Code
}
