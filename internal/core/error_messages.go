package core

// error_messages.go maps import errors to user-facing messages with codes
// that users can quote to support.
//
// Two families exist:
//
//   - Data errors (IMP001-IMP011) come from an ImportReport. They describe a
//     cell the user must fix and are looked up by ErrorKind with [MapKind].
//   - Service errors (DB, FILE, SCH, IMPORT, REQ) are technical failures
//     around an import and are looked up by message pattern with [MapError].
//
// Patterns are matched case-insensitively with strings.Contains; the first
// match wins, so specific patterns come before general ones. ERR000 is the
// fallback; support should check the logs for the original error.

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string `json:"message"` // What happened
	Action  string `json:"action"`  // What to do about it
	Code    string `json:"code"`    // Support reference
}

var kindMessages = map[ErrorKind]UserMessage{
	KindEmptyFile: {
		Message: "The file has no rows to import",
		Action:  "Add at least one data row below the header",
		Code:    "IMP001",
	},
	KindExcessHeader: {
		Message: "This column is not part of the template",
		Action:  "Remove the column or rename it to a template column",
		Code:    "IMP002",
	},
	KindInvalidHeaderPosition: {
		Message: "This column is in the wrong position",
		Action:  "Move the column to match the template order",
		Code:    "IMP003",
	},
	KindEmptyRow: {
		Message: "This row is empty",
		Action:  "Fill in the row or delete it",
		Code:    "IMP004",
	},
	KindExtraField: {
		Message: "This cell is outside the template columns",
		Action:  "Move the value into a template column or delete it",
		Code:    "IMP005",
	},
	KindRequired: {
		Message: "This field is required",
		Action:  "Enter a value",
		Code:    "IMP006",
	},
	KindDateFormat: {
		Message: "This is not a valid date",
		Action:  "Use DD/MM/YYYY or DD/MM/YY",
		Code:    "IMP007",
	},
	KindNotAPastDate: {
		Message: "This date must be in the past",
		Action:  "Check the day, month and year",
		Code:    "IMP008",
	},
	KindNotAFutureDate: {
		Message: "This date must be in the future",
		Action:  "Check the day, month and year",
		Code:    "IMP009",
	},
	KindUnexpectedExternalID: {
		Message: "No contact is registered with this external ID",
		Action:  "Import the contact first or correct the ID",
		Code:    "IMP010",
	},
	KindValueDoesNotMatch: {
		Message: "The name does not match the registered contact",
		Action:  "Use the name stored for this external ID",
		Code:    "IMP011",
	},
}

// MapKind returns the user message for a data error kind.
func MapKind(kind ErrorKind) UserMessage {
	if msg, ok := kindMessages[kind]; ok {
		return msg
	}
	return defaultMessage
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// Database (DB001-DB004)
	{
		pattern: "duplicate key",
		msg: UserMessage{
			Message: "A contact with this external ID already exists",
			Action:  "Remove the duplicate rows and import again",
			Code:    "DB001",
		},
	},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Please try again in a few moments",
			Code:    "DB002",
		},
	},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "Database connection was interrupted",
			Action:  "Please try again",
			Code:    "DB003",
		},
	},
	{
		pattern: "deadlock",
		msg: UserMessage{
			Message: "Database was busy with conflicting operations",
			Action:  "Please try again",
			Code:    "DB004",
		},
	},

	// Files (FILE001-FILE004)
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds the maximum size limit",
			Action:  "Split the file into smaller chunks",
			Code:    "FILE001",
		},
	},
	{
		pattern: "invalid csv",
		msg: UserMessage{
			Message: "File is not a valid CSV",
			Action:  "Export the sheet again as comma-separated values",
			Code:    "FILE002",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Please select a CSV file to import",
			Code:    "FILE003",
		},
	},
	{
		pattern: "read file",
		msg: UserMessage{
			Message: "The file could not be read",
			Action:  "Check the file and try again",
			Code:    "FILE004",
		},
	},

	// Schemas (SCH001-SCH003)
	{
		pattern: "unknown schema",
		msg: UserMessage{
			Message: "Unknown import type",
			Action:  "Choose one of the available import types",
			Code:    "SCH001",
		},
	},
	{
		pattern: "does not create contacts",
		msg: UserMessage{
			Message: "This import type cannot be saved here",
			Action:  "Submit credential rows through the credential issuance flow",
			Code:    "SCH002",
		},
	},

	{
		pattern: "no contact store",
		msg: UserMessage{
			Message: "The contact directory is not available",
			Action:  "Start the server with a database connection",
			Code:    "SCH003",
		},
	},

	// Imports (IMPORT001-IMPORT002)
	{
		pattern: "too many concurrent imports",
		msg: UserMessage{
			Message: "System is busy processing other imports",
			Action:  "Please wait a moment and try again",
			Code:    "IMPORT001",
		},
	},
	{
		pattern: "has validation errors",
		msg: UserMessage{
			Message: "The file still has errors",
			Action:  "Fix the highlighted cells and import again",
			Code:    "IMPORT002",
		},
	},

	// Requests (REQ001-REQ002)
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "REQ001",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try a smaller file or check your connection",
			Code:    "REQ002",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// Returns the ERR000 fallback when no pattern matches.
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

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err matches a known pattern rather than the
// ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
