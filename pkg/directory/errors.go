package directory

import (
	"errors"
	"fmt"
)

// Kind identifies which rule an operation failed on.
type Kind string

const (
	KindNoNationalID        Kind = "no_national_id"
	KindDuplicateNationalID Kind = "duplicate_national_id"
	KindNoName              Kind = "no_name"
	KindNameTooLong         Kind = "name_too_long"
	KindNoPhoneNumber       Kind = "no_phone_number"
	KindPhoneNumberTooLong  Kind = "phone_number_too_long"
	KindNoSearchTerm        Kind = "no_search_term"
	KindInvalidPattern      Kind = "invalid_pattern"
	KindNotFound            Kind = "not_found"
	KindEmpty               Kind = "empty"
	KindNoMatches           Kind = "no_matches"
	KindFileNotExist        Kind = "file_not_exist"
	KindIO                  Kind = "io"
	KindParse               Kind = "parse"
)

var kindMessages = map[Kind]string{
	KindNoNationalID:        "no national ID entered",
	KindDuplicateNationalID: "an entry with the same national ID already exists",
	KindNoName:              "no name entered",
	KindNameTooLong:         fmt.Sprintf("name exceeds the maximum character limit of %d", MaxNameLength),
	KindNoPhoneNumber:       "no phone number entered",
	KindPhoneNumberTooLong:  fmt.Sprintf("phone number exceeds the maximum character limit of %d", MaxPhoneNumberLength),
	KindNoSearchTerm:        "no search term entered",
	KindInvalidPattern:      "invalid search pattern",
	KindNotFound:            "no matching entry found",
	KindEmpty:               "phone book is empty",
	KindNoMatches:           "no matching entries found",
	KindFileNotExist:        "phone book file does not exist",
	KindIO:                  "phone book file could not be accessed",
	KindParse:               "phone book file is malformed",
}

// Error is the outcome of a failed store operation.
type Error struct {
	Kind Kind
	Op   string // "save" or "load" for file errors, empty otherwise
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s %s: %s", e.Op, e.Path, e.Reason())
	}
	return e.Reason()
}

// Reason describes the failure without the operation and path.
func (e *Error) Reason() string {
	msg := kindMessages[e.Kind]
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same Kind, so the
// package sentinels can be matched with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrNoNationalID        = &Error{Kind: KindNoNationalID}
	ErrDuplicateNationalID = &Error{Kind: KindDuplicateNationalID}
	ErrNoName              = &Error{Kind: KindNoName}
	ErrNameTooLong         = &Error{Kind: KindNameTooLong}
	ErrNoPhoneNumber       = &Error{Kind: KindNoPhoneNumber}
	ErrPhoneNumberTooLong  = &Error{Kind: KindPhoneNumberTooLong}
	ErrNoSearchTerm        = &Error{Kind: KindNoSearchTerm}
	ErrInvalidPattern      = &Error{Kind: KindInvalidPattern}
	ErrNotFound            = &Error{Kind: KindNotFound}
	ErrEmpty               = &Error{Kind: KindEmpty}
	ErrNoMatches           = &Error{Kind: KindNoMatches}
	ErrFileNotExist        = &Error{Kind: KindFileNotExist}
	ErrIO                  = &Error{Kind: KindIO}
	ErrParse               = &Error{Kind: KindParse}
)

// KindOf returns the Kind carried by err, or "" when err is nil or
// did not come from this package.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func fileError(kind Kind, op, path string, err error) *Error {
	return &Error{Kind: kind, Op: op, Path: path, Err: err}
}
