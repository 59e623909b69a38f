package directory

import (
	"strings"
	"unicode/utf8"

	"github.com/gobwas/glob"
	"golang.org/x/text/cases"
)

const (
	// MaxNameLength is the maximum number of characters allowed in a name
	MaxNameLength = 50

	// MaxPhoneNumberLength is the maximum number of characters allowed in a phone number
	MaxPhoneNumberLength = 50
)

// Entry is a single contact record keyed by its national ID.
type Entry struct {
	NationalID  string `json:"NationalId"  yaml:"nationalId"`
	Name        string `json:"Name"        yaml:"name"`
	PhoneNumber string `json:"PhoneNumber" yaml:"phoneNumber"`
}

// ValidateName checks that a name is present and within MaxNameLength.
func ValidateName(name string) error {
	if name == "" {
		return ErrNoName
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return ErrNameTooLong
	}
	return nil
}

// ValidatePhoneNumber checks that a phone number is present and within
// MaxPhoneNumberLength.
func ValidatePhoneNumber(phoneNumber string) error {
	if phoneNumber == "" {
		return ErrNoPhoneNumber
	}
	if utf8.RuneCountInString(phoneNumber) > MaxPhoneNumberLength {
		return ErrPhoneNumberTooLong
	}
	return nil
}

// ContainsText reports whether term occurs in the ID, name or phone
// number, ignoring case.
func (e Entry) ContainsText(term string) bool {
	fold := cases.Fold()
	return e.containsFolded(fold, fold.String(term))
}

// containsFolded is ContainsText for a needle already folded with fold.
// A Caser is not safe for concurrent use, so callers pass their own.
func (e Entry) containsFolded(fold cases.Caser, needle string) bool {
	for _, field := range e.fields() {
		if strings.Contains(fold.String(field), needle) {
			return true
		}
	}
	return false
}

// matchesGlob reports whether any field, folded with fold, matches g.
// The glob must have been compiled from a pattern folded the same way.
func (e Entry) matchesGlob(fold cases.Caser, g glob.Glob) bool {
	for _, field := range e.fields() {
		if g.Match(fold.String(field)) {
			return true
		}
	}
	return false
}

func (e Entry) fields() [3]string {
	return [3]string{e.NationalID, e.Name, e.PhoneNumber}
}
