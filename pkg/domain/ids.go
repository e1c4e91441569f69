// Package domain holds shared value types used across services. Construct
// them via the Parse helpers at trust boundaries; direct casting bypasses
// validation.
package domain

import (
	"strconv"

	dErrors "kontra/pkg/domain-errors"
)

// TaxID is the registry identifier used as the lookup key: 10 digits for a
// legal entity, 12 for an individual proprietor.
type TaxID string

// ParseTaxID constructs a TaxID from external input.
//
// Errors: CodeInvalidInput when the value is empty, non-numeric, or has the
// wrong length; no other errors are expected.
func ParseTaxID(s string) (TaxID, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "tax id cannot be empty")
	}
	if len(s) != 10 && len(s) != 12 {
		return "", dErrors.New(dErrors.CodeInvalidInput, "tax id must be 10 or 12 digits")
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return "", dErrors.New(dErrors.CodeInvalidInput, "tax id must contain only digits")
		}
	}
	return TaxID(s), nil
}

func (t TaxID) String() string {
	return string(t)
}

// IsEntrepreneur reports whether the ID belongs to an individual proprietor
// (12 digits) rather than a legal entity (10 digits).
func (t TaxID) IsEntrepreneur() bool {
	return len(t) == 12
}

// UserID identifies a chat user. The transport assigns these; they are always
// positive.
type UserID int64

// ParseUserID constructs a UserID from external input.
func ParseUserID(s string) (UserID, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "user id must be numeric")
	}
	if n <= 0 {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "user id must be positive")
	}
	return UserID(n), nil
}

func (u UserID) Int64() int64 {
	return int64(u)
}

func (u UserID) IsNil() bool {
	return u == 0
}

func (u UserID) String() string {
	return strconv.FormatInt(int64(u), 10)
}
