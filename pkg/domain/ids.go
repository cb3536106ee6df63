// Package domain holds typed identifiers shared across modules. Typed IDs
// prevent cross-type assignment at compile time; parsing enforces the
// "valid, non-empty, non-nil UUID" invariant at trust boundaries.
package domain

import (
	"github.com/google/uuid"

	dErrors "certseal/pkg/domain-errors"
)

// AlertID identifies a fraud alert.
type AlertID uuid.UUID

// ProfileID identifies a certificate security profile.
type ProfileID uuid.UUID

// NewAlertID returns a fresh random alert identifier.
func NewAlertID() AlertID { return AlertID(uuid.New()) }

// NewProfileID returns a fresh random profile identifier.
func NewProfileID() ProfileID { return ProfileID(uuid.New()) }

func (id AlertID) String() string   { return uuid.UUID(id).String() }
func (id ProfileID) String() string { return uuid.UUID(id).String() }

func (id AlertID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id ProfileID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// Text marshalling delegates to uuid.UUID so the IDs travel as canonical
// UUID strings in JSON rather than as raw byte arrays.

func (id AlertID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }

func (id *AlertID) UnmarshalText(data []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(data)
}

func (id ProfileID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }

func (id *ProfileID) UnmarshalText(data []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(data)
}

// ParseAlertID parses and validates an alert identifier.
func ParseAlertID(s string) (AlertID, error) {
	u, err := parseUUID(s)
	return AlertID(u), err
}

// ParseProfileID parses and validates a profile identifier.
func ParseProfileID(s string) (ProfileID, error) {
	u, err := parseUUID(s)
	return ProfileID(u), err
}

func parseUUID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id is required")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "id is not a valid UUID")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must not be the nil UUID")
	}
	return u, nil
}
