package domain

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "certseal/pkg/domain-errors"
)

// TestParseUUID_Invariants validates the parsing invariant:
// "IDs must be valid, non-empty, non-nil UUIDs".
func TestParseUUID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseAlertID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseProfileID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseAlertID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		validUUID := uuid.New()
		id, err := ParseProfileID(validUUID.String())
		require.NoError(t, err)
		assert.Equal(t, ProfileID(validUUID), id)
	})
}

// TestTypeDistinction verifies the compiler enforces type safety.
// This is a compile-time check - if this compiles, the invariant holds.
func TestTypeDistinction(t *testing.T) {
	alertID := NewAlertID()
	profileID := NewProfileID()

	// These would fail to compile if types were interchangeable:
	// var _ AlertID = profileID   // compile error
	// var _ ProfileID = alertID   // compile error

	assert.NotEqual(t, uuid.UUID(alertID), uuid.UUID(profileID))
	assert.False(t, alertID.IsNil())
	assert.False(t, profileID.IsNil())
}

// TestJSONRoundTrip verifies IDs travel as canonical UUID strings in JSON,
// not as the underlying 16-byte array.
func TestJSONRoundTrip(t *testing.T) {
	t.Run("profile id marshals to its string form", func(t *testing.T) {
		id := NewProfileID()
		payload := struct {
			ProfileID ProfileID `json:"profile_id"`
		}{ProfileID: id}

		data, err := json.Marshal(payload)
		require.NoError(t, err)
		assert.JSONEq(t, fmt.Sprintf(`{"profile_id":%q}`, id.String()), string(data))
	})

	t.Run("alert id unmarshals from a string UUID", func(t *testing.T) {
		want := NewAlertID()
		var got struct {
			AlertID AlertID `json:"alert_id"`
		}

		raw := fmt.Sprintf(`{"alert_id":%q}`, want.String())
		require.NoError(t, json.Unmarshal([]byte(raw), &got))
		assert.Equal(t, want, got.AlertID)
	})
}
