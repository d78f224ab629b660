package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func marshalKeys(t *testing.T, v interface{}) map[string]interface{} {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &m))
	return m
}

func TestReservationSerializesSnakeCase(t *testing.T) {
	name := "Ana"
	r := Reservation{ID: 1, BeachID: 2, GuestName: &name, Status: ReservationConfirmed}

	m := marshalKeys(t, r)
	for _, k := range []string{
		"id", "beach_id", "reservation_date", "guest_name", "lookup_code",
		"payment_amount_cents", "status", "payment_status", "checked_in",
	} {
		assert.Contains(t, m, k)
	}
	// nil optionals stay out of the payload
	assert.NotContains(t, m, "client_id")
	assert.NotContains(t, m, "guest_email")
}

func TestBeachSerializesSnakeCase(t *testing.T) {
	m := marshalKeys(t, Beach{ID: 7, Name: "Golem"})
	assert.Contains(t, m, "name")
	assert.Contains(t, m, "created_at")
	assert.NotContains(t, m, "location")
	assert.NotContains(t, m, "description")

	loc := "Golem, Durres"
	m = marshalKeys(t, Beach{ID: 7, Name: "Golem", Location: &loc})
	assert.Equal(t, "Golem, Durres", m["location"])
}

func TestIsGuest(t *testing.T) {
	assert.True(t, Reservation{}.IsGuest())

	clientID := uint64(3)
	assert.False(t, Reservation{ClientID: &clientID}.IsGuest())
}
