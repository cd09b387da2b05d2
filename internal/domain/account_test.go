package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountExtendedUntil(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	future := now.Add(5 * 24 * time.Hour)
	past := now.Add(-48 * time.Hour)

	tests := []struct {
		name    string
		current *time.Time
		want    time.Time
	}{
		{name: "no expiry", current: nil, want: now.AddDate(0, 0, 30)},
		{name: "expired", current: &past, want: now.AddDate(0, 0, 30)},
		{name: "active", current: &future, want: future.AddDate(0, 0, 30)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := &Account{UserID: 1, SubscriptionUntil: tt.current}
			assert.Equal(t, tt.want, acc.ExtendedUntil(now, 30))
		})
	}
}

func TestAccountExpiresWithin(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	at := func(d time.Duration) *time.Time {
		v := now.Add(d)
		return &v
	}

	tests := []struct {
		name  string
		until *time.Time
		want  bool
	}{
		{name: "no subscription", until: nil, want: false},
		{name: "12 hours left", until: at(12 * time.Hour), want: true},
		{name: "exactly a day", until: at(24 * time.Hour), want: true},
		{name: "expires now", until: at(0), want: true},
		{name: "three days left", until: at(72 * time.Hour), want: false},
		{name: "already expired", until: at(-time.Minute), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := &Account{SubscriptionUntil: tt.until}
			assert.Equal(t, tt.want, acc.ExpiresWithin(now, 24*time.Hour))
		})
	}
}

func TestTimestampRoundTrip(t *testing.T) {
	ts := time.Date(2025, 1, 2, 3, 4, 5, 999, time.UTC)

	formatted := FormatTimestamp(ts)
	assert.Equal(t, "2025-01-02 03:04:05", formatted)

	parsed, err := ParseTimestamp(formatted)
	require.NoError(t, err)
	assert.Equal(t, TruncateTimestamp(ts), parsed)

	_, err = ParseTimestamp("02.01.2025")
	assert.Error(t, err)
}
