package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewID_FormatAndUniqueness(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id := NewID()
		require.Len(t, id, IDLength)
		require.True(t, IsValidID(id))
		_, dup := seen[id]
		require.False(t, dup)
		seen[id] = struct{}{}
	}
}

func TestIsValidID(t *testing.T) {
	assert.True(t, IsValidID("64b1f0a2c3d4e5f601234567"))
	assert.False(t, IsValidID(""))
	assert.False(t, IsValidID("too-short"))
	assert.False(t, IsValidID("zzb1f0a2c3d4e5f601234567")) // not hex
	assert.False(t, IsValidID("64b1f0a2c3d4e5f6012345678")) // 25 chars
}

func TestFormatISO_SortableAndRoundTrips(t *testing.T) {
	t1 := time.Date(2024, 3, 1, 10, 0, 0, 500e6, time.UTC)
	t2 := t1.Add(250 * time.Millisecond)

	s1 := FormatISO(t1)
	s2 := FormatISO(t2)
	assert.Less(t, s1, s2) // lexicographic order matches chronology

	back, err := ParseISO(s1)
	require.NoError(t, err)
	assert.True(t, back.Equal(t1))
}

func TestParseISO_AcceptsPlainRFC3339(t *testing.T) {
	got, err := ParseISO("2024-03-01T10:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, 2024, got.Year())
}
