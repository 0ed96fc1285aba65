package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLocationFallsBack(t *testing.T) {
	require.Equal(t, DefaultTimezone, Location("Not/AZone").String())
	require.Equal(t, "Europe/Lisbon", Location("Europe/Lisbon").String())
	require.False(t, IsValid(""))
}

func TestParseDateAndDateOnly(t *testing.T) {
	d, err := ParseDate("Europe/Lisbon", "2026-03-09")
	require.NoError(t, err)
	require.Equal(t, 9, d.Day())

	_, err = ParseDate("UTC", "09/03/2026")
	require.Error(t, err)

	in := time.Date(2026, 3, 9, 23, 59, 0, 0, time.FixedZone("x", -3*3600))
	require.Equal(t, time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), DateOnly(in))
}
