package validators

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsEmail(t *testing.T) {
	require.True(t, IsEmail("nurse@care.test"))
	require.False(t, IsEmail("nurse@"))
	require.False(t, IsEmail(""))
}

func TestCustomTags(t *testing.T) {
	type in struct {
		Start string `validate:"hhmm"`
		Date  string `validate:"ymd"`
	}

	require.NoError(t, Validate.Struct(in{Start: "08:30", Date: "2026-01-31"}))
	require.Error(t, Validate.Struct(in{Start: "24:00", Date: "2026-01-31"}))
	require.Error(t, Validate.Struct(in{Start: "8:30", Date: "2026-01-31"}))
	require.Error(t, Validate.Struct(in{Start: "08:30", Date: "31/01/2026"}))
}
