package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("CORS_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("INVITATION_TTL_HOURS", "-3")
	t.Setenv("OTEL_SAMPLING_RATIO", "7")

	cfg := Load()

	require.Equal(t, ":9090", cfg.Addr())
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	require.Equal(t, 168*time.Hour, cfg.InvitationTTL)
	require.Equal(t, 1.0, cfg.OTELSampleRatio)
	require.Equal(t, "30", cfg.DefaultHourlyRate)
}

func TestGetBool(t *testing.T) {
	t.Setenv("FLAG_ON", "yes")
	t.Setenv("FLAG_OFF", "0")
	t.Setenv("FLAG_JUNK", "maybe")

	require.True(t, getBool("FLAG_ON", false))
	require.False(t, getBool("FLAG_OFF", true))
	require.True(t, getBool("FLAG_JUNK", true))
}
