package reminder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/care-scheduler/internal/models"
)

func TestCompleteAndReopen(t *testing.T) {
	now := time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC)
	list := []models.ClientReminder{
		{ID: 1, Status: StatusPending},
		{ID: 2, Status: StatusPending},
	}

	require.NoError(t, Complete(&list[0], now))
	require.Equal(t, StatusCompleted, list[0].Status)
	require.NotNil(t, list[0].CompletedAt)
	require.Equal(t, now, *list[0].CompletedAt)

	require.Equal(t, StatusPending, list[1].Status)

	require.Error(t, Complete(&list[0], now))

	Reopen(&list[0])
	require.Nil(t, list[0].CompletedAt)
	require.Equal(t, StatusPending, list[0].Status)
}

func TestOverdueAndPriority(t *testing.T) {
	now := time.Now()
	r := &models.ClientReminder{Status: StatusPending, DueAt: now.Add(-time.Hour)}
	require.True(t, Overdue(r, now))
	r.Status = StatusCompleted
	require.False(t, Overdue(r, now))

	require.True(t, ValidPriority("high"))
	require.False(t, ValidPriority("urgent"))
}
