package usecase

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingReloader struct{ calls int }

func (r *countingReloader) Reload(context.Context) error {
	r.calls++
	return nil
}

func TestNotificationsUpsert_ValidatesCron(t *testing.T) {
	reloader := &countingReloader{}
	uc := NewNotifications(newFakeNotifications(), reloader, quietLogger())
	owner := uuid.New()

	for _, bad := range []string{"", "every day", "61 * * * *", "* * * * * *"} {
		_, err := uc.Upsert(context.Background(), owner, bad)
		assert.ErrorIs(t, err, ErrInvalidInput, "schedule %q", bad)
	}
	assert.Zero(t, reloader.calls)

	n, err := uc.Upsert(context.Background(), owner, " 0  8 * * 1-5 ")
	require.NoError(t, err)
	assert.Equal(t, "0 8 * * 1-5", n.CronSchedule)
	assert.Equal(t, 1, reloader.calls)
}

func TestNotificationsGetDelete(t *testing.T) {
	reloader := &countingReloader{}
	uc := NewNotifications(newFakeNotifications(), reloader, quietLogger())
	owner := uuid.New()

	_, err := uc.Get(context.Background(), owner)
	assert.ErrorIs(t, err, ErrScheduleNotFound)
	assert.ErrorIs(t, uc.Delete(context.Background(), owner), ErrScheduleNotFound)

	_, err = uc.Upsert(context.Background(), owner, "@daily")
	require.NoError(t, err)
	got, err := uc.Get(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, "@daily", got.CronSchedule)

	require.NoError(t, uc.Delete(context.Background(), owner))
	assert.Equal(t, 2, reloader.calls)
}
