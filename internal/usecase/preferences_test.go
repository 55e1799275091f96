package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocationPreferencesReplace_FullReplacement(t *testing.T) {
	repo := newFakePrefs()
	uc := NewLocationPreferences(repo)
	owner := uuid.New()

	_, err := uc.Replace(context.Background(), owner, []string{"Asia", "Europe"})
	require.NoError(t, err)
	got, err := uc.Replace(context.Background(), owner, []string{"  North   America ", "", "north america", "Norway"})
	require.NoError(t, err)

	var locs []string
	for _, p := range got {
		locs = append(locs, p.Location)
	}
	assert.Equal(t, []string{"North America", "Norway"}, locs)

	listed, err := uc.List(context.Background(), owner)
	require.NoError(t, err)
	assert.Len(t, listed, 2)
}

func TestLocationPreferencesReplace_EmptyClears(t *testing.T) {
	uc := NewLocationPreferences(newFakePrefs())
	owner := uuid.New()
	_, _ = uc.Replace(context.Background(), owner, []string{"Asia"})

	got, err := uc.Replace(context.Background(), owner, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLocationPreferencesReplace_Limits(t *testing.T) {
	uc := NewLocationPreferences(newFakePrefs())
	_, err := uc.Replace(context.Background(), uuid.New(), []string{strings.Repeat("x", maxLocationLength+1)})
	assert.ErrorIs(t, err, ErrInvalidInput)

	many := make([]string, maxLocationPreferences+1)
	for i := range many {
		many[i] = "loc"
	}
	_, err = uc.Replace(context.Background(), uuid.New(), many)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
