package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"petromatch/internal/domain/user"
	"petromatch/internal/repository"
)

const (
	maxLocationPreferences = 50
	maxLocationLength      = 100
)

type LocationPreferenceUsecase interface {
	Replace(ctx context.Context, userID uuid.UUID, locations []string) ([]user.LocationPreference, error)
	List(ctx context.Context, userID uuid.UUID) ([]user.LocationPreference, error)
}

type LocationPreferences struct {
	repo repository.LocationPreferenceRepository
}

func NewLocationPreferences(repo repository.LocationPreferenceRepository) *LocationPreferences {
	return &LocationPreferences{repo: repo}
}

// Replace discards every stored preference of the user and stores locations.
// Blank entries and case-insensitive repeats are dropped; an empty list clears.
func (s *LocationPreferences) Replace(ctx context.Context, userID uuid.UUID, locations []string) ([]user.LocationPreference, error) {
	if len(locations) > maxLocationPreferences {
		return nil, ErrInvalidInput
	}
	seen := make(map[string]struct{}, len(locations))
	clean := make([]string, 0, len(locations))
	for _, loc := range locations {
		loc = strings.Join(strings.Fields(loc), " ")
		if loc == "" {
			continue
		}
		if len(loc) > maxLocationLength {
			return nil, ErrInvalidInput
		}
		key := strings.ToLower(loc)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		clean = append(clean, loc)
	}

	out, err := s.repo.Replace(ctx, userID, clean)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return out, nil
}

func (s *LocationPreferences) List(ctx context.Context, userID uuid.UUID) ([]user.LocationPreference, error) {
	out, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return out, nil
}
