package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"petromatch/internal/cvtext"
	"petromatch/internal/domain/user"
	"petromatch/internal/repository"
)

const defaultMaxCVBytes = 5 << 20

type CVUsecase interface {
	Upload(ctx context.Context, userID uuid.UUID, filename string, data []byte) (user.CV, error)
	Get(ctx context.Context, userID uuid.UUID) (user.CV, error)
}

type CVs struct {
	repo      repository.CVRepository
	extractor *cvtext.Extractor
	maxBytes  int64
	logger    *log.Logger
}

func NewCVs(repo repository.CVRepository, extractor *cvtext.Extractor, maxBytes int64, logger *log.Logger) *CVs {
	if extractor == nil {
		extractor = cvtext.NewExtractor()
	}
	if maxBytes <= 0 {
		maxBytes = defaultMaxCVBytes
	}
	if logger == nil {
		logger = log.Default()
	}
	return &CVs{repo: repo, extractor: extractor, maxBytes: maxBytes, logger: logger}
}

// Upload extracts the text of the file and makes it the user's only CV.
func (s *CVs) Upload(ctx context.Context, userID uuid.UUID, filename string, data []byte) (user.CV, error) {
	name := filepath.Base(strings.TrimSpace(filename))
	if name == "" || name == "." || len(data) == 0 {
		return user.CV{}, ErrInvalidInput
	}
	if !cvtext.Supported(name) {
		return user.CV{}, ErrUnsupportedCVFormat
	}
	if int64(len(data)) > s.maxBytes {
		return user.CV{}, ErrCVTooLarge
	}

	res, err := s.extractor.Extract(name, data)
	if err != nil {
		if errors.Is(err, cvtext.ErrUnsupportedFormat) {
			return user.CV{}, ErrUnsupportedCVFormat
		}
		return user.CV{}, fmt.Errorf("%w: extract cv: %v", ErrInternal, err)
	}

	cv, err := s.repo.Replace(ctx, user.CV{
		UserID:   userID,
		Filename: name,
		Content:  res.Text,
		Degraded: res.Placeholder,
	})
	if err != nil {
		return user.CV{}, fmt.Errorf("%w: store cv: %v", ErrInternal, err)
	}

	s.logger.Printf("CV uploaded | user_id=%s filename=%q bytes=%d degraded=%t", userID, name, len(data), res.Placeholder)
	return cv, nil
}

func (s *CVs) Get(ctx context.Context, userID uuid.UUID) (user.CV, error) {
	cv, err := s.repo.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return user.CV{}, ErrCVNotFound
		}
		return user.CV{}, fmt.Errorf("%w: get cv: %v", ErrInternal, err)
	}
	return cv, nil
}
