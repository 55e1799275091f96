package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"petromatch/internal/domain/matching"
	"petromatch/internal/domain/user"
)

func cvFor(userID uuid.UUID, content string) user.CV {
	return user.CV{UserID: userID, Filename: "cv.txt", Content: content}
}

func TestCVUpload_ReplacesPreviousCV(t *testing.T) {
	repo := newFakeCVs()
	uc := NewCVs(repo, nil, 0, quietLogger())
	owner := uuid.New()

	_, err := uc.Upload(context.Background(), owner, "first.txt", []byte("junior process engineer"))
	require.NoError(t, err)
	second, err := uc.Upload(context.Background(), owner, "/tmp/uploads/second.txt", []byte("senior drilling engineer"))
	require.NoError(t, err)

	assert.Len(t, repo.byUser, 1)
	got, err := uc.Get(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)
	assert.Equal(t, "second.txt", got.Filename)
	assert.Equal(t, "senior drilling engineer", got.Content)
	assert.False(t, got.Degraded)
}

func TestCVUpload_BinaryFormatsStorePlaceholder(t *testing.T) {
	uc := NewCVs(newFakeCVs(), nil, 0, quietLogger())
	cv, err := uc.Upload(context.Background(), uuid.New(), "resume.docx", []byte("PK\x03\x04 not really a docx"))
	require.NoError(t, err)
	assert.True(t, cv.Degraded)
	assert.True(t, matching.IsPlaceholder(cv.Content))
	assert.True(t, strings.HasPrefix(cv.Content, "Binary file: resume.docx"))
}

func TestCVUpload_Validation(t *testing.T) {
	uc := NewCVs(newFakeCVs(), nil, 16, quietLogger())
	owner := uuid.New()

	_, err := uc.Upload(context.Background(), owner, "photo.png", []byte("x"))
	assert.ErrorIs(t, err, ErrUnsupportedCVFormat)

	_, err = uc.Upload(context.Background(), owner, "cv.txt", nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Upload(context.Background(), owner, "", []byte("x"))
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Upload(context.Background(), owner, "cv.txt", []byte(strings.Repeat("a", 17)))
	assert.ErrorIs(t, err, ErrCVTooLarge)

	_, err = uc.Get(context.Background(), owner)
	assert.ErrorIs(t, err, ErrCVNotFound)
}
