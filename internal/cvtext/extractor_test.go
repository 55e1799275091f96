package cvtext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"petromatch/internal/domain/matching"
)

func TestExtract_PlainText(t *testing.T) {
	res, err := NewExtractor().Extract("cv.TXT", []byte("Senior drilling engineer"))
	require.NoError(t, err)
	assert.Equal(t, "Senior drilling engineer", res.Text)
	assert.False(t, res.Placeholder)
}

func TestExtract_Latin1Fallback(t *testing.T) {
	// "Petróleo" in ISO-8859-1
	res, err := NewExtractor().Extract("cv.txt", []byte{'P', 'e', 't', 'r', 0xf3, 'l', 'e', 'o'})
	require.NoError(t, err)
	assert.Equal(t, "Petróleo", res.Text)
}

func TestExtract_UnparseableBinaryIsPlaceholder(t *testing.T) {
	data := []byte("PK\x03\x04 not really a docx")
	for _, name := range []string{"cv.docx", "cv.doc", "broken.pdf"} {
		res, err := NewExtractor().Extract(name, data)
		require.NoError(t, err)
		assert.True(t, res.Placeholder, name)
		assert.Contains(t, res.Text, "Binary file: "+name)
		assert.True(t, matching.IsPlaceholder(res.Text), "engine must detect the placeholder")
	}
}

func TestExtract_RejectsOtherFormats(t *testing.T) {
	_, err := NewExtractor().Extract("cv.exe", []byte("MZ"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.False(t, Supported("photo.png"))
	assert.True(t, Supported("Resume.PDF"))
}

func TestCleanLines(t *testing.T) {
	assert.Equal(t, "a\nb", cleanLines("  a \n\n\n b\n"))
}
