package document

import (
	"strings"
	"testing"

	"github.com/alexanderramin/apo/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_TextFormats(t *testing.T) {
	tests := []struct {
		name string
		file string
		data string
		want string
	}{
		{"txt", "charter.txt", "  Project Apollo\n", "Project Apollo"},
		{"markdown", "charter.MD", "# Charter\nScope", "# Charter\nScope"},
		{"unknown extension but utf8", "charter.dat", "Budget: 10k", "Budget: 10k"},
		{"json", "brief.json", `{"name":"x"}`, `{"name":"x"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extract(tt.file, []byte(tt.data))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtract_BinaryRejected(t *testing.T) {
	_, err := Extract("image.png", []byte{0x89, 'P', 'N', 'G', 0x00, 0x01})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedDocument)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.True(t, IsUnsupported(err))
}

func TestExtract_InvalidUTF8WithTextExtension(t *testing.T) {
	_, err := Extract("notes.txt", []byte{0xff, 0xfe, 'a'})
	assert.ErrorIs(t, err, ErrUnsupportedDocument)
}

func TestExtract_Empty(t *testing.T) {
	_, err := Extract("blank.txt", []byte("   \n\t"))
	assert.ErrorIs(t, err, ErrEmptyDocument)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = Extract("nothing", nil)
	assert.ErrorIs(t, err, ErrUnsupportedDocument)
}

func TestExtract_CorruptPDF(t *testing.T) {
	_, err := Extract("charter.pdf", []byte("%PDF-1.7\nthis is not a real pdf"))
	assert.ErrorIs(t, err, ErrUnsupportedDocument)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abcdef", 3))
	assert.Equal(t, "abc", Truncate("abc", 3))
	assert.Equal(t, "abc", Truncate("abc", 0))
	assert.Equal(t, "héé", Truncate("héého", 3))

	long := strings.Repeat("ж", 30000)
	got := Truncate(long, 25000)
	assert.Equal(t, 25000, len([]rune(got)))
}
