package extract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupported(t *testing.T) {
	assert.True(t, Supported("bill.pdf"))
	assert.True(t, Supported("BILL.PDF"))
	assert.True(t, Supported("bill.txt"))
	assert.False(t, Supported("bill.csv"))
	assert.False(t, Supported("bill"))
}

func TestFile_Text(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bill.txt")
	require.NoError(t, os.WriteFile(path, []byte("THIS BILL SUMMARY\nDETAILED CHARGES\n"), 0o644))

	text, err := File(path)
	require.NoError(t, err)
	assert.Equal(t, "THIS BILL SUMMARY\nDETAILED CHARGES\n", text)
}

func TestFile_Unsupported(t *testing.T) {
	_, err := File("bill.docx")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported")
}

func TestFile_Missing(t *testing.T) {
	_, err := File(filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestPDF_NotAPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.pdf")
	require.NoError(t, os.WriteFile(path, []byte("definitely not a pdf"), 0o644))

	_, err := File(path)
	assert.Error(t, err)
}

func TestJoinWords(t *testing.T) {
	assert.Equal(t, "(111) 222-3333 Voice $20.00", JoinWords([]string{"(111)", " 222-3333 ", "Voice", "$20.00"}))
	assert.Equal(t, "", JoinWords([]string{" ", ""}))
}
