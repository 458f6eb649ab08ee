package uploadstore

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeFilename(t *testing.T) {
	tests := map[string]string{
		"invoice.pdf":              "invoice.pdf",
		"My Invoice 2024.PDF":      "My_Invoice_2024.PDF",
		"../../etc/passwd":         "etc_passwd",
		`C:\Users\x\fatura.png`:    "C_Users_x_fatura.png",
		"şirket faturası.jpg":      "sirket_faturas.jpg",
		"ÇĞÜ.jpeg":                 "CGU.jpeg",
		"  .hidden.pdf ":           "hidden.pdf",
		"фактура.pdf":              "pdf",
		"":                         "",
		"inv<script>oice.pdf":      "invscriptoice.pdf",
	}
	for in, want := range tests {
		assert.Equal(t, want, SanitizeFilename(in), "input %q", in)
	}
}

func TestStore_SaveAndRemove(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	s, err := NewStore(dir)
	require.NoError(t, err)
	assert.DirExists(t, dir)

	st, err := s.Save("fatura.pdf", strings.NewReader("%PDF-1.4"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(st.Key, "_fatura.pdf"))
	assert.Equal(t, filepath.Join(dir, st.Key), st.Path)
	assert.EqualValues(t, 8, st.Size)

	data, err := os.ReadFile(st.Path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))

	require.NoError(t, s.Remove(st.Path))
	assert.NoFileExists(t, st.Path)
	assert.NoError(t, s.Remove(st.Path), "removing twice is fine")
}

func TestStore_SameNameDoesNotCollide(t *testing.T) {
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)

	const n = 16
	paths := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			st, err := s.Save("invoice.pdf", strings.NewReader("x"))
			if assert.NoError(t, err) {
				paths[i] = st.Path
			}
		}(i)
	}
	wg.Wait()

	seen := map[string]bool{}
	for _, p := range paths {
		assert.False(t, seen[p], "duplicate path %s", p)
		seen[p] = true
	}
}

func TestStore_EmptySanitizedName(t *testing.T) {
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)
	st, err := s.Save("...", strings.NewReader(""))
	require.NoError(t, err)
	assert.NotContains(t, st.Key, "_")
}

func TestNewStore_RequiresDir(t *testing.T) {
	_, err := NewStore("")
	assert.Error(t, err)
}
