package stopwords

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeadsIgnoreCase(t *testing.T) {
	s := Heads()
	for _, w := range []string{"that", "THAT", "There", " there "} {
		assert.True(t, s.Contains(w), w)
	}
	assert.False(t, s.Contains("Obama"))
	assert.Equal(t, []string{"that", "there"}, s.Words())
}

func TestZeroAndNilSets(t *testing.T) {
	var zero Set
	assert.False(t, zero.Contains("that"))
	zero.Add("Here")
	assert.True(t, zero.Contains("here"))

	var nilSet *Set
	assert.False(t, nilSet.Contains("that"))
	assert.Equal(t, 0, nilSet.Len())
	assert.Nil(t, nilSet.Words())
}

func TestReadAndLoad(t *testing.T) {
	s := New()
	require.NoError(t, s.Read(strings.NewReader("# generic\nIt\n\n  this \n")))
	assert.Equal(t, []string{"it", "this"}, s.Words())

	path := filepath.Join(t.TempDir(), "stop.txt")
	require.NoError(t, os.WriteFile(path, []byte("that\nthere\nhere\n"), 0o644))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, loaded.Len())

	_, err = Load(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestFoldsLikeHeadMatching(t *testing.T) {
	s := New("Café")
	assert.True(t, s.Contains("cafe\u0301"), "decomposed accent")
	assert.True(t, s.Contains("CAFÉ"))
	assert.False(t, s.Contains("cafe"), "accents are kept")
	assert.Equal(t, []string{"café"}, s.Words())
}
