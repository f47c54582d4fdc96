package normalizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHead(t *testing.T) {
	assert.Equal(t, "obama", Head("  Obama "))
	assert.Equal(t, Head("OBAMA"), Head("obama"))
	assert.NotEqual(t, Head("resume"), Head("résumé"))
	assert.Equal(t, Head("résumé"), Head("résumé"))
}

func TestPhrase(t *testing.T) {
	tests := map[string]string{
		"The White  House.": "the white house",
		"Café Rouge":        "cafe rouge",
		"Obama's":           "obamas",
		"?!":                "",
	}
	for in, want := range tests {
		assert.Equal(t, want, Phrase(in), in)
	}
}

func TestNormalizeTokens(t *testing.T) {
	assert.Equal(t, []string{"ecole", "ete"}, NormalizeTokens([]string{"École", "Été", "?"}))
	assert.Equal(t, []string{"barack", "obama"}, Tokens("Barack Obama"))
}
