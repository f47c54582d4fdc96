package stopwords

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/oarkflow/coref/nlp/normalizer"
)

// DefaultHeads are head words too generic to anchor a string match.
var DefaultHeads = []string{"that", "there"}

// Set is a case-insensitive word set. Entries and lookups are folded with
// normalizer.Head, the same key head matching uses. The zero value is empty and
// ready to use.
type Set struct {
	words map[string]struct{}
}

func New(words ...string) *Set {
	s := &Set{words: make(map[string]struct{}, len(words))}
	for _, w := range words {
		s.Add(w)
	}
	return s
}

// Heads returns a fresh set holding DefaultHeads.
func Heads() *Set {
	return New(DefaultHeads...)
}

func (s *Set) Add(word string) {
	w := normalizer.Head(word)
	if w == "" {
		return
	}
	if s.words == nil {
		s.words = make(map[string]struct{})
	}
	s.words[w] = struct{}{}
}

// Contains folds word before checking, so "There" matches "there".
func (s *Set) Contains(word string) bool {
	if s == nil || len(s.words) == 0 {
		return false
	}
	_, ok := s.words[normalizer.Head(word)]
	return ok
}

func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.words)
}

// Words lists the entries sorted.
func (s *Set) Words() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.words))
	for w := range s.words {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// Read adds one word per line; blank lines and lines starting with # are
// ignored.
func (s *Set) Read(r io.Reader) error {
	scan := bufio.NewScanner(r)
	for scan.Scan() {
		w := strings.TrimSpace(scan.Text())
		if w == "" || strings.HasPrefix(w, "#") {
			continue
		}
		s.Add(w)
	}
	return scan.Err()
}

// Load reads a word list file into a new set.
func Load(path string) (*Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open stoplist: %w", err)
	}
	defer f.Close()
	s := New()
	if err := s.Read(f); err != nil {
		return nil, fmt.Errorf("read stoplist %s: %w", path, err)
	}
	return s, nil
}
