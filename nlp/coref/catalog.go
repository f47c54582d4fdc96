package coref

import (
	"fmt"
	"sort"
	"strings"

	"github.com/oarkflow/coref/nlp/stopwords"
)

const (
	SieveExactString   = "exact-string"
	SievePreciseHead   = "precise-head"
	SieveRelaxedString = "relaxed-string"
	SieveRelaxedHead   = "relaxed-head"
	SievePronoun       = "pronoun"
)

// DefaultSieveOrder ranks the built-in sieves from most to least precise.
var DefaultSieveOrder = []string{
	SieveExactString,
	SievePreciseHead,
	SieveRelaxedString,
	SieveRelaxedHead,
	SievePronoun,
}

// SieveOptions parameterizes the built-in sieves.
type SieveOptions struct {
	Stoplist      *stopwords.Set
	PronounWindow int
}

func DefaultSieveOptions() SieveOptions {
	return SieveOptions{Stoplist: stopwords.Heads(), PronounWindow: DefaultPronounWindow}
}

// SieveFactory builds a fresh sieve instance.
type SieveFactory func(opts SieveOptions) Sieve

var catalog = map[string]SieveFactory{
	SieveExactString:   func(o SieveOptions) Sieve { return NewExactStringMatch(o.Stoplist) },
	SievePreciseHead:   func(o SieveOptions) Sieve { return NewPreciseHeadMatch(o.Stoplist) },
	SieveRelaxedString: func(o SieveOptions) Sieve { return NewRelaxedStringMatch(o.Stoplist) },
	SieveRelaxedHead:   func(o SieveOptions) Sieve { return NewRelaxedHeadMatch(o.Stoplist) },
	SievePronoun:       func(o SieveOptions) Sieve { return NewPronounMatch(o.PronounWindow) },
}

// SieveNames lists the known sieve names sorted.
func SieveNames() []string {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// KnownSieve reports whether name resolves to a built-in sieve.
func KnownSieve(name string) bool {
	_, ok := catalog[normalizeSieveName(name)]
	return ok
}

// BuildSieves resolves names, in the given order, to new sieve instances.
// An empty list selects DefaultSieveOrder.
func BuildSieves(names []string, opts SieveOptions) ([]Sieve, error) {
	if len(names) == 0 {
		names = DefaultSieveOrder
	}
	if opts.Stoplist == nil {
		opts.Stoplist = stopwords.Heads()
	}
	seen := make(map[string]struct{}, len(names))
	out := make([]Sieve, 0, len(names))
	for _, raw := range names {
		name := normalizeSieveName(raw)
		factory, ok := catalog[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q (known: %s)", ErrUnknownSieve, raw, strings.Join(SieveNames(), ", "))
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateSieve, raw)
		}
		seen[name] = struct{}{}
		out = append(out, factory(opts))
	}
	return out, nil
}

// DefaultSieves builds DefaultSieveOrder with DefaultSieveOptions.
func DefaultSieves() []Sieve {
	sieves, err := BuildSieves(DefaultSieveOrder, DefaultSieveOptions())
	if err != nil {
		panic(err)
	}
	return sieves
}

func normalizeSieveName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
