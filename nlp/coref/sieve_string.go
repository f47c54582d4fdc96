package coref

import (
	"github.com/oarkflow/coref/nlp/normalizer"
	"github.com/oarkflow/coref/nlp/stopwords"
)

// ExactStringMatch merges non-pronoun mentions whose normalized surface text
// is identical.
type ExactStringMatch struct {
	Excluded *stopwords.Set
}

func NewExactStringMatch(excluded *stopwords.Set) *ExactStringMatch {
	if excluded == nil {
		excluded = stopwords.Heads()
	}
	return &ExactStringMatch{Excluded: excluded}
}

func (s *ExactStringMatch) Name() string { return SieveExactString }

func (s *ExactStringMatch) Apply(mentions []*Mention, reg *Registry) {
	first := make(map[string]*Mention)
	for _, m := range mentions {
		if m.Type == Pronoun {
			continue
		}
		phrase := normalizer.Phrase(m.Text)
		if phrase == "" || s.Excluded.Contains(phrase) {
			continue
		}
		if earlier, ok := first[phrase]; ok {
			reg.Merge(earlier, m)
			continue
		}
		first[phrase] = m
	}
}

// RelaxedStringMatch merges ENTITY mentions whose heads are equal ignoring
// case. Heads in Excluded never match.
type RelaxedStringMatch struct {
	Excluded *stopwords.Set
}

func NewRelaxedStringMatch(excluded *stopwords.Set) *RelaxedStringMatch {
	if excluded == nil {
		excluded = stopwords.Heads()
	}
	return &RelaxedStringMatch{Excluded: excluded}
}

func (s *RelaxedStringMatch) Name() string { return SieveRelaxedString }

// Apply compares every pair (i, j), i < j. Each side of a pair is checked for
// eligibility on its own head.
func (s *RelaxedStringMatch) Apply(mentions []*Mention, reg *Registry) {
	for i, a := range mentions {
		if !s.eligible(a) {
			continue
		}
		aHead := normalizer.Head(a.Head)
		for _, b := range mentions[i+1:] {
			if !s.eligible(b) {
				continue
			}
			if aHead == normalizer.Head(b.Head) {
				reg.Merge(a, b)
			}
		}
	}
}

func (s *RelaxedStringMatch) eligible(m *Mention) bool {
	return m.HasHead() && m.Type == Entity && !s.Excluded.Contains(m.Head)
}
