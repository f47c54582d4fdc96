package coref

import (
	"strings"
	"unicode/utf8"

	"github.com/oarkflow/coref/nlp/normalizer"
	"github.com/oarkflow/coref/nlp/stopwords"
)

// PreciseHeadMatch links a mention to the nearest earlier mention of the same
// type whose head is identical, case included, and whose gender and number
// agree.
type PreciseHeadMatch struct {
	Excluded *stopwords.Set
}

func NewPreciseHeadMatch(excluded *stopwords.Set) *PreciseHeadMatch {
	if excluded == nil {
		excluded = stopwords.Heads()
	}
	return &PreciseHeadMatch{Excluded: excluded}
}

func (s *PreciseHeadMatch) Name() string { return SievePreciseHead }

func (s *PreciseHeadMatch) Apply(mentions []*Mention, reg *Registry) {
	for j, m := range mentions {
		if m.Type == Pronoun || !m.HasHead() || s.Excluded.Contains(m.Head) {
			continue
		}
		head := strings.TrimSpace(m.Head)
		for i := j - 1; i >= 0; i-- {
			a := mentions[i]
			if a.Type != m.Type || strings.TrimSpace(a.Head) != head || !agree(a, m) {
				continue
			}
			reg.Merge(a, m)
			break
		}
	}
}

// RelaxedHeadMatch links an ENTITY or NOMINAL mention to the nearest earlier
// cluster headed by an entity when the mention's head occurs as a word of an
// earlier member's text: "Barack" joins the cluster of "Barack Obama".
type RelaxedHeadMatch struct {
	Excluded *stopwords.Set
}

func NewRelaxedHeadMatch(excluded *stopwords.Set) *RelaxedHeadMatch {
	if excluded == nil {
		excluded = stopwords.Heads()
	}
	return &RelaxedHeadMatch{Excluded: excluded}
}

func (s *RelaxedHeadMatch) Name() string { return SieveRelaxedHead }

func (s *RelaxedHeadMatch) Apply(mentions []*Mention, reg *Registry) {
	words := make([]map[string]struct{}, len(mentions))
	wordsOf := func(i int) map[string]struct{} {
		if words[i] == nil {
			set := make(map[string]struct{})
			for _, w := range normalizer.Tokens(mentions[i].Text) {
				set[w] = struct{}{}
			}
			words[i] = set
		}
		return words[i]
	}

	for j, m := range mentions {
		if m.Type == Pronoun || !m.HasHead() || s.Excluded.Contains(m.Head) {
			continue
		}
		head := normalizer.Phrase(m.Head)
		if utf8.RuneCountInString(head) < 2 || strings.Contains(head, " ") {
			continue
		}
		for i := j - 1; i >= 0; i-- {
			a := mentions[i]
			if a.Type == Pronoun || reg.Coreferent(a, m) {
				continue
			}
			if reg.ClusterOf(a).Representative().Type != Entity {
				continue
			}
			if _, ok := wordsOf(i)[head]; ok {
				reg.Merge(a, m)
				break
			}
		}
	}
}
