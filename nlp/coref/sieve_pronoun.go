package coref

import (
	"strings"
)

// DefaultPronounWindow is how many sentences back a pronoun may look for its
// antecedent.
const DefaultPronounWindow = 3

type pronounForm struct {
	gender Gender
	number Number
}

var pronouns = map[string]pronounForm{
	"he":         {GenderMale, Singular},
	"him":        {GenderMale, Singular},
	"his":        {GenderMale, Singular},
	"himself":    {GenderMale, Singular},
	"she":        {GenderFemale, Singular},
	"her":        {GenderFemale, Singular},
	"hers":       {GenderFemale, Singular},
	"herself":    {GenderFemale, Singular},
	"it":         {GenderNeutral, Singular},
	"its":        {GenderNeutral, Singular},
	"itself":     {GenderNeutral, Singular},
	"they":       {GenderUnknown, Plural},
	"them":       {GenderUnknown, Plural},
	"their":      {GenderUnknown, Plural},
	"theirs":     {GenderUnknown, Plural},
	"themselves": {GenderUnknown, Plural},
}

// pronounAgreement reads gender and number off the pronoun itself and falls
// back to the attributes attached upstream for words outside the lexicon.
func pronounAgreement(m *Mention) (Gender, Number) {
	word := m.Head
	if strings.TrimSpace(word) == "" {
		word = m.Text
	}
	if f, ok := pronouns[strings.ToLower(strings.TrimSpace(word))]; ok {
		return f.gender, f.number
	}
	return m.Gender, m.Number
}

// PronounMatch links each pronoun to the nearest preceding non-pronoun
// mention within Window sentences whose gender and number are compatible.
type PronounMatch struct {
	Window int
}

func NewPronounMatch(window int) *PronounMatch {
	if window < 0 {
		window = DefaultPronounWindow
	}
	return &PronounMatch{Window: window}
}

func (s *PronounMatch) Name() string { return SievePronoun }

func (s *PronounMatch) Apply(mentions []*Mention, reg *Registry) {
	for j, p := range mentions {
		if p.Type != Pronoun {
			continue
		}
		gender, number := pronounAgreement(p)
		for i := j - 1; i >= 0; i-- {
			a := mentions[i]
			if p.Sentence-a.Sentence > s.Window {
				continue
			}
			if a.Type == Pronoun {
				continue
			}
			if !genderAgrees(gender, a.Gender) || !numberAgrees(number, a.Number) {
				continue
			}
			reg.Merge(a, p)
			break
		}
	}
}
