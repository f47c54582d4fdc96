package coref

import (
	"fmt"
	"strings"
)

// MentionType is the closed set of mention kinds produced by mention detection.
type MentionType int

const (
	Pronoun MentionType = iota
	Nominal
	Entity
)

var mentionTypeNames = [...]string{
	Pronoun: "PRONOUN",
	Nominal: "NOMINAL",
	Entity:  "ENTITY",
}

func (t MentionType) String() string {
	if t < 0 || int(t) >= len(mentionTypeNames) {
		return fmt.Sprintf("MentionType(%d)", int(t))
	}
	return mentionTypeNames[t]
}

// ParseMentionType accepts the textual form in any case.
func ParseMentionType(s string) (MentionType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "PRONOUN":
		return Pronoun, nil
	case "NOMINAL":
		return Nominal, nil
	case "ENTITY":
		return Entity, nil
	}
	return 0, fmt.Errorf("unknown mention type %q", s)
}

func (t MentionType) MarshalText() ([]byte, error) {
	if t < 0 || int(t) >= len(mentionTypeNames) {
		return nil, fmt.Errorf("unknown mention type %d", int(t))
	}
	return []byte(t.String()), nil
}

func (t *MentionType) UnmarshalText(b []byte) error {
	v, err := ParseMentionType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Gender is an optional agreement attribute attached upstream.
type Gender int

const (
	GenderUnknown Gender = iota
	GenderMale
	GenderFemale
	GenderNeutral
)

var genderNames = [...]string{"UNKNOWN", "MALE", "FEMALE", "NEUTRAL"}

func (g Gender) String() string {
	if g < 0 || int(g) >= len(genderNames) {
		return genderNames[0]
	}
	return genderNames[g]
}

func (g Gender) MarshalText() ([]byte, error) { return []byte(g.String()), nil }

func (g *Gender) UnmarshalText(b []byte) error {
	s := strings.ToUpper(strings.TrimSpace(string(b)))
	if s == "" {
		*g = GenderUnknown
		return nil
	}
	for i, name := range genderNames {
		if name == s {
			*g = Gender(i)
			return nil
		}
	}
	return fmt.Errorf("unknown gender %q", string(b))
}

// Number is the grammatical number of a mention.
type Number int

const (
	NumberUnknown Number = iota
	Singular
	Plural
)

var numberNames = [...]string{"UNKNOWN", "SINGULAR", "PLURAL"}

func (n Number) String() string {
	if n < 0 || int(n) >= len(numberNames) {
		return numberNames[0]
	}
	return numberNames[n]
}

func (n Number) MarshalText() ([]byte, error) { return []byte(n.String()), nil }

func (n *Number) UnmarshalText(b []byte) error {
	s := strings.ToUpper(strings.TrimSpace(string(b)))
	if s == "" {
		*n = NumberUnknown
		return nil
	}
	for i, name := range numberNames {
		if name == s {
			*n = Number(i)
			return nil
		}
	}
	return fmt.Errorf("unknown number %q", string(b))
}

// Span is a pair of document character offsets, end exclusive.
type Span struct {
	Begin int `json:"begin" yaml:"begin" msgpack:"begin"`
	End   int `json:"end" yaml:"end" msgpack:"end"`
}

func (s Span) Len() int { return s.End - s.Begin }

// Mention is one candidate referring expression. Mentions are produced by an
// upstream detection step in document order and are read-only for the whole
// coreference pass.
type Mention struct {
	Index    int         `json:"index" yaml:"index"`
	Head     string      `json:"head,omitempty" yaml:"head,omitempty"`
	Type     MentionType `json:"type" yaml:"type"`
	Span     Span        `json:"span" yaml:"span"`
	Text     string      `json:"text,omitempty" yaml:"text,omitempty"`
	// Sentence need not be monotonic along the mention list.
	Sentence int         `json:"sentence,omitempty" yaml:"sentence,omitempty"`
	Gender   Gender      `json:"gender,omitempty" yaml:"gender,omitempty"`
	Number   Number      `json:"number,omitempty" yaml:"number,omitempty"`
}

func (m *Mention) String() string {
	if m == nil {
		return "<nil>"
	}
	label := m.Text
	if label == "" {
		label = m.Head
	}
	return fmt.Sprintf("#%d %s %q", m.Index, m.Type, label)
}

// HasHead reports whether the mention carries a usable head word.
func (m *Mention) HasHead() bool {
	return strings.TrimSpace(m.Head) != ""
}
