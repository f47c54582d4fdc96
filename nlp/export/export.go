package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/oarkflow/coref/nlp/coref"
)

// Chain is one cluster as written to the outside world.
type Chain struct {
	ID             int      `json:"id" msgpack:"id"`
	Representative int      `json:"representative" msgpack:"representative"`
	Mentions       []int    `json:"mentions" msgpack:"mentions"`
	Spans          [][2]int `json:"spans" msgpack:"spans"`
	Text           []string `json:"text,omitempty" msgpack:"text,omitempty"`
}

// Annotation is the coreference output of one document.
type Annotation struct {
	ID         string            `json:"id" msgpack:"id"`
	Clusters   []Chain           `json:"clusters" msgpack:"clusters"`
	Stats      []coref.SieveStat `json:"stats,omitempty" msgpack:"stats,omitempty"`
	DurationNS int64             `json:"duration_ns" msgpack:"duration_ns"`
}

// Format names an output encoding.
type Format string

const (
	JSON    Format = "json"
	MsgPack Format = "msgpack"
)

func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case JSON, "":
		return JSON, nil
	case MsgPack, "mpk":
		return MsgPack, nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// FromResult converts a partition into its exported form. When chainsOnly is
// set singleton clusters are left out.
func FromResult(id string, res *coref.Result, chainsOnly bool) *Annotation {
	clusters := res.Clusters
	if chainsOnly {
		clusters = res.Chains()
	}
	a := &Annotation{
		ID:         id,
		Clusters:   make([]Chain, 0, len(clusters)),
		Stats:      res.Stats,
		DurationNS: res.Duration.Nanoseconds(),
	}
	for _, c := range clusters {
		members := c.Members()
		ch := Chain{
			ID:             c.ID,
			Representative: c.Representative().Index,
			Mentions:       make([]int, len(members)),
			Spans:          make([][2]int, len(members)),
		}
		text := make([]string, len(members))
		hasText := false
		for i, m := range members {
			ch.Mentions[i] = m.Index
			ch.Spans[i] = [2]int{m.Span.Begin, m.Span.End}
			text[i] = m.Text
			hasText = hasText || m.Text != ""
		}
		if hasText {
			ch.Text = text
		}
		a.Clusters = append(a.Clusters, ch)
	}
	return a
}

func ToJSON(a *Annotation) (string, error) {
	b, err := json.Marshal(a)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func ToMsgPack(a *Annotation) ([]byte, error) {
	return msgpack.Marshal(a)
}

func FromMsgPack(b []byte) (*Annotation, error) {
	var a Annotation
	if err := msgpack.Unmarshal(b, &a); err != nil {
		return nil, fmt.Errorf("decode msgpack annotation: %w", err)
	}
	return &a, nil
}

// Write encodes annotations to w, one JSON document per line or one
// msgpack value after another.
func Write(w io.Writer, format Format, annotations ...*Annotation) error {
	switch format {
	case MsgPack:
		enc := msgpack.NewEncoder(w)
		for _, a := range annotations {
			if err := enc.Encode(a); err != nil {
				return fmt.Errorf("encode %s: %w", a.ID, err)
			}
		}
		return nil
	default:
		enc := json.NewEncoder(w)
		for _, a := range annotations {
			if err := enc.Encode(a); err != nil {
				return fmt.Errorf("encode %s: %w", a.ID, err)
			}
		}
		return nil
	}
}
