package coref

// Sieve is one matching rule of the pipeline. Apply runs once per document,
// may read every mention and the current partition, and changes state only
// through reg.Merge. Mentions must not be modified. A sieve keeps no state
// between documents and must be deterministic: later sieves depend on the
// merges it makes.
type Sieve interface {
	Name() string
	Apply(mentions []*Mention, reg *Registry)
}

// SieveFunc adapts a plain function to the Sieve interface.
type SieveFunc struct {
	ID string
	Fn func(mentions []*Mention, reg *Registry)
}

func (f SieveFunc) Name() string { return f.ID }

func (f SieveFunc) Apply(mentions []*Mention, reg *Registry) { f.Fn(mentions, reg) }

func genderAgrees(a, b Gender) bool {
	return a == GenderUnknown || b == GenderUnknown || a == b
}

func numberAgrees(a, b Number) bool {
	return a == NumberUnknown || b == NumberUnknown || a == b
}

// agree reports whether two mentions could share a referent judging by their
// gender and number. Unknown attributes agree with anything.
func agree(a, b *Mention) bool {
	return genderAgrees(a.Gender, b.Gender) && numberAgrees(a.Number, b.Number)
}
