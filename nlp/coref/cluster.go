package coref

// Cluster is a set of mentions believed to refer to the same entity. Members
// are kept in first-seen order and a cluster is never empty.
type Cluster struct {
	ID      int
	members []*Mention
}

func newCluster(id int, m *Mention) *Cluster {
	return &Cluster{ID: id, members: []*Mention{m}}
}

// Members returns a copy of the member list.
func (c *Cluster) Members() []*Mention {
	out := make([]*Mention, len(c.members))
	copy(out, c.members)
	return out
}

func (c *Cluster) Len() int { return len(c.members) }

// First returns the earliest member.
func (c *Cluster) First() *Mention { return c.members[0] }

// Representative is the first ENTITY member, or the first member when the
// cluster holds no entity.
func (c *Cluster) Representative() *Mention {
	for _, m := range c.members {
		if m.Type == Entity {
			return m
		}
	}
	return c.members[0]
}

// HasType reports whether any member has the given type.
func (c *Cluster) HasType(t MentionType) bool {
	for _, m := range c.members {
		if m.Type == t {
			return true
		}
	}
	return false
}

// Indexes lists member indexes in member order.
func (c *Cluster) Indexes() []int {
	out := make([]int, len(c.members))
	for i, m := range c.members {
		out[i] = m.Index
	}
	return out
}

func (c *Cluster) snapshot() Cluster {
	return Cluster{ID: c.ID, members: c.Members()}
}
