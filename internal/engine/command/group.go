package command

// group runs a sequence of commands as one undo step.
type group[D Ledger] struct {
	name    string
	members []*Undoable[D]

	// templates are set for a group produced by Repeat; the first Do turns
	// them into members bound to the document at that time.
	templates []*Undoable[D]
}

// NewGroup wraps commands that have already been done into a single command
// in StateDone. Its modification count is the sum of its members'.
func NewGroup[D Ledger](name string, members []*Undoable[D]) *Undoable[D] {
	u := New[D](TypeGroup, name, &group[D]{name: name, members: members})
	u.state = StateDone
	return u
}

// Members returns the commands contained in a group, or nil when u is not a
// group or has not run yet.
func (u *Undoable[D]) Members() []*Undoable[D] {
	if g, ok := u.behavior.(*group[D]); ok {
		return g.members
	}
	return nil
}

func (g *group[D]) Do(doc D) bool {
	if g.templates != nil {
		return g.materialize(doc)
	}

	for i, m := range g.members {
		if !m.PerformDo(doc) {
			for j := i - 1; j >= 0; j-- {
				g.members[j].PerformUndo(doc)
			}
			return false
		}
	}
	return true
}

func (g *group[D]) Undo(doc D) bool {
	for i := len(g.members) - 1; i >= 0; i-- {
		if !g.members[i].PerformUndo(doc) {
			// Re-apply what was already reverted so the group stays whole.
			for j := i + 1; j < len(g.members); j++ {
				g.members[j].PerformDo(doc)
			}
			return false
		}
	}
	return true
}

// materialize repeats each template against doc in order, collating
// adjacent results the way the processor would.
func (g *group[D]) materialize(doc D) bool {
	var done []*Undoable[D]
	for _, t := range g.templates {
		if !t.IsRepeatable(doc) {
			continue
		}
		next, err := t.Repeat(doc)
		if err != nil || !next.PerformDo(doc) {
			continue
		}
		if n := len(done); n > 0 {
			if ok, _ := done[n-1].CollateWith(next); ok {
				continue
			}
		}
		done = append(done, next)
	}

	if len(done) == 0 {
		return false
	}
	g.members = done
	g.templates = nil
	return true
}

func (g *group[D]) modificationCount() int {
	n := 0
	for _, m := range g.members {
		n += m.ModificationCount()
	}
	return n
}

func (g *group[D]) IsRepeatDelimiter() bool {
	for _, m := range g.members {
		if m.IsRepeatDelimiter() {
			return true
		}
	}
	return false
}

func (g *group[D]) IsRepeatable(doc D) bool {
	for _, m := range g.source() {
		if m.IsRepeatable(doc) {
			return true
		}
	}
	return false
}

func (g *group[D]) Repeat(doc D) (*Undoable[D], error) {
	if !g.IsRepeatable(doc) {
		return nil, ErrNotRepeatable
	}
	src := g.source()
	templates := make([]*Undoable[D], len(src))
	copy(templates, src)
	return New[D](TypeGroup, g.name, &group[D]{name: g.name, templates: templates}), nil
}

func (g *group[D]) source() []*Undoable[D] {
	if g.templates != nil {
		return g.templates
	}
	return g.members
}
