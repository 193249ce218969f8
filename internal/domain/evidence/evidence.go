// Package evidence tracks, per category, whether supporting items were submitted.
package evidence

import "github.com/okian/skillfolio/internal/domain/model"

type gate struct {
	open  bool
	items []string
}

// Gate holds the evidence flag of every category. Not safe for concurrent use.
type Gate struct {
	cats map[model.Category]*gate
}

// New constructs a Gate with every category closed.
func New() *Gate {
	return &Gate{cats: make(map[model.Category]*gate)}
}

func (g *Gate) gate(c model.Category) *gate {
	v, ok := g.cats[c]
	if !ok {
		v = &gate{}
		g.cats[c] = v
	}
	return v
}

// Submit records an item and opens the gate. It reports whether the gate was closed before.
func (g *Gate) Submit(c model.Category, evidenceID string) (opened bool) {
	v := g.gate(c)
	opened = !v.open
	v.open = true
	if evidenceID != "" {
		v.items = append(v.items, evidenceID)
	}
	return opened
}

// Clear closes the gate and forgets its items.
func (g *Gate) Clear(c model.Category) {
	v := g.gate(c)
	v.open = false
	v.items = nil
}

// Open reports the flag for c.
func (g *Gate) Open(c model.Category) bool { return g.gate(c).open }

// Count returns how many items were submitted since the last clear.
func (g *Gate) Count(c model.Category) int { return len(g.gate(c).items) }

// Items returns the submitted item ids in order.
func (g *Gate) Items(c model.Category) []string {
	items := g.gate(c).items
	out := make([]string, len(items))
	copy(out, items)
	return out
}
