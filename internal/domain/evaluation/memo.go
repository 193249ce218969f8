package evaluation

// Cell is a memoised score and the generation that produced it.
type Cell struct {
	Value      int
	Generation uint64
}

// Memo generates a value on first miss and keeps it until invalidated.
type Memo interface {
	// GetOrGenerate returns the cached cell for id, generating one on a miss.
	GetOrGenerate(id string) Cell
	// Peek returns the cached cell without generating.
	Peek(id string) (Cell, bool)
	// InvalidateAll drops every cached cell.
	InvalidateAll()
	// Forget drops the cell for id.
	Forget(id string)
	// Generations counts values produced so far.
	Generations() uint64
	Len() int
}

type memo struct {
	cells       map[string]Cell
	generate    func() int
	generations uint64
}

// NewMemo returns a Memo backed by generate.
func NewMemo(generate func() int) Memo {
	return &memo{cells: make(map[string]Cell), generate: generate}
}

func (m *memo) GetOrGenerate(id string) Cell {
	if c, ok := m.cells[id]; ok {
		return c
	}
	m.generations++
	c := Cell{Value: m.generate(), Generation: m.generations}
	m.cells[id] = c
	return c
}

func (m *memo) Peek(id string) (Cell, bool) {
	c, ok := m.cells[id]
	return c, ok
}

func (m *memo) InvalidateAll() {
	clear(m.cells)
}

func (m *memo) Forget(id string) {
	delete(m.cells, id)
}

func (m *memo) Generations() uint64 { return m.generations }

func (m *memo) Len() int { return len(m.cells) }
