// Package dedupe remembers evidence ids so a resubmitted item is applied once.
package dedupe

import (
	"container/list"
	"context"
	"strconv"
	"sync"

	"github.com/okian/skillfolio/internal/domain/model"
)

// Deduper records seen evidence ids.
type Deduper interface {
	// SeenAndRecord reports whether id was seen and records it if not.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord forgets id so a submission that could not be queued may be retried.
	Unrecord(ctx context.Context, id string)

	Size() int64
}

// inMemoryDeduper evicts the oldest id once maxSize is reached.
// maxSize <= 0 keeps every id.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]*list.Element
	order   *list.List
	maxSize int
}

// NewInMemoryDeduper creates a new in-memory deduper with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		maxSize: defaultMaxSize,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[string]*list.Element)
	d.order = list.New()
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[id]; ok {
		return true
	}
	if d.maxSize > 0 && len(d.seen) >= d.maxSize {
		if oldest := d.order.Front(); oldest != nil {
			delete(d.seen, oldest.Value.(string))
			d.order.Remove(oldest)
		}
	}
	d.seen[id] = d.order.PushBack(id)
	return false
}

func (d *inMemoryDeduper) Unrecord(_ context.Context, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if e, ok := d.seen[id]; ok {
		d.order.Remove(e)
		delete(d.seen, id)
	}
}

func (d *inMemoryDeduper) Size() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return int64(len(d.seen))
}

// Key scopes an evidence id to a session category and its evidence epoch.
func Key(sessionID string, c model.Category, epoch uint64, evidenceID string) string {
	return sessionID + "/" + string(c) + "/" + strconv.FormatUint(epoch, 10) + "/" + evidenceID
}
