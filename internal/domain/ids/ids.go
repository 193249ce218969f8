// Package ids provides identifier sources for new skills and sessions.
package ids

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// Source hands out unique identifiers.
type Source interface {
	NewID() string
}

// SourceFunc adapts a function to Source.
type SourceFunc func() string

// NewID implements Source.
func (f SourceFunc) NewID() string { return f() }

// UUID returns a random (v4) uuid source.
func UUID() Source {
	return SourceFunc(func() string { return uuid.NewString() })
}

// Sequence returns a source yielding prefix+"1", prefix+"2", ...
func Sequence(prefix string) Source {
	var n atomic.Int64
	return SourceFunc(func() string {
		return prefix + strconv.FormatInt(n.Add(1), 10)
	})
}
