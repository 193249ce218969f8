// Package model contains domain models passed between layers.
package model

import "time"

// EvidenceEvent reports that a supporting item was uploaded for a session.
// Fields mirror the OpenAPI schema for POST /sessions/{sid}/evidence.
type EvidenceEvent struct {
	SessionID  string    // owning session
	EvidenceID string    // unique id for idempotency
	Category   Category  // category whose gate the item opens
	SkillID    string    // optional skill context, informational only
	Epoch      uint64    // evidence epoch of Category at submission
	TS         time.Time // submission timestamp
}
