// Package types holds request, receipt and error shapes shared by the
// service and its HTTP adapter.
package types

import (
	"errors"

	"github.com/okian/skillfolio/internal/domain/model"
)

// Sentinel kinds for session registry and evidence intake errors.
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionLimit    = errors.New("session limit reached")
	ErrBackpressure    = errors.New("evidence queue is full")
	ErrNotStarted      = errors.New("service not started")
)

// EvidenceRequest is one evidence submission.
type EvidenceRequest struct {
	SessionID  string `json:"-"`
	EvidenceID string `json:"evidence_id"`
	Category   string `json:"category"`
	SkillID    string `json:"skill_id,omitempty"`
	Sync       bool   `json:"sync,omitempty"`
}

// EvidenceReceipt reports what happened to a submission.
type EvidenceReceipt struct {
	EvidenceID string         `json:"evidence_id"`
	Category   model.Category `json:"category"`
	Duplicate  bool           `json:"duplicate"`
	Queued     bool           `json:"queued"`
	Applied    bool           `json:"applied"`
}
