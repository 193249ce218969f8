// Package service hosts user sessions and the evidence ingest pipeline
// behind the HTTP API.
//
// Each session is driven by one caller at a time through Do; evidence is
// deduplicated, queued and applied by the worker pool.
package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	eventqueue "github.com/okian/skillfolio/internal/adapters/mq/queue"
	workerpool "github.com/okian/skillfolio/internal/adapters/mq/worker"
	"github.com/okian/skillfolio/internal/domain/dedupe"
	"github.com/okian/skillfolio/internal/domain/ids"
	"github.com/okian/skillfolio/internal/domain/model"
	"github.com/okian/skillfolio/internal/domain/scoring"
	"github.com/okian/skillfolio/internal/domain/session"
	"github.com/okian/skillfolio/internal/domain/types"
	"github.com/okian/skillfolio/pkg/logger"
	"github.com/okian/skillfolio/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultWorkerCount = 1
	defaultQueueSize   = 10_000
	defaultDedupeSize  = 100_000
	stopTimeout        = 5 * time.Second
)

type entry struct {
	mu      sync.Mutex
	sess    *session.Session
	created time.Time
	ended   bool
}

// EvidenceRequest is one evidence submission.
type EvidenceRequest = types.EvidenceRequest

// EvidenceReceipt reports what happened to a submission.
type EvidenceReceipt = types.EvidenceReceipt

// Service implements the API dependencies for the skill engine.
type Service struct {
	mu       sync.RWMutex
	sessions map[string]*entry

	deduper    dedupe.Deduper
	eventQueue *eventqueue.InMemoryQueue
	workerPool *workerpool.Pool

	workerCount int
	queueSize   int
	dedupeSize  int
	maxSessions int
	randomSeed  uint64
	seeds       map[model.Category][]string
	sessionIDs  ids.Source
	spawned     atomic.Uint64

	started bool
	logger  logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		sessions:    make(map[string]*entry),
		workerCount: defaultWorkerCount,
		queueSize:   defaultQueueSize,
		dedupeSize:  defaultDedupeSize,
		seeds:       make(map[model.Category][]string),
		sessionIDs:  ids.UUID(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start creates the evidence pipeline and starts the workers.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.eventQueue = eventqueue.NewInMemoryQueue(eventqueue.WithCapacity(s.queueSize))
	s.workerPool = workerpool.NewPool(s.workerCount, s.eventQueue, s, workerpool.WithLogger(s.logger.Named("worker")))
	s.workerPool.Start(context.WithoutCancel(ctx))

	s.started = true
	s.logger.Info(ctx, "skill service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.Int("maxSessions", s.maxSessions),
	)
	return nil
}

// Stop drains queued evidence and stops the workers.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	pool := s.workerPool
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()
	if err := pool.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "worker pool did not drain", logger.Error(err))
	}
	s.logger.Info(ctx, "skill service stopped")
}

// StartSession creates a seeded session and returns its snapshot.
func (s *Service) StartSession(ctx context.Context) (session.Snapshot, error) {
	s.mu.Lock()
	if s.maxSessions > 0 && len(s.sessions) >= s.maxSessions {
		s.mu.Unlock()
		return session.Snapshot{}, fmt.Errorf("%w: %d live", ErrSessionLimit, s.maxSessions)
	}
	id := s.sessionIDs.NewID()
	for s.sessions[id] != nil {
		id = s.sessionIDs.NewID()
	}
	sess := session.New(
		session.WithID(id),
		session.WithGenerator(s.generator()),
		session.WithSeeds(model.Hard, s.seeds[model.Hard]),
		session.WithSeeds(model.Soft, s.seeds[model.Soft]),
		session.WithLogger(s.log().Named("session")),
	)
	s.sessions[id] = &entry{sess: sess, created: time.Now()}
	s.mu.Unlock()

	metrics.RecordSessionStarted()
	s.log().Debug(ctx, "session started", logger.String("session_id", id))
	return sess.Snapshot(), nil
}

func (s *Service) generator() *scoring.Generator {
	n := s.spawned.Add(1)
	if s.randomSeed == 0 {
		return scoring.NewGenerator()
	}
	return scoring.NewGenerator(scoring.WithSeed(s.randomSeed + n - 1))
}

func (s *Service) log() logger.Logger {
	if s.logger == nil {
		return logger.Get().Named("service")
	}
	return s.logger
}

// EndSession tears a session down and forgets it.
func (s *Service) EndSession(ctx context.Context, id string) error {
	s.mu.Lock()
	e, ok := s.sessions[id]
	if ok {
		delete(s.sessions, id)
	}
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	e.mu.Lock()
	e.ended = true
	e.sess.Reset()
	e.mu.Unlock()

	metrics.RecordSessionEnded()
	s.log().Debug(ctx, "session ended", logger.String("session_id", id))
	return nil
}

// Do runs fn with exclusive access to session id.
func (s *Service) Do(ctx context.Context, id string, fn func(*session.Session) error) error {
	s.mu.RLock()
	e, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ended {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(e.sess)
}

// Sessions lists live session ids in order.
func (s *Service) Sessions() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// SubmitEvidence deduplicates an evidence submission and queues it, or applies
// it in place when req.Sync is set. Ids are unique per category evidence epoch,
// so an id may be submitted again after the gate is cleared or the session reset.
func (s *Service) SubmitEvidence(ctx context.Context, req EvidenceRequest) (EvidenceReceipt, error) {
	cat, err := model.ParseCategory(req.Category)
	if err != nil {
		return EvidenceReceipt{}, err
	}
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()
	if !started {
		return EvidenceReceipt{}, ErrNotStarted
	}
	var epoch uint64
	if err := s.Do(ctx, req.SessionID, func(sess *session.Session) error {
		epoch = sess.EvidenceEpoch(cat)
		return nil
	}); err != nil {
		return EvidenceReceipt{}, err
	}

	evidenceID := req.EvidenceID
	if evidenceID == "" {
		evidenceID = ids.UUID().NewID()
	}
	receipt := EvidenceReceipt{EvidenceID: evidenceID, Category: cat}

	key := dedupe.Key(req.SessionID, cat, epoch, evidenceID)
	if s.deduper.SeenAndRecord(ctx, key) {
		metrics.RecordEvidenceDuplicate()
		s.log().Debug(ctx, "duplicate evidence skipped",
			logger.String("session_id", req.SessionID),
			logger.String("evidence_id", evidenceID),
			logger.Uint64("epoch", epoch),
		)
		receipt.Duplicate = true
		return receipt, nil
	}

	ev := model.EvidenceEvent{
		SessionID:  req.SessionID,
		EvidenceID: evidenceID,
		Category:   cat,
		SkillID:    req.SkillID,
		Epoch:      epoch,
		TS:         time.Now(),
	}
	if req.Sync {
		if err := s.ApplyEvidence(ctx, ev); err != nil {
			s.deduper.Unrecord(ctx, key)
			return EvidenceReceipt{}, err
		}
		metrics.RecordEvidenceSubmitted(string(cat))
		receipt.Applied = true
		return receipt, nil
	}
	if err := s.eventQueue.Enqueue(ctx, ev); err != nil {
		s.deduper.Unrecord(ctx, key)
		if errors.Is(err, eventqueue.ErrFull) || errors.Is(err, eventqueue.ErrClosed) {
			return EvidenceReceipt{}, fmt.Errorf("%w: %w", ErrBackpressure, err)
		}
		return EvidenceReceipt{}, err
	}
	metrics.RecordEvidenceSubmitted(string(cat))
	receipt.Queued = true
	return receipt, nil
}

// ApplyEvidence applies an event to its session. It is called by the workers.
// Events from an earlier evidence epoch are dropped.
func (s *Service) ApplyEvidence(ctx context.Context, e model.EvidenceEvent) error { //nolint:gocritic // hugeParam: matches worker.Applier
	return s.Do(ctx, e.SessionID, func(sess *session.Session) error {
		if cur := sess.EvidenceEpoch(e.Category); cur != e.Epoch {
			s.log().Debug(ctx, "stale evidence dropped",
				logger.String("session_id", e.SessionID),
				logger.String("evidence_id", e.EvidenceID),
				logger.Uint64("epoch", e.Epoch),
				logger.Uint64("current_epoch", cur),
			)
			return nil
		}
		_, err := sess.SubmitEvidence(e.Category, e.EvidenceID)
		return err
	})
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	stats := map[string]any{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
		"maxSessions": s.maxSessions,
		"sessions":    len(s.sessions),
	}
	entries := make([]*entry, 0, len(s.sessions))
	for _, e := range s.sessions {
		entries = append(entries, e)
	}
	if s.started {
		queueLen := s.eventQueue.Len(context.Background())
		stats["queueLength"] = queueLen
		stats["dedupeEntries"] = s.deduper.Size()
		stats["evidenceApplied"] = s.workerPool.Processed()
		stats["evidenceFailed"] = s.workerPool.Failed()
		metrics.UpdateQueueSize(queueLen)
	}
	s.mu.RUnlock()

	selected := make(map[model.Category]int, 2)
	for _, e := range entries {
		e.mu.Lock()
		if !e.ended {
			for _, c := range model.Categories() {
				_, n := e.sess.Counts(c)
				selected[c] += n
			}
		}
		e.mu.Unlock()
	}
	for _, c := range model.Categories() {
		metrics.UpdateSelectedSkills(string(c), selected[c])
		stats["selected_"+string(c)] = selected[c]
	}
	return stats
}
