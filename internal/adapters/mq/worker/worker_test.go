package worker_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	queue "github.com/okian/skillfolio/internal/adapters/mq/queue"
	worker "github.com/okian/skillfolio/internal/adapters/mq/worker"
	model "github.com/okian/skillfolio/internal/domain/model"
	logging "github.com/okian/skillfolio/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

type mockQueue struct {
	eventChan chan queue.Event
	once      sync.Once
}

func newMockQueue() *mockQueue {
	return &mockQueue{eventChan: make(chan queue.Event, 200)}
}

func (mq *mockQueue) Dequeue(ctx context.Context) <-chan queue.Event {
	return mq.eventChan
}

func (mq *mockQueue) Close() error {
	mq.once.Do(func() { close(mq.eventChan) })
	return nil
}

func (mq *mockQueue) add(e queue.Event) { //nolint:gocritic // hugeParam: passed by value for channel semantics
	mq.eventChan <- e
}

type mockApplier struct {
	mu      sync.Mutex
	applied map[string]int
	fail    map[string]error
}

func newMockApplier() *mockApplier {
	return &mockApplier{applied: map[string]int{}, fail: map[string]error{}}
}

func (m *mockApplier) ApplyEvidence(_ context.Context, e queue.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.fail[e.SessionID]; ok {
		return err
	}
	m.applied[e.EvidenceID]++
	return nil
}

func (m *mockApplier) setError(sessionID string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail[sessionID] = err
}

func (m *mockApplier) count(evidenceID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.applied[evidenceID]
}

func (m *mockApplier) total() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.applied {
		n += c
	}
	return n
}

func event(sessionID, evidenceID string) queue.Event {
	return model.EvidenceEvent{SessionID: sessionID, EvidenceID: evidenceID, Category: model.Soft, TS: time.Now()}
}

// eventually polls cond until it holds or a second passes.
func eventually(cond func() bool) bool {
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

func TestInMemoryWorker(t *testing.T) {
	convey.Convey("Given a running InMemoryWorker", t, func() {
		_ = logging.Init()

		q := newMockQueue()
		applier := newMockApplier()
		w := worker.NewInMemoryWorker(q, applier, worker.WithName("test-worker"))
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go w.Run(ctx)

		convey.Convey("When an event arrives", func() {
			q.add(event("s-1", "ev-1"))

			convey.Convey("Then it is applied once", func() {
				convey.So(eventually(func() bool { return applier.count("ev-1") == 1 }), convey.ShouldBeTrue)
				convey.So(eventually(func() bool { return w.Processed() == 1 }), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When applying fails", func() {
			applier.setError("s-gone", errors.New("session not found"))
			q.add(event("s-gone", "ev-2"))
			q.add(event("s-1", "ev-3"))

			convey.Convey("Then the failure is counted and the worker keeps going", func() {
				convey.So(eventually(func() bool { return applier.count("ev-3") == 1 }), convey.ShouldBeTrue)
				convey.So(w.Failed(), convey.ShouldEqual, 1)
				convey.So(applier.count("ev-2"), convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When shutting down", func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Second)
			defer shutdownCancel()

			convey.Convey("Then it stops gracefully and a second call is harmless", func() {
				convey.So(w.Shutdown(shutdownCtx), convey.ShouldBeNil)
				convey.So(w.Shutdown(shutdownCtx), convey.ShouldBeNil)
			})
		})
	})

	convey.Convey("Given a worker that was never started", t, func() {
		w := worker.NewInMemoryWorker(newMockQueue(), newMockApplier(), worker.WithLogger(logging.Nop()))
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		convey.Convey("Then shutdown times out with the context error", func() {
			err := w.Shutdown(ctx)
			convey.So(errors.Is(err, context.DeadlineExceeded), convey.ShouldBeTrue)
		})
	})
}

func TestWorkerPool(t *testing.T) {
	convey.Convey("Given a worker pool", t, func() {
		_ = logging.Init()

		q := newMockQueue()
		applier := newMockApplier()

		convey.Convey("When the count is below one", func() {
			p := worker.NewPool(0, q, applier)
			convey.So(p.Size(), convey.ShouldEqual, 1)
		})

		convey.Convey("When many events are queued concurrently", func() {
			p := worker.NewPool(4, q, applier)
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			p.Start(ctx)

			var wg sync.WaitGroup
			for i := 0; i < 5; i++ {
				wg.Add(1)
				go func(producer int) {
					defer wg.Done()
					for j := 0; j < 20; j++ {
						q.add(event("s-1", fmt.Sprintf("ev-%d-%d", producer, j)))
					}
				}(i)
			}
			wg.Wait()

			convey.Convey("Then every event is applied exactly once", func() {
				convey.So(eventually(func() bool { return applier.total() == 100 }), convey.ShouldBeTrue)
				convey.So(p.Processed(), convey.ShouldEqual, 100)
				convey.So(p.Failed(), convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When shutting down with buffered events", func() {
			p := worker.NewPool(2, q, applier)
			for i := 0; i < 10; i++ {
				q.add(event("s-1", fmt.Sprintf("ev-%d", i)))
			}
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			p.Start(ctx)

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Second)
			defer shutdownCancel()
			err := p.Shutdown(shutdownCtx)

			convey.Convey("Then the queue is drained before workers exit", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(applier.total(), convey.ShouldEqual, 10)
			})
		})

		convey.Convey("When stopping without draining", func() {
			p := worker.NewPool(2, q, applier)
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			p.Start(ctx)

			stopCtx, stopCancel := context.WithTimeout(context.Background(), time.Second)
			defer stopCancel()

			convey.Convey("Then all workers stop", func() {
				convey.So(p.Stop(stopCtx), convey.ShouldBeNil)
			})
		})
	})
}
