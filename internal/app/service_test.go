package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	service "github.com/okian/skillfolio/internal/app"
	"github.com/okian/skillfolio/internal/config"
	"github.com/okian/skillfolio/internal/domain/ids"
	"github.com/okian/skillfolio/internal/domain/model"
	"github.com/okian/skillfolio/internal/domain/pool"
	"github.com/okian/skillfolio/internal/domain/session"
	"github.com/okian/skillfolio/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it reports defaults before starting", func() {
			stats := svc.GetStats()
			So(stats["started"], ShouldEqual, false)
			So(stats["workerCount"], ShouldEqual, 1)
			So(stats["sessions"], ShouldEqual, 0)
		})
	})

	Convey("Given a service built from config", t, func() {
		cfg := config.New()
		cfg.WorkerCount = 3
		cfg.MaxSessions = 5
		svc := service.New(service.OptionsFromConfig(cfg)...)

		Convey("Then the options are applied", func() {
			stats := svc.GetStats()
			So(stats["workerCount"], ShouldEqual, 3)
			So(stats["maxSessions"], ShouldEqual, 5)
			So(stats["queueSize"], ShouldEqual, cfg.EvidenceQueueSize)
		})
	})
}

func TestService_Lifecycle(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := service.New(service.WithWorkerCount(2))
		defer svc.Stop()
		ctx := context.Background()

		Convey("When starting twice", func() {
			So(svc.Start(ctx), ShouldBeNil)
			So(svc.Start(ctx), ShouldBeNil)

			Convey("Then it is marked as started", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
				So(stats["queueLength"], ShouldEqual, 0)
			})

			Convey("And stopping marks it stopped", func() {
				svc.Stop()
				svc.Stop()
				So(svc.GetStats()["started"], ShouldEqual, false)
			})
		})
	})
}

func TestService_Sessions(t *testing.T) {
	Convey("Given a service with seeds and a session limit", t, func() {
		svc := service.New(
			service.WithSeeds(model.Hard, []string{"Go", "Rust"}),
			service.WithSeeds(model.Soft, []string{"Teamwork"}),
			service.WithMaxSessions(2),
			service.WithSessionIDSource(ids.Sequence("s-")),
			service.WithRandomSeed(9),
		)
		ctx := context.Background()

		Convey("When starting a session", func() {
			snap, err := svc.StartSession(ctx)
			So(err, ShouldBeNil)

			Convey("Then it is seeded and listed", func() {
				So(snap.ID, ShouldEqual, "s-1")
				So(snap.Category, ShouldEqual, model.Hard)
				So(snap.Categories[model.Hard].Available, ShouldHaveLength, 2)
				So(snap.Categories[model.Soft].Available, ShouldHaveLength, 1)
				So(svc.Sessions(), ShouldResemble, []string{"s-1"})
			})

			Convey("And commands run through Do", func() {
				var sel model.Skill
				err := svc.Do(ctx, snap.ID, func(s *session.Session) error {
					var err error
					sel, err = s.AddToSelected("1", 3)
					return err
				})
				So(err, ShouldBeNil)
				So(sel.Level, ShouldEqual, 3)

				Convey("Then stats count the selection", func() {
					So(svc.GetStats()["selected_hard"], ShouldEqual, 1)
				})
			})

			Convey("And domain errors pass through Do", func() {
				err := svc.Do(ctx, snap.ID, func(s *session.Session) error {
					_, err := s.RemoveFromSelected("1")
					return err
				})
				So(errors.Is(err, pool.ErrNotFound), ShouldBeTrue)
			})

			Convey("And the limit is enforced", func() {
				_, err := svc.StartSession(ctx)
				So(err, ShouldBeNil)
				_, err = svc.StartSession(ctx)
				So(errors.Is(err, service.ErrSessionLimit), ShouldBeTrue)
			})

			Convey("And ending it forgets it", func() {
				So(svc.EndSession(ctx, snap.ID), ShouldBeNil)
				err := svc.Do(ctx, snap.ID, func(*session.Session) error { return nil })
				So(errors.Is(err, service.ErrSessionNotFound), ShouldBeTrue)
				So(errors.Is(svc.EndSession(ctx, snap.ID), service.ErrSessionNotFound), ShouldBeTrue)
				So(svc.Sessions(), ShouldBeEmpty)
			})

			Convey("And a cancelled context stops Do before fn runs", func() {
				cctx, cancel := context.WithCancel(ctx)
				cancel()
				ran := false
				err := svc.Do(cctx, snap.ID, func(*session.Session) error { ran = true; return nil })
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
				So(ran, ShouldBeFalse)
			})
		})

		Convey("When two sessions share a random seed base", func() {
			a, _ := svc.StartSession(ctx)
			b, _ := svc.StartSession(ctx)

			Convey("Then their ids differ", func() {
				So(a.ID, ShouldNotEqual, b.ID)
			})
		})
	})
}

func TestService_SubmitEvidence(t *testing.T) {
	Convey("Given a started service with one session", t, func() {
		svc := service.New(service.WithSeeds(model.Hard, []string{"Go", "Rust"}))
		ctx := context.Background()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()
		snap, err := svc.StartSession(ctx)
		So(err, ShouldBeNil)

		Convey("When submitting to an unknown category", func() {
			_, err := svc.SubmitEvidence(ctx, service.EvidenceRequest{SessionID: snap.ID, Category: "medium"})
			So(errors.Is(err, model.ErrUnknownCategory), ShouldBeTrue)
		})

		Convey("When submitting to an unknown session", func() {
			_, err := svc.SubmitEvidence(ctx, service.EvidenceRequest{SessionID: "nope", Category: "hard"})
			So(errors.Is(err, service.ErrSessionNotFound), ShouldBeTrue)
		})

		Convey("When submitting the same evidence id twice", func() {
			first, err := svc.SubmitEvidence(ctx, service.EvidenceRequest{SessionID: snap.ID, EvidenceID: "ev-1", Category: "Hard"})
			So(err, ShouldBeNil)
			second, err := svc.SubmitEvidence(ctx, service.EvidenceRequest{SessionID: snap.ID, EvidenceID: "ev-1", Category: "Hard"})
			So(err, ShouldBeNil)

			Convey("Then only the first is queued and applied", func() {
				So(first.Queued, ShouldBeTrue)
				So(second.Duplicate, ShouldBeTrue)
				So(second.Queued, ShouldBeFalse)
				So(waitFor(func() bool { return evidenceCount(svc, snap.ID, model.Hard) == 1 }), ShouldBeTrue)
				time.Sleep(20 * time.Millisecond)
				So(evidenceCount(svc, snap.ID, model.Hard), ShouldEqual, 1)
			})
		})

		Convey("When submitting without an evidence id", func() {
			r, err := svc.SubmitEvidence(ctx, service.EvidenceRequest{SessionID: snap.ID, Category: "soft"})

			Convey("Then an id is generated", func() {
				So(err, ShouldBeNil)
				So(r.EvidenceID, ShouldNotBeBlank)
				So(r.Category, ShouldEqual, model.Soft)
			})
		})
	})

	Convey("Given a service that was never started", t, func() {
		svc := service.New()
		snap, _ := svc.StartSession(context.Background())
		_, err := svc.SubmitEvidence(context.Background(), service.EvidenceRequest{SessionID: snap.ID, Category: "hard"})
		So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
	})
}

func evidenceCount(svc *service.Service, id string, c model.Category) int {
	n := -1
	_ = svc.Do(context.Background(), id, func(s *session.Session) error {
		ev, err := s.Evidence(c)
		n = ev.Count
		return err
	})
	return n
}

func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}
