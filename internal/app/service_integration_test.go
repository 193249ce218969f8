package service_test

import (
	"context"
	"errors"
	"testing"

	service "github.com/okian/skillfolio/internal/app"
	"github.com/okian/skillfolio/internal/domain/model"
	"github.com/okian/skillfolio/internal/domain/session"
	. "github.com/smartystreets/goconvey/convey"
)

func TestServiceIntegration(t *testing.T) {
	Convey("Given a running service with two selected hard skills", t, func() {
		svc := service.New(
			service.WithWorkerCount(2),
			service.WithQueueSize(100),
			service.WithDedupeSize(50),
			service.WithSeeds(model.Hard, []string{"JavaScript", "Python", "React"}),
		)
		ctx := context.Background()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		snap, err := svc.StartSession(ctx)
		So(err, ShouldBeNil)
		So(svc.Do(ctx, snap.ID, func(s *session.Session) error {
			if _, err := s.AddToSelected("1", 2); err != nil {
				return err
			}
			_, err := s.AddToSelected("2", 4)
			return err
		}), ShouldBeNil)

		aiRow := func() []model.Score {
			var out []model.Score
			_ = svc.Do(ctx, snap.ID, func(s *session.Session) error {
				row, err := s.Row(model.AI, model.Hard)
				for _, c := range row {
					out = append(out, c.Score)
				}
				return err
			})
			return out
		}

		Convey("Then the AI row reads unset before any evidence", func() {
			So(aiRow(), ShouldResemble, []model.Score{model.Unset, model.Unset})
		})

		Convey("When evidence is submitted through the pipeline", func() {
			_, err := svc.SubmitEvidence(ctx, service.EvidenceRequest{SessionID: snap.ID, EvidenceID: "upload-1", Category: "hard", SkillID: "1"})
			So(err, ShouldBeNil)

			Convey("Then the AI row shows two values in range", func() {
				So(waitFor(func() bool {
					row := aiRow()
					return len(row) == 2 && row[0].Set && row[1].Set
				}), ShouldBeTrue)
				for _, v := range aiRow() {
					So(v.Value, ShouldBeBetweenOrEqual, 1, 5)
				}
			})
		})

		gateOpen := func() bool {
			var open bool
			_ = svc.Do(ctx, snap.ID, func(s *session.Session) error {
				v, err := s.Evidence(model.Hard)
				open = v.Open
				return err
			})
			return open
		}
		submit := func() service.EvidenceReceipt {
			r, err := svc.SubmitEvidence(ctx, service.EvidenceRequest{SessionID: snap.ID, EvidenceID: "upload-1", Category: "hard"})
			So(err, ShouldBeNil)
			return r
		}

		Convey("When an evidence id is resubmitted after the session is reset", func() {
			So(submit().Queued, ShouldBeTrue)
			So(waitFor(gateOpen), ShouldBeTrue)
			So(svc.Do(ctx, snap.ID, func(s *session.Session) error {
				s.Reset()
				return nil
			}), ShouldBeNil)
			So(gateOpen(), ShouldBeFalse)
			again := submit()

			Convey("Then it is queued again and reopens the gate", func() {
				So(again.Duplicate, ShouldBeFalse)
				So(again.Queued, ShouldBeTrue)
				So(waitFor(gateOpen), ShouldBeTrue)
			})
		})

		Convey("When an evidence id is resubmitted after the gate is cleared", func() {
			So(submit().Queued, ShouldBeTrue)
			So(waitFor(gateOpen), ShouldBeTrue)
			So(svc.Do(ctx, snap.ID, func(s *session.Session) error {
				return s.ClearEvidence(model.Hard)
			}), ShouldBeNil)
			before := aiGenerations(svc, snap.ID)
			again := submit()

			Convey("Then the AI row is regenerated again", func() {
				So(again.Duplicate, ShouldBeFalse)
				So(waitFor(gateOpen), ShouldBeTrue)
				So(aiGenerations(svc, snap.ID), ShouldEqual, before+2)
			})

			Convey("And a second resubmission in the same epoch is a duplicate", func() {
				So(submit().Duplicate, ShouldBeTrue)
			})
		})

		Convey("When an event from before a reset reaches the session", func() {
			So(svc.Do(ctx, snap.ID, func(s *session.Session) error {
				s.Reset()
				return nil
			}), ShouldBeNil)
			err := svc.ApplyEvidence(ctx, model.EvidenceEvent{SessionID: snap.ID, EvidenceID: "old", Category: model.Hard, Epoch: 0})

			Convey("Then it is dropped without opening the gate", func() {
				So(err, ShouldBeNil)
				So(gateOpen(), ShouldBeFalse)
			})
		})

		Convey("When evidence is submitted synchronously", func() {
			r, err := svc.SubmitEvidence(ctx, service.EvidenceRequest{SessionID: snap.ID, EvidenceID: "now", Category: "hard", Sync: true})

			Convey("Then the gate is open on return", func() {
				So(err, ShouldBeNil)
				So(r.Applied, ShouldBeTrue)
				So(r.Queued, ShouldBeFalse)
				So(gateOpen(), ShouldBeTrue)
				So(aiRow()[0].Set, ShouldBeTrue)
			})
		})

		Convey("When the session ends before its evidence is applied", func() {
			So(svc.EndSession(ctx, snap.ID), ShouldBeNil)
			err := svc.ApplyEvidence(ctx, model.EvidenceEvent{SessionID: snap.ID, EvidenceID: "late", Category: model.Hard})

			Convey("Then applying reports the missing session", func() {
				So(errors.Is(err, service.ErrSessionNotFound), ShouldBeTrue)
			})
		})
	})

	Convey("Given a stopped service", t, func() {
		svc := service.New(service.WithQueueSize(1))
		ctx := context.Background()
		So(svc.Start(ctx), ShouldBeNil)
		snap, _ := svc.StartSession(ctx)
		svc.Stop()

		Convey("Then submissions are refused", func() {
			_, err := svc.SubmitEvidence(ctx, service.EvidenceRequest{SessionID: snap.ID, Category: "hard"})
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
		})
	})
}

func aiGenerations(svc *service.Service, sid string) uint64 {
	var n uint64
	_ = svc.Do(context.Background(), sid, func(s *session.Session) error {
		n = s.Generations(model.AI, model.Hard)
		return nil
	})
	return n
}
