package pool_test

import (
	"errors"
	"testing"

	"github.com/okian/skillfolio/internal/domain/ids"
	"github.com/okian/skillfolio/internal/domain/model"
	"github.com/okian/skillfolio/internal/domain/pool"
	. "github.com/smartystreets/goconvey/convey"
)

func names(skills []model.Skill) []string {
	out := make([]string, len(skills))
	for i, s := range skills {
		out[i] = s.Name
	}
	return out
}

// partitioned checks that no id sits in both pools.
func partitioned(s *pool.Store, c model.Category) bool {
	seen := map[string]bool{}
	for _, sk := range s.Available(c, "") {
		seen[sk.ID] = true
	}
	for _, sk := range s.Selected(c, "") {
		if seen[sk.ID] {
			return false
		}
	}
	return true
}

func TestStore(t *testing.T) {
	Convey("Given a seeded store", t, func() {
		s := pool.New(pool.WithIDSource(ids.Sequence("new-")))
		s.Seed(model.Hard, []string{"JavaScript", "Python", "Git"})
		s.Seed(model.Soft, []string{"Teamwork"})

		Convey("Then seeded ids restart at 1 per category", func() {
			hard := s.Available(model.Hard, "")
			soft := s.Available(model.Soft, "")
			So(hard[0].ID, ShouldEqual, "1")
			So(soft[0].ID, ShouldEqual, "1")
			So(names(hard), ShouldResemble, []string{"JavaScript", "Python", "Git"})
		})

		Convey("When creating a skill", func() {
			sk, err := s.Create(model.Hard, "  Rust ")

			Convey("Then it lands in the available pool with a fresh id", func() {
				So(err, ShouldBeNil)
				So(sk.ID, ShouldEqual, "new-1")
				So(sk.Name, ShouldEqual, "Rust")
				So(s.In(model.Hard, pool.Available, sk.ID), ShouldBeTrue)
				a, sel := s.Counts(model.Hard)
				So(a, ShouldEqual, 4)
				So(sel, ShouldEqual, 0)
			})
		})

		Convey("When creating a name that differs only by case", func() {
			_, err := s.Create(model.Hard, "python")

			Convey("Then it fails with DuplicateNameError and the pool is unchanged", func() {
				So(errors.Is(err, pool.ErrDuplicateName), ShouldBeTrue)
				var dup *pool.DuplicateNameError
				So(errors.As(err, &dup), ShouldBeTrue)
				So(dup.Existing, ShouldEqual, "Python")
				So(names(s.Available(model.Hard, "")), ShouldResemble, []string{"JavaScript", "Python", "Git"})
			})
		})

		Convey("When the same name exists only in the other category", func() {
			_, err := s.Create(model.Soft, "Python")

			Convey("Then creation succeeds", func() {
				So(err, ShouldBeNil)
			})
		})

		Convey("When the colliding name is selected rather than available", func() {
			_, err := s.Select(model.Hard, "2", 3)
			So(err, ShouldBeNil)
			_, err = s.Create(model.Hard, "PYTHON")

			Convey("Then creation succeeds", func() {
				So(err, ShouldBeNil)
			})
		})

		Convey("When creating a blank name", func() {
			_, err := s.Create(model.Hard, "   ")

			Convey("Then it fails with ErrEmptyName", func() {
				So(errors.Is(err, pool.ErrEmptyName), ShouldBeTrue)
			})
		})

		Convey("When selecting and deselecting", func() {
			sel, err := s.Select(model.Hard, "2", 4)
			So(err, ShouldBeNil)

			Convey("Then the skill carries its level in the selected pool", func() {
				So(sel.Level, ShouldEqual, 4)
				So(s.In(model.Hard, pool.Available, "2"), ShouldBeFalse)
				So(s.SelectedIDs(model.Hard), ShouldResemble, []string{"2"})
				So(partitioned(s, model.Hard), ShouldBeTrue)
			})

			Convey("And deselecting returns it without a level", func() {
				back, err := s.Deselect(model.Hard, "2")
				So(err, ShouldBeNil)
				So(back.Level, ShouldEqual, 0)
				So(names(s.Available(model.Hard, "")), ShouldResemble, []string{"JavaScript", "Git", "Python"})
				So(partitioned(s, model.Hard), ShouldBeTrue)

				Convey("And reselecting with the previous level restores it", func() {
					again, err := s.Select(model.Hard, "2", 4)
					So(err, ShouldBeNil)
					So(again, ShouldResemble, sel)
				})
			})
		})

		Convey("When moving an id from the wrong pool", func() {
			_, errSel := s.Select(model.Hard, "99", 1)
			_, errDesel := s.Deselect(model.Hard, "1")

			Convey("Then NotFoundError names the pool", func() {
				So(errors.Is(errSel, pool.ErrNotFound), ShouldBeTrue)
				var nf *pool.NotFoundError
				So(errors.As(errDesel, &nf), ShouldBeTrue)
				So(nf.Pool, ShouldEqual, pool.Selected)
				So(nf.Error(), ShouldContainSubstring, "selected pool")
			})
		})

		Convey("When deleting", func() {
			_, err := s.Select(model.Hard, "3", 2)
			So(err, ShouldBeNil)
			_, err = s.DeleteSelected(model.Hard, "3")
			So(err, ShouldBeNil)
			_, err = s.DeleteAvailable(model.Hard, "1")
			So(err, ShouldBeNil)

			Convey("Then the skills are gone from both pools", func() {
				_, _, ok := s.Lookup(model.Hard, "3")
				So(ok, ShouldBeFalse)
				_, _, ok = s.Lookup(model.Hard, "1")
				So(ok, ShouldBeFalse)
				_, err := s.DeleteAvailable(model.Hard, "1")
				So(errors.Is(err, pool.ErrNotFound), ShouldBeTrue)
				_, err = s.DeleteSelected(model.Hard, "1")
				So(errors.Is(err, pool.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When renaming to an existing name", func() {
			sk, err := s.Rename(model.Hard, "1", "python")

			Convey("Then no uniqueness check applies", func() {
				So(err, ShouldBeNil)
				So(sk.Name, ShouldEqual, "python")
				So(s.Available(model.Hard, "PYTHON"), ShouldHaveLength, 2)
			})
		})

		Convey("When renaming an unknown id", func() {
			_, err := s.Rename(model.Hard, "nope", "x")
			So(errors.Is(err, pool.ErrNotFound), ShouldBeTrue)
		})

		Convey("When restamping levels", func() {
			_, err := s.SetLevel(model.Hard, "1", 3)
			So(errors.Is(err, pool.ErrNotFound), ShouldBeTrue)
			_, _ = s.Select(model.Hard, "1", 1)
			sk, err := s.SetLevel(model.Hard, "1", 5)
			So(err, ShouldBeNil)
			So(sk.Level, ShouldEqual, 5)
			got, kind, ok := s.Lookup(model.Hard, "1")
			So(ok, ShouldBeTrue)
			So(kind, ShouldEqual, pool.Selected)
			So(got.Level, ShouldEqual, 5)
		})

		Convey("When filtering", func() {
			Convey("Then matching is a case-insensitive substring", func() {
				So(names(s.Available(model.Hard, "SCRIPT")), ShouldResemble, []string{"JavaScript"})
				So(names(s.Available(model.Hard, "t")), ShouldResemble, []string{"JavaScript", "Python", "Git"})
				So(s.Available(model.Hard, "zzz"), ShouldBeEmpty)
				So(s.Selected(model.Hard, ""), ShouldBeEmpty)
			})
		})
	})
}
