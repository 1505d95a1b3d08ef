package rating_test

import (
	"math"
	"testing"

	model "github.com/clubmate/lora-training/internal/domain/model"
	rating "github.com/clubmate/lora-training/internal/domain/rating"
	. "github.com/smartystreets/goconvey/convey"
)

const tolerance = 1e-9

func TestExpectedScore(t *testing.T) {
	Convey("Given a default updater", t, func() {
		u := rating.New()

		Convey("When both ratings are equal", func() {
			Convey("Then each side expects exactly half", func() {
				So(u.Expected(1500, 1500), ShouldAlmostEqual, 0.5, tolerance)
			})
		})

		Convey("When ratings differ", func() {
			Convey("Then expected scores still sum to one", func() {
				for _, pair := range [][2]float64{
					{1500, 1500},
					{1600, 1400},
					{1234.5, 1789.25},
					{-50, 2000},
				} {
					ea := u.Expected(pair[0], pair[1])
					eb := u.Expected(pair[1], pair[0])
					So(ea+eb, ShouldAlmostEqual, 1.0, tolerance)
				}
			})

			Convey("And a 400-point edge expects about ten-to-one odds", func() {
				So(u.Expected(1900, 1500), ShouldAlmostEqual, 10.0/11.0, tolerance)
			})
		})
	})
}

func TestApply(t *testing.T) {
	Convey("Given a default updater", t, func() {
		u := rating.New()

		Convey("When two fresh images are compared and A wins", func() {
			newA, newB := u.Apply(1500, 1500, model.AWins)

			Convey("Then the symmetric case moves both exactly K/2", func() {
				So(newA, ShouldEqual, 1516.0)
				So(newB, ShouldEqual, 1484.0)
			})
		})

		Convey("When B wins instead", func() {
			newA, newB := u.Apply(1500, 1500, model.BWins)

			So(newA, ShouldEqual, 1484.0)
			So(newB, ShouldEqual, 1516.0)
		})

		Convey("When the outcome is a skip", func() {
			newA, newB := u.Apply(1516, 1484, model.Skipped)

			Convey("Then both ratings are untouched", func() {
				So(newA, ShouldEqual, 1516.0)
				So(newB, ShouldEqual, 1484.0)
			})
		})

		Convey("When ratings are uneven", func() {
			Convey("Then the update is zero-sum", func() {
				for _, c := range []struct {
					ra, rb  float64
					outcome model.Outcome
				}{
					{1700, 1300, model.AWins},
					{1700, 1300, model.BWins},
					{1500.5, 1499.5, model.AWins},
					{900, 2100, model.BWins},
				} {
					newA, newB := u.Apply(c.ra, c.rb, c.outcome)
					deltaA := newA - c.ra
					deltaB := newB - c.rb
					So(deltaA, ShouldAlmostEqual, -deltaB, tolerance)
					So(math.Abs(deltaA), ShouldBeLessThanOrEqualTo, rating.DefaultKFactor)
				}
			})

			Convey("And an upset moves more points than an expected win", func() {
				_, upsetLoser := u.Apply(1300, 1700, model.AWins)
				_, expectedLoser := u.Apply(1700, 1300, model.AWins)
				So(1700-upsetLoser, ShouldBeGreaterThan, 1300-expectedLoser)
			})
		})

		Convey("When the update order of the pair is flipped", func() {
			// Simultaneity: A winning as first argument must mirror A
			// winning as second argument.
			a1, b1 := u.Apply(1620, 1480, model.AWins)
			b2, a2 := u.Apply(1480, 1620, model.BWins)

			So(a1, ShouldAlmostEqual, a2, tolerance)
			So(b1, ShouldAlmostEqual, b2, tolerance)
		})
	})
}

func TestCustomKFactor(t *testing.T) {
	Convey("Given an updater with a custom K-factor", t, func() {
		u := rating.New(rating.WithKFactor(16))

		Convey("Then the symmetric swing halves", func() {
			newA, newB := u.Apply(1500, 1500, model.AWins)
			So(newA, ShouldEqual, 1508.0)
			So(newB, ShouldEqual, 1492.0)
			So(u.KFactor(), ShouldEqual, 16.0)
		})

		Convey("And non-positive K-factors are ignored", func() {
			So(rating.New(rating.WithKFactor(0)).KFactor(), ShouldEqual, rating.DefaultKFactor)
			So(rating.New(rating.WithKFactor(-4)).KFactor(), ShouldEqual, rating.DefaultKFactor)
		})
	})
}
