package model_test

import (
	"testing"

	model "github.com/clubmate/lora-training/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestImage(t *testing.T) {
	convey.Convey("Given an Image record", t, func() {
		convey.Convey("When created via NewImage", func() {
			img := model.NewImage("photos/cat.jpg")

			convey.Convey("Then it should start at the initial rating with zero comparisons", func() {
				convey.So(img.ID, convey.ShouldEqual, "photos/cat.jpg")
				convey.So(img.Rating, convey.ShouldEqual, model.InitialRating)
				convey.So(img.Comparisons, convey.ShouldEqual, 0)
				convey.So(img.Validate(), convey.ShouldBeNil)
			})
		})

		convey.Convey("When the identifier is empty", func() {
			img := model.Image{Rating: model.InitialRating}

			convey.Convey("Then validation should fail", func() {
				convey.So(img.Validate(), convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When the comparison count is negative", func() {
			img := model.Image{ID: "x.png", Rating: 1400, Comparisons: -1}

			convey.Convey("Then validation should fail", func() {
				convey.So(img.Validate(), convey.ShouldNotBeNil)
			})
		})
	})
}

func TestOutcome(t *testing.T) {
	convey.Convey("Given the outcome enum", t, func() {
		convey.Convey("When converting to and from the wire form", func() {
			for _, o := range []model.Outcome{model.AWins, model.BWins, model.Skipped} {
				parsed, err := model.ParseOutcome(o.String())
				convey.So(err, convey.ShouldBeNil)
				convey.So(parsed, convey.ShouldEqual, o)
			}
		})

		convey.Convey("When parsing an unknown value", func() {
			_, err := model.ParseOutcome("draw")
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}

func TestComparison(t *testing.T) {
	convey.Convey("Given a Comparison record", t, func() {
		convey.Convey("When well formed", func() {
			c := model.Comparison{A: "a.jpg", B: "b.jpg", Outcome: model.AWins, Seq: 1}
			convey.So(c.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("When it pairs an image with itself", func() {
			c := model.Comparison{A: "a.jpg", B: "a.jpg", Outcome: model.BWins, Seq: 2}
			convey.So(c.Validate(), convey.ShouldNotBeNil)
		})

		convey.Convey("When an identifier is missing", func() {
			c := model.Comparison{A: "", B: "b.jpg", Outcome: model.AWins}
			convey.So(c.Validate(), convey.ShouldNotBeNil)
		})

		convey.Convey("When the outcome is out of range", func() {
			c := model.Comparison{A: "a.jpg", B: "b.jpg", Outcome: model.Outcome(9)}
			convey.So(c.Validate(), convey.ShouldNotBeNil)
		})
	})
}
