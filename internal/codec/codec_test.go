package codec_test

import (
	"errors"
	"sort"
	"testing"

	codec "github.com/clubmate/lora-training/internal/codec"
	model "github.com/clubmate/lora-training/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func sampleState() ([]model.Image, []model.Comparison) {
	images := []model.Image{
		{ID: "a.jpg", Rating: 1516, Comparisons: 1},
		{ID: "b.jpg", Rating: 1484, Comparisons: 1},
		{ID: "c.jpg", Rating: 1500, Comparisons: 0},
	}
	history := []model.Comparison{
		{A: "a.jpg", B: "b.jpg", Outcome: model.AWins, Seq: 1},
		{A: "c.jpg", B: "a.jpg", Outcome: model.Skipped, Seq: 2},
	}
	return images, history
}

func TestRoundTrip(t *testing.T) {
	Convey("Given a populated engine state", t, func() {
		images, history := sampleState()

		Convey("When encoded and decoded", func() {
			data, err := codec.Encode(images, history)
			So(err, ShouldBeNil)

			gotImages, gotHistory, err := codec.Decode(data)
			So(err, ShouldBeNil)

			Convey("Then the state survives unchanged", func() {
				sort.Slice(gotImages, func(i, j int) bool { return gotImages[i].ID < gotImages[j].ID })
				So(gotImages, ShouldResemble, images)
				So(gotHistory, ShouldResemble, history)
			})

			Convey("And a second round trip is equivalent", func() {
				data2, err := codec.Encode(gotImages, gotHistory)
				So(err, ShouldBeNil)

				images2, history2, err := codec.Decode(data2)
				So(err, ShouldBeNil)
				So(images2, ShouldResemble, gotImages)
				So(history2, ShouldResemble, gotHistory)
			})
		})
	})
}

func TestDecodeEmpty(t *testing.T) {
	Convey("Given an empty document", t, func() {
		images, history, err := codec.Decode([]byte(`{"images": [], "history": []}`))

		Convey("Then it decodes to an empty session", func() {
			So(err, ShouldBeNil)
			So(images, ShouldBeEmpty)
			So(history, ShouldBeEmpty)
		})
	})

	Convey("Given a document with absent arrays", t, func() {
		images, history, err := codec.Decode([]byte(`{}`))

		Convey("Then absent arrays read as empty", func() {
			So(err, ShouldBeNil)
			So(images, ShouldBeEmpty)
			So(history, ShouldBeEmpty)
		})
	})
}

func TestDecodeForwardCompatible(t *testing.T) {
	Convey("Given a document with unknown extra fields", t, func() {
		doc := `{
			"format_version": 3,
			"images": [{"id": "a.jpg", "rating": 1500.0, "comparisons": 0, "label": "cat"}],
			"history": []
		}`

		images, _, err := codec.Decode([]byte(doc))

		Convey("Then unknown fields are ignored, not rejected", func() {
			So(err, ShouldBeNil)
			So(images, ShouldHaveLength, 1)
			So(images[0].ID, ShouldEqual, "a.jpg")
		})
	})
}

func TestDecodeMalformed(t *testing.T) {
	Convey("Given malformed documents", t, func() {
		cases := map[string]string{
			"invalid JSON": `{"images": [`,
			"missing rating": `{
				"images": [{"id": "a.jpg", "comparisons": 0}], "history": []}`,
			"missing comparisons": `{
				"images": [{"id": "a.jpg", "rating": 1500.0}], "history": []}`,
			"empty image id": `{
				"images": [{"id": "", "rating": 1500.0, "comparisons": 0}], "history": []}`,
			"negative comparison count": `{
				"images": [{"id": "a.jpg", "rating": 1500.0, "comparisons": -2}], "history": []}`,
			"duplicate image ids": `{
				"images": [
					{"id": "a.jpg", "rating": 1500.0, "comparisons": 0},
					{"id": "a.jpg", "rating": 1400.0, "comparisons": 1}
				], "history": []}`,
			"history references unknown image": `{
				"images": [{"id": "a.jpg", "rating": 1500.0, "comparisons": 0}],
				"history": [{"a": "a.jpg", "b": "ghost.jpg", "winner": "a", "seq": 1}]}`,
			"history missing winner": `{
				"images": [
					{"id": "a.jpg", "rating": 1500.0, "comparisons": 0},
					{"id": "b.jpg", "rating": 1500.0, "comparisons": 0}
				],
				"history": [{"a": "a.jpg", "b": "b.jpg", "seq": 1}]}`,
			"history invalid winner": `{
				"images": [
					{"id": "a.jpg", "rating": 1500.0, "comparisons": 0},
					{"id": "b.jpg", "rating": 1500.0, "comparisons": 0}
				],
				"history": [{"a": "a.jpg", "b": "b.jpg", "winner": "draw", "seq": 1}]}`,
			"history self-pair": `{
				"images": [{"id": "a.jpg", "rating": 1500.0, "comparisons": 0}],
				"history": [{"a": "a.jpg", "b": "a.jpg", "winner": "a", "seq": 1}]}`,
		}

		for name, doc := range cases {
			Convey("When decoding a document with "+name, func() {
				_, _, err := codec.Decode([]byte(doc))

				Convey("Then it fails with ErrMalformedState", func() {
					So(err, ShouldNotBeNil)
					So(errors.Is(err, codec.ErrMalformedState), ShouldBeTrue)
				})
			})
		}
	})
}

func TestEncodePreservesSkips(t *testing.T) {
	Convey("Given a history containing skips", t, func() {
		images := []model.Image{
			{ID: "a.jpg", Rating: 1500, Comparisons: 0},
			{ID: "b.jpg", Rating: 1500, Comparisons: 0},
		}
		history := []model.Comparison{
			{A: "a.jpg", B: "b.jpg", Outcome: model.Skipped, Seq: 1},
		}

		Convey("When round-tripped", func() {
			data, err := codec.Encode(images, history)
			So(err, ShouldBeNil)

			_, gotHistory, err := codec.Decode(data)
			So(err, ShouldBeNil)

			Convey("Then the skip survives for auditability", func() {
				So(gotHistory, ShouldHaveLength, 1)
				So(gotHistory[0].Outcome, ShouldEqual, model.Skipped)
			})
		})
	})
}
