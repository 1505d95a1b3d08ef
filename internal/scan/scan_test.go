package scan_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	scan "github.com/clubmate/lora-training/internal/scan"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSupported(t *testing.T) {
	Convey("Given the supported extension set", t, func() {
		Convey("Then common image formats pass", func() {
			for _, p := range []string{"a.jpg", "b.JPEG", "c.png", "d.webp", "e.TIFF", "f.gif", "g.bmp"} {
				So(scan.Supported(p), ShouldBeTrue)
			}
		})

		Convey("And everything else is rejected", func() {
			for _, p := range []string{"notes.txt", "model.safetensors", "archive.zip", "noext", "movie.mp4"} {
				So(scan.Supported(p), ShouldBeFalse)
			}
		})
	})
}

func TestImages(t *testing.T) {
	Convey("Given a directory tree with mixed files", t, func() {
		root := t.TempDir()
		mustWrite := func(rel string) {
			path := filepath.Join(root, rel)
			So(os.MkdirAll(filepath.Dir(path), 0o750), ShouldBeNil)
			So(os.WriteFile(path, []byte("x"), 0o600), ShouldBeNil)
		}
		mustWrite("one.jpg")
		mustWrite("two.PNG")
		mustWrite("notes.txt")
		mustWrite("nested/three.webp")
		mustWrite("nested/deeper/four.gif")
		mustWrite("nested/skip.md")

		Convey("When scanning", func() {
			paths, err := scan.Images(context.Background(), root)

			Convey("Then only supported images are listed, recursively and sorted", func() {
				So(err, ShouldBeNil)
				So(paths, ShouldHaveLength, 4)
				for _, p := range paths {
					So(scan.Supported(p), ShouldBeTrue)
				}
				So(paths[0] <= paths[1] && paths[1] <= paths[2] && paths[2] <= paths[3], ShouldBeTrue)
			})
		})
	})

	Convey("Given a missing directory", t, func() {
		_, err := scan.Images(context.Background(), filepath.Join(t.TempDir(), "absent"))

		Convey("Then scanning fails", func() {
			So(err, ShouldNotBeNil)
		})
	})
}
