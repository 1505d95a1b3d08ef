package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	app "github.com/clubmate/lora-training/internal/app"
	"github.com/clubmate/lora-training/internal/config"
	"github.com/clubmate/lora-training/internal/domain/model"
	"github.com/clubmate/lora-training/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When testing configuration loading", func() {
			_ = os.Setenv("LORA_ADDR", ":8080")
			_ = os.Setenv("LORA_SAMPLE_SIZE", "32")
			_ = os.Setenv("LORA_K_FACTOR", "24")
			defer func() {
				_ = os.Unsetenv("LORA_ADDR")
				_ = os.Unsetenv("LORA_SAMPLE_SIZE")
				_ = os.Unsetenv("LORA_K_FACTOR")
			}()

			convey.Convey("Then configuration should be loadable", func() {
				ctx := context.Background()
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.SampleSize, convey.ShouldEqual, 32)
				convey.So(cfg.KFactor, convey.ShouldEqual, 24.0)
			})
		})

		convey.Convey("When testing engine creation", func() {
			ctx := context.Background()

			convey.Convey("Then the engine should be creatable with default options", func() {
				engine := app.New(ctx)
				convey.So(engine, convey.ShouldNotBeNil)
			})

			convey.Convey("And the engine should be creatable with custom options", func() {
				engine := app.New(ctx,
					app.WithKFactor(16),
					app.WithSampleSize(32),
					app.WithSelectionSeed(1),
				)
				convey.So(engine, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestStatePersistence(t *testing.T) {
	convey.Convey("Given an engine with state and a state path", t, func() {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "state.json")
		log := logger.Nop()

		engine := app.New(ctx, app.WithSelectionSeed(3))
		_, err := engine.AddImages(ctx, "a.jpg", "b.jpg")
		convey.So(err, convey.ShouldBeNil)
		convey.So(engine.ReportOutcome(ctx, "a.jpg", "b.jpg", model.AWins), convey.ShouldBeNil)

		convey.Convey("When state is saved and loaded into a fresh engine", func() {
			convey.So(saveState(ctx, engine, path, log), convey.ShouldBeNil)

			fresh := app.New(ctx)
			convey.So(loadState(ctx, fresh, path, log), convey.ShouldBeNil)

			convey.Convey("Then the session survives the restart", func() {
				convey.So(fresh.Count(ctx), convey.ShouldEqual, 2)
				convey.So(fresh.Rankings(ctx), convey.ShouldResemble, engine.Rankings(ctx))
			})
		})

		convey.Convey("When the state file does not exist", func() {
			fresh := app.New(ctx)
			err := loadState(ctx, fresh, filepath.Join(t.TempDir(), "absent.json"), log)

			convey.Convey("Then the session simply starts fresh", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(fresh.Count(ctx), convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When the state path is empty", func() {
			convey.So(saveState(ctx, engine, "", log), convey.ShouldBeNil)
			convey.So(loadState(ctx, engine, "", log), convey.ShouldBeNil)
		})
	})
}
