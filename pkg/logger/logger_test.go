package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestInit(t *testing.T) {
	Convey("Given the logger package", t, func() {
		Convey("When initialized with defaults", func() {
			So(Init(), ShouldBeNil)
			So(Get(), ShouldNotBeNil)
			So(Sync(), ShouldBeNil)
		})

		Convey("When initialized with an unknown format", func() {
			err := Init(WithFormat("xml"))
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "xml")
		})
	})
}

func TestJSONOutput(t *testing.T) {
	Convey("Given a JSON logger writing to a buffer", t, func() {
		var buf bytes.Buffer
		So(Init(WithFormat("JSON"), WithWriter(&buf)), ShouldBeNil)

		Convey("When logging with fields from a named logger", func() {
			Named("refresher").Info(context.Background(), "fetched",
				String("meet", "meet1"),
				Int("matches", 12),
				Bool("changed", true),
				Duration("took", 1500*time.Millisecond),
				Error(errors.New("boom")),
			)

			var rec map[string]any
			So(json.Unmarshal(buf.Bytes(), &rec), ShouldBeNil)

			Convey("Then the record carries every field", func() {
				So(rec["msg"], ShouldEqual, "fetched")
				So(rec["component"], ShouldEqual, "refresher")
				So(rec["meet"], ShouldEqual, "meet1")
				So(rec["matches"], ShouldEqual, float64(12))
				So(rec["changed"], ShouldEqual, true)
				So(rec["error"], ShouldEqual, "boom")
				So(rec["source"], ShouldContainSubstring, "logger_test.go")
			})
		})
	})
}

func TestLevels(t *testing.T) {
	Convey("Given a text logger", t, func() {
		var buf bytes.Buffer
		So(Init(WithWriter(&buf)), ShouldBeNil)
		ctx := context.Background()

		Convey("Debug is dropped at info level", func() {
			Get().Debug(ctx, "hidden")
			So(buf.Len(), ShouldEqual, 0)
		})

		Convey("Debug is written after raising verbosity", func() {
			So(SetLevelString("debug"), ShouldBeNil)
			Get().Debug(ctx, "shown")
			So(strings.Contains(buf.String(), "shown"), ShouldBeTrue)
		})

		Convey("Warn passes at warning level but info does not", func() {
			So(SetLevelString("warning"), ShouldBeNil)
			Get().Info(ctx, "quiet")
			Get().Warn(ctx, "loud")
			So(buf.String(), ShouldNotContainSubstring, "quiet")
			So(buf.String(), ShouldContainSubstring, "loud")
		})

		Convey("Unknown levels are rejected", func() {
			So(SetLevelString("verbose"), ShouldNotBeNil)
		})
	})
}

func TestGetBeforeInit(t *testing.T) {
	Convey("Get panics when the logger was never initialized", t, func() {
		saved := global
		global = nil
		defer func() { global = saved }()
		So(func() { Get() }, ShouldPanic)
	})
}
