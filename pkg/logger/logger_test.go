package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given the text format", t, func() {
		var buf bytes.Buffer
		So(Init(WithOutput(&buf)), ShouldBeNil)

		Get().Info(context.Background(), "hello", String("k", "v"), Int("n", 3))
		So(Sync(), ShouldBeNil)

		So(buf.String(), ShouldContainSubstring, "msg=hello")
		So(buf.String(), ShouldContainSubstring, "k=v")
		So(buf.String(), ShouldContainSubstring, "logger_test.go")
	})

	Convey("Given the json format", t, func() {
		var buf bytes.Buffer
		So(Init(WithFormat("JSON"), WithOutput(&buf)), ShouldBeNil)

		Named("engine").With(Bool("cached", true)).Warn(context.Background(), "slow", Error(errors.New("boom")))

		var line map[string]any
		So(json.Unmarshal(buf.Bytes(), &line), ShouldBeNil)
		So(line["msg"], ShouldEqual, "slow")
		So(line["level"], ShouldEqual, "WARN")
		So(line["component"], ShouldEqual, "engine")
		So(line["cached"], ShouldEqual, true)
		So(line["error"], ShouldEqual, "boom")
	})

	Convey("Given an unknown format", t, func() {
		So(Init(WithFormat("xml")), ShouldNotBeNil)
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given an initialized logger", t, func() {
		var buf bytes.Buffer
		So(Init(WithOutput(&buf)), ShouldBeNil)
		ctx := context.Background()

		Convey("Debug lines are dropped at info level", func() {
			Get().Debug(ctx, "hidden")
			So(buf.Len(), ShouldEqual, 0)
		})

		Convey("Raising the level to debug lets them through", func() {
			So(SetLevelString(" Debug "), ShouldBeNil)
			Get().Debug(ctx, "shown")
			So(strings.Count(buf.String(), "shown"), ShouldEqual, 1)
		})

		Convey("Error level suppresses warnings", func() {
			So(SetLevelString("error"), ShouldBeNil)
			Get().Warn(ctx, "quiet")
			So(buf.Len(), ShouldEqual, 0)
		})

		Convey("Unknown levels are rejected", func() {
			So(SetLevelString("verbose"), ShouldNotBeNil)
		})
	})
}
