package schedule_test

import (
	"sync"
	"testing"
	"time"

	"github.com/Goutamchandnani/UniHustle/internal/domain/model"
	"github.com/Goutamchandnani/UniHustle/internal/domain/schedule"
	. "github.com/smartystreets/goconvey/convey"
)

func iv(day, start, end string) model.TimeInterval {
	return model.NewTimeInterval(day, start, end)
}

func TestAnalyzeFit(t *testing.T) {
	Convey("Given a default schedule analyzer", t, func() {
		a := schedule.NewAnalyzer()
		lecture := []model.TimeInterval{iv("Monday", "09:00", "11:00")}

		Convey("When the job has no fixed shifts", func() {
			fit := a.AnalyzeFit(lecture, nil)

			Convey("Then it is a perfect fit", func() {
				So(fit.Score, ShouldEqual, 100)
				So(fit.Status, ShouldEqual, schedule.StatusPerfectFit)
				So(fit.Analysis, ShouldHaveLength, 1)
				So(fit.Analysis[0], ShouldContainSubstring, "no fixed shifts")
			})
		})

		Convey("When a shift overlaps the only commitment", func() {
			fit := a.AnalyzeFit(lecture, []model.TimeInterval{iv("Monday", "10:00", "14:00")})

			Convey("Then the single shift is a conflict and the ratio zeroes the score", func() {
				So(fit.Score, ShouldEqual, 0)
				So(fit.Status, ShouldEqual, schedule.StatusConflict)
				So(fit.Analysis, ShouldHaveLength, 1)
				So(fit.Analysis[0], ShouldContainSubstring, "overlaps")
				So(fit.Analysis[0], ShouldContainSubstring, "monday")
			})
		})

		Convey("When the shift is on a different day", func() {
			fit := a.AnalyzeFit(lecture, []model.TimeInterval{iv("tuesday", "09:00", "17:00")})
			So(fit.Score, ShouldEqual, 100)
			So(fit.Status, ShouldEqual, schedule.StatusPerfectFit)
			So(fit.Analysis, ShouldBeEmpty)
		})

		Convey("When days differ only by case", func() {
			fit := a.AnalyzeFit(lecture, []model.TimeInterval{iv("MONDAY", "10:00", "12:00")})
			So(fit.Score, ShouldEqual, 0)
		})

		Convey("When the gap equals the commute but not the buffer", func() {
			fit := a.AnalyzeFit(lecture, []model.TimeInterval{iv("Monday", "11:30", "15:00")})

			Convey("Then it is a tight-timing warning, not a conflict", func() {
				So(fit.Score, ShouldEqual, 90)
				So(fit.Status, ShouldEqual, schedule.StatusGoodFit)
				So(fit.Analysis, ShouldHaveLength, 1)
				So(fit.Analysis[0], ShouldContainSubstring, "Tight timing")
				So(fit.Analysis[0], ShouldContainSubstring, "30m")
			})
		})

		Convey("When the gap after a commitment is shorter than the commute", func() {
			fit := a.AnalyzeFit(lecture, []model.TimeInterval{iv("Monday", "11:10", "15:00")})
			So(fit.Score, ShouldEqual, 0)
			So(fit.Analysis[0], ShouldContainSubstring, "Impossible commute")
			So(fit.Analysis[0], ShouldContainSubstring, "10m")
		})

		Convey("When the shift ends too close to a later commitment", func() {
			fit := a.AnalyzeFit(
				[]model.TimeInterval{iv("Monday", "14:00", "16:00")},
				[]model.TimeInterval{iv("Monday", "09:00", "13:45")},
			)
			So(fit.Score, ShouldEqual, 0)
			So(fit.Analysis[0], ShouldContainSubstring, "Impossible commute")
		})

		Convey("When the shift ends with a tight margin before a later commitment", func() {
			fit := a.AnalyzeFit(
				[]model.TimeInterval{iv("Monday", "14:00", "16:00")},
				[]model.TimeInterval{iv("Monday", "09:00", "13:20")},
			)
			So(fit.Score, ShouldEqual, 90)
			So(fit.Analysis[0], ShouldContainSubstring, "from work to commitment")
		})

		Convey("When a shift touches a commitment with no gap", func() {
			fit := a.AnalyzeFit(lecture, []model.TimeInterval{iv("Monday", "11:00", "13:00")})

			Convey("Then neither overlap nor commute rules apply", func() {
				So(fit.Score, ShouldEqual, 100)
				So(fit.Analysis, ShouldBeEmpty)
			})
		})

		Convey("When the gap is comfortably large", func() {
			fit := a.AnalyzeFit(lecture, []model.TimeInterval{iv("Monday", "12:00", "16:00")})
			So(fit.Score, ShouldEqual, 100)
		})

		Convey("When a minority of shifts conflict", func() {
			shifts := []model.TimeInterval{
				iv("Monday", "10:00", "12:00"),
				iv("Tuesday", "10:00", "12:00"),
				iv("Wednesday", "10:00", "12:00"),
			}
			fit := a.AnalyzeFit(lecture, shifts)

			Convey("Then the score is 50 minus 10 per conflicting shift", func() {
				So(fit.Score, ShouldEqual, 40)
				So(fit.Status, ShouldEqual, schedule.StatusConflict)
			})
		})

		Convey("When exactly half of the shifts conflict", func() {
			shifts := []model.TimeInterval{
				iv("Monday", "10:00", "12:00"),
				iv("Tuesday", "10:00", "12:00"),
			}
			fit := a.AnalyzeFit(lecture, shifts)
			So(fit.Score, ShouldEqual, 40)
		})

		Convey("When one shift has several overlapping commitments", func() {
			commitments := []model.TimeInterval{
				iv("Monday", "09:00", "10:00"),
				iv("Monday", "11:00", "12:00"),
			}
			fit := a.AnalyzeFit(commitments, []model.TimeInterval{
				iv("Monday", "09:30", "11:30"),
				iv("Friday", "09:00", "10:00"),
				iv("Saturday", "09:00", "10:00"),
			})

			Convey("Then only the first conflict is recorded", func() {
				So(fit.Analysis, ShouldHaveLength, 1)
				So(fit.Analysis[0], ShouldContainSubstring, "09:00-10:00")
				So(fit.Score, ShouldEqual, 40)
			})
		})

		Convey("When one shift has tight timing on both sides", func() {
			commitments := []model.TimeInterval{
				iv("Monday", "08:00", "09:00"),
				iv("Monday", "14:40", "16:00"),
			}
			fit := a.AnalyzeFit(commitments, []model.TimeInterval{iv("Monday", "09:30", "14:00")})

			Convey("Then each comparison adds a warning", func() {
				So(fit.Analysis, ShouldHaveLength, 2)
				So(fit.Score, ShouldEqual, 80)
				So(fit.Status, ShouldEqual, schedule.StatusGoodFit)
			})
		})

		Convey("When a warning is followed by a conflict on the same shift", func() {
			commitments := []model.TimeInterval{
				iv("Monday", "08:00", "09:00"),
				iv("Monday", "12:00", "13:00"),
			}
			fit := a.AnalyzeFit(commitments, []model.TimeInterval{
				iv("Monday", "09:30", "12:30"),
				iv("Tuesday", "09:00", "10:00"),
				iv("Wednesday", "09:00", "10:00"),
			})

			Convey("Then conflicts are listed before warnings", func() {
				So(fit.Analysis, ShouldHaveLength, 2)
				So(fit.Analysis[0], ShouldContainSubstring, "overlaps")
				So(fit.Analysis[1], ShouldContainSubstring, "Tight timing")
				So(fit.Score, ShouldEqual, 40)
			})
		})

		Convey("When many tight shifts accumulate", func() {
			var commitments, shifts []model.TimeInterval
			for _, day := range []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun", "Mon", "Tue", "Wed", "Thu"} {
				commitments = append(commitments, iv(day, "08:00", "09:00"))
			}
			shifts = []model.TimeInterval{iv("Mon", "09:30", "10:00")}
			fit := a.AnalyzeFit(commitments, shifts)

			Convey("Then every matching commitment warns separately", func() {
				So(fit.Score, ShouldEqual, 80)
				So(fit.Analysis, ShouldHaveLength, 2)
			})

			Convey("And the score never drops below zero", func() {
				many := a.AnalyzeFit(commitments, []model.TimeInterval{
					iv("Mon", "09:30", "10:00"), iv("Tue", "09:30", "10:00"), iv("Wed", "09:30", "10:00"),
					iv("Thu", "09:30", "10:00"), iv("Fri", "09:30", "10:00"), iv("Sat", "09:30", "10:00"),
					iv("Sun", "09:30", "10:00"),
				})
				So(many.Analysis, ShouldHaveLength, 11)
				So(many.Score, ShouldEqual, 0)
				So(many.Status, ShouldEqual, schedule.StatusConflict)
			})
		})
	})
}

func TestAnalyzerOptions(t *testing.T) {
	Convey("Given an analyzer with a shorter commute and no buffer", t, func() {
		a := schedule.NewAnalyzer(schedule.WithCommuteTime(10*time.Minute), schedule.WithMinBuffer(0))
		So(a.CommuteTime(), ShouldEqual, 10*time.Minute)
		So(a.RequiredGap(), ShouldEqual, 10*time.Minute)

		fit := a.AnalyzeFit(
			[]model.TimeInterval{iv("Monday", "09:00", "11:00")},
			[]model.TimeInterval{iv("Monday", "11:10", "13:00")},
		)
		So(fit.Score, ShouldEqual, 100)

		Convey("And negative durations are ignored", func() {
			b := schedule.NewAnalyzer(schedule.WithCommuteTime(-time.Minute))
			So(b.CommuteTime(), ShouldEqual, 30*time.Minute)
		})
	})
}

func TestStatusBands(t *testing.T) {
	Convey("Given scores produced by warnings", t, func() {
		a := schedule.NewAnalyzer()
		commitments := []model.TimeInterval{
			iv("Monday", "08:00", "09:00"),
			iv("Tuesday", "08:00", "09:00"),
			iv("Wednesday", "08:00", "09:00"),
			iv("Thursday", "08:00", "09:00"),
		}
		tight := func(days ...string) []model.TimeInterval {
			out := make([]model.TimeInterval, 0, len(days))
			for _, d := range days {
				out = append(out, iv(d, "09:40", "12:00"))
			}
			return out
		}

		So(a.AnalyzeFit(commitments, tight("Monday", "Tuesday")).Status, ShouldEqual, schedule.StatusGoodFit)
		So(a.AnalyzeFit(commitments, tight("Monday", "Tuesday", "Wednesday")).Status, ShouldEqual, schedule.StatusChallenge)
		So(a.AnalyzeFit(commitments, tight("Monday", "Tuesday", "Wednesday", "Thursday")).Status, ShouldEqual, schedule.StatusChallenge)
	})
}

func TestAnalyzeFitConcurrent(t *testing.T) {
	Convey("Given one analyzer shared across goroutines", t, func() {
		a := schedule.NewAnalyzer()
		commitments := []model.TimeInterval{iv("Monday", "09:00", "11:00")}
		shifts := []model.TimeInterval{iv("Monday", "11:30", "15:00")}

		var wg sync.WaitGroup
		results := make([]schedule.Fit, 32)
		for i := range results {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i] = a.AnalyzeFit(commitments, shifts)
			}(i)
		}
		wg.Wait()

		for _, r := range results {
			So(r, ShouldResemble, results[0])
		}
	})
}
