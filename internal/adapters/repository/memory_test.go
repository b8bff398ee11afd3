package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/Goutamchandnani/UniHustle/internal/domain/model"
)

func record(student, job string, score float64) Record {
	return Record{
		StudentID:      student,
		JobID:          job,
		Score:          score,
		ScheduleStatus: "Perfect Fit",
		Analysis:       []string{},
		CalculatedAt:   time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC),
		SubmittedAt:    time.Date(2026, 1, 5, 8, 59, 0, 0, time.UTC),
	}
}

func TestMemoryStore(t *testing.T) {
	Convey("Given an empty memory store", t, func() {
		ctx := context.Background()
		s := NewMemoryStore()

		Convey("Get on a missing pair returns ErrNotFound", func() {
			_, err := s.Get(ctx, "s1", "j1")
			So(err, ShouldEqual, ErrNotFound)
		})

		Convey("Records without ids are rejected", func() {
			err := s.Upsert(ctx, record("", "j1", 10))
			So(errors.Is(err, ErrInvalidRecord), ShouldBeTrue)
			err = s.Upsert(ctx, record("s1", "  ", 10))
			So(errors.Is(err, ErrInvalidRecord), ShouldBeTrue)
		})

		Convey("When the same pair is written twice", func() {
			So(s.Upsert(ctx, record("s1", "j1", 40)), ShouldBeNil)
			So(s.Upsert(ctx, record("s1", "j1", 90)), ShouldBeNil)

			Convey("Then one record remains with the latest score", func() {
				n, err := s.Count(ctx)
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 1)

				got, err := s.Get(ctx, "s1", "j1")
				So(err, ShouldBeNil)
				So(got.Score, ShouldEqual, 90)
			})
		})

		Convey("When an older submission arrives after a newer one", func() {
			base := record("s1", "j1", 0)
			newer := base.Submitted(base.SubmittedAt.Add(time.Second))
			newer.Score = 90
			older := base
			older.Score = 7
			So(s.Upsert(ctx, newer), ShouldBeNil)
			So(s.Upsert(ctx, older), ShouldBeNil)

			Convey("Then the newer record is kept", func() {
				got, err := s.Get(ctx, "s1", "j1")
				So(err, ShouldBeNil)
				So(got.Score, ShouldEqual, 90)
				n, _ := s.Count(ctx)
				So(n, ShouldEqual, 1)
			})
		})

		Convey("When a student has several matches", func() {
			So(s.Upsert(ctx, record("s1", "b", 50)), ShouldBeNil)
			So(s.Upsert(ctx, record("s1", "a", 50)), ShouldBeNil)
			So(s.Upsert(ctx, record("s1", "c", 80)), ShouldBeNil)
			So(s.Upsert(ctx, record("s2", "z", 99)), ShouldBeNil)

			Convey("Then the feed is ordered by score desc then job id", func() {
				list, err := s.ListForStudent(ctx, "s1")
				So(err, ShouldBeNil)
				So(len(list), ShouldEqual, 3)
				So(list[0].JobID, ShouldEqual, "c")
				So(list[1].JobID, ShouldEqual, "a")
				So(list[2].JobID, ShouldEqual, "b")
			})

			Convey("Then an unknown student has an empty feed", func() {
				list, err := s.ListForStudent(ctx, "nobody")
				So(err, ShouldBeNil)
				So(list, ShouldBeEmpty)
			})
		})

		Convey("Stored analysis is not shared with the caller", func() {
			rec := record("s1", "j1", 10)
			rec.Analysis = []string{"a"}
			So(s.Upsert(ctx, rec), ShouldBeNil)
			rec.Analysis[0] = "changed"

			got, _ := s.Get(ctx, "s1", "j1")
			So(got.Analysis[0], ShouldEqual, "a")
		})

		Convey("Concurrent upserts of distinct pairs are all kept", func() {
			var wg sync.WaitGroup
			for i := 0; i < 50; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					_ = s.Upsert(ctx, record("s1", fmt.Sprintf("j%02d", i), float64(i)))
				}(i)
			}
			wg.Wait()

			n, _ := s.Count(ctx)
			So(n, ShouldEqual, 50)
		})
	})
}

func TestNewRecord(t *testing.T) {
	Convey("NewRecord copies the engine result", t, func() {
		at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("BST", 3600))
		res := model.MatchResult{
			TotalScore:       77.5,
			Breakdown:        model.MatchBreakdown{Schedule: 100, Location: 50},
			ScheduleStatus:   "Perfect Fit",
			ScheduleAnalysis: []string{"ok"},
		}
		rec := NewRecord("s1", "j1", res, at)

		So(rec.Score, ShouldEqual, 77.5)
		So(rec.Breakdown.Location, ShouldEqual, 50)
		So(rec.Analysis, ShouldResemble, []string{"ok"})
		So(rec.CalculatedAt.Location(), ShouldEqual, time.UTC)
		So(rec.SubmittedAt, ShouldEqual, rec.CalculatedAt)

		later := rec.Submitted(at.Add(time.Minute))
		So(later.SubmittedAt.Sub(rec.SubmittedAt), ShouldEqual, time.Minute)
		So(later.supersedes(&rec), ShouldBeTrue)
		So(rec.supersedes(&later), ShouldBeFalse)
		So(rec.supersedes(&rec), ShouldBeTrue)
	})
}

func TestSortRecords(t *testing.T) {
	Convey("SortRecords orders by score desc and breaks ties by job id", t, func() {
		recs := []Record{record("s", "b", 1), record("s", "a", 1), record("s", "c", 5)}
		SortRecords(recs)
		So([]string{recs[0].JobID, recs[1].JobID, recs[2].JobID}, ShouldResemble, []string{"c", "a", "b"})
	})
}
