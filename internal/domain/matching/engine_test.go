package matching_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Goutamchandnani/UniHustle/internal/domain/matching"
	"github.com/Goutamchandnani/UniHustle/internal/domain/model"
	"github.com/Goutamchandnani/UniHustle/internal/domain/schedule"
	. "github.com/smartystreets/goconvey/convey"
)

var (
	london     = &model.GeoPoint{Latitude: 51.5074, Longitude: -0.1278}
	birmingham = &model.GeoPoint{Latitude: 52.4862, Longitude: -1.8904}
)

func newStudent() *model.StudentProfile {
	return &model.StudentProfile{
		ID:          "s-1",
		Location:    london,
		Timetable:   []model.TimeInterval{model.NewTimeInterval("Monday", "09:00", "12:00")},
		MinSalary:   model.Float64(12),
		Skills:      []string{"python", "communication", "retail"},
		Preferences: &model.Preferences{Roles: []string{"Barista", "Assistant"}},
	}
}

func highMatchJob() *model.JobData {
	return &model.JobData{
		ID:         "j-1",
		Title:      "Barista Assistant",
		Location:   &model.JobLocation{Point: london, Name: "London"},
		Shifts:     []model.TimeInterval{model.NewTimeInterval("Tuesday", "09:00", "17:00")},
		SalaryMin:  model.Float64(13),
		SalaryMax:  model.Float64(15),
		SalaryType: model.SalaryHourly,
		Skills:     []string{"communication", "retail"},
	}
}

func newEngine(t *testing.T, opts ...matching.Option) *matching.Engine {
	t.Helper()
	e, err := matching.NewEngine(opts...)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return e
}

func TestCalculateMatchScenarios(t *testing.T) {
	Convey("Given the default engine", t, func() {
		e := newEngine(t)

		Convey("When a student matches a nearby barista job on every dimension", func() {
			res, err := e.CalculateMatch(newStudent(), highMatchJob())
			So(err, ShouldBeNil)

			Convey("Then every sub-score is 100 and so is the total", func() {
				So(res.Breakdown.Schedule, ShouldEqual, 100)
				So(res.Breakdown.Location, ShouldEqual, 100)
				So(res.Breakdown.Skills, ShouldEqual, 100)
				So(res.Breakdown.Salary, ShouldEqual, 100)
				So(res.Breakdown.Preferences, ShouldEqual, 100)
				So(res.TotalScore, ShouldEqual, 100.0)
				So(res.ScheduleStatus, ShouldEqual, schedule.StatusPerfectFit)
				So(res.Breakdown.LocationMetadata, ShouldBeNil)
			})
		})

		Convey("When the job is a developer role in Birmingham during a lecture", func() {
			job := &model.JobData{
				ID:         "j-2",
				Title:      "Senior Developer",
				Location:   &model.JobLocation{Point: birmingham, Name: "Birmingham"},
				Shifts:     []model.TimeInterval{model.NewTimeInterval("Monday", "10:00", "11:00")},
				SalaryMin:  model.Float64(10),
				SalaryType: model.SalaryHourly,
				Skills:     []string{"java", "architecture"},
			}
			res, err := e.CalculateMatch(newStudent(), job)
			So(err, ShouldBeNil)

			Convey("Then every hard dimension fails and the total collapses", func() {
				So(res.Breakdown.Schedule, ShouldEqual, 0)
				So(res.Breakdown.Skills, ShouldEqual, 0)
				So(res.Breakdown.Location, ShouldEqual, 0)
				So(res.Breakdown.Salary, ShouldBeLessThan, 100)
				So(res.TotalScore, ShouldEqual, 0)
				So(res.ScheduleStatus, ShouldEqual, schedule.StatusConflict)
				So(res.ScheduleAnalysis, ShouldHaveLength, 1)
			})
		})
	})
}

func TestDealbreakers(t *testing.T) {
	Convey("Given a London student with city preferences and no other constraints", t, func() {
		e := newEngine(t)
		student := &model.StudentProfile{
			Preferences: &model.Preferences{Roles: []string{"Tutor"}},
			Cities:      &model.CityPreference{PrimaryCity: "London"},
		}

		Convey("When only the role preference fails", func() {
			res, err := e.CalculateMatch(student, &model.JobData{Title: "Barista", Location: &model.JobLocation{Name: "London"}})
			So(err, ShouldBeNil)

			Convey("Then the total is a tenth of the weighted sum", func() {
				So(res.Breakdown.Preferences, ShouldEqual, 0)
				So(res.Breakdown.Location, ShouldEqual, 100)
				So(res.TotalScore, ShouldEqual, 9.0)
				So(res.Breakdown.LocationMetadata, ShouldNotBeNil)
				So(res.Breakdown.LocationMetadata.Badge, ShouldEqual, "YOUR CITY")
			})
		})

		Convey("When only the location fails", func() {
			res, _ := e.CalculateMatch(student, &model.JobData{Title: "Maths Tutor", Location: &model.JobLocation{Name: "Glasgow"}})
			So(res.Breakdown.Location, ShouldEqual, 0)
			So(res.Breakdown.Excluded(), ShouldBeTrue)
			So(res.TotalScore, ShouldEqual, 5.5)
		})

		Convey("When both fail the penalties compound", func() {
			res, _ := e.CalculateMatch(student, &model.JobData{Title: "Barista", Location: &model.JobLocation{Name: "Glasgow"}})
			So(res.TotalScore, ShouldEqual, 0.5)
			So(matching.Dealbreakers(student.DesiredRoles(), res.Breakdown), ShouldResemble,
				[]string{matching.DealbreakerPreferences, matching.DealbreakerLocation})
		})

		Convey("When the student has no roles a zero preference cannot happen", func() {
			res, _ := e.CalculateMatch(&model.StudentProfile{Cities: student.Cities}, &model.JobData{Title: "Barista", Location: &model.JobLocation{Name: "London"}})
			So(res.Breakdown.Preferences, ShouldEqual, 100)
			So(res.TotalScore, ShouldEqual, 100)
		})
	})
}

func TestRemoteJob(t *testing.T) {
	Convey("Given a student who wants to work in Leeds only", t, func() {
		e := newEngine(t)
		student := &model.StudentProfile{Cities: &model.CityPreference{PreferredCities: []string{"Leeds"}}}

		Convey("Then a remote job in another city still scores full location", func() {
			res, _ := e.CalculateMatch(student, &model.JobData{Title: "Support", IsRemote: true, Location: &model.JobLocation{Name: "Plymouth"}})
			So(res.Breakdown.Location, ShouldEqual, 100)
			So(res.Breakdown.LocationMetadata.Badge, ShouldEqual, "REMOTE")
		})
	})
}

func TestMissingInput(t *testing.T) {
	Convey("Given the default engine", t, func() {
		e := newEngine(t)

		Convey("Nil containers are errors", func() {
			_, err := e.CalculateMatch(nil, highMatchJob())
			So(errors.Is(err, matching.ErrMissingStudent), ShouldBeTrue)
			_, err = e.CalculateMatch(newStudent(), nil)
			So(errors.Is(err, matching.ErrMissingJob), ShouldBeTrue)
		})

		Convey("Empty records degrade to neutral scores", func() {
			res, err := e.CalculateMatch(&model.StudentProfile{}, &model.JobData{})
			So(err, ShouldBeNil)
			So(res.Breakdown.Location, ShouldEqual, 50)
			So(res.Breakdown.Schedule, ShouldEqual, 100)
			So(res.Breakdown.Skills, ShouldEqual, 100)
			So(res.Breakdown.Salary, ShouldEqual, 100)
			So(res.Breakdown.Preferences, ShouldEqual, 100)
			So(res.TotalScore, ShouldEqual, 77.5)
		})
	})
}

func TestEngineOptions(t *testing.T) {
	Convey("Given custom weights", t, func() {
		Convey("Weights that do not sum to one are rejected", func() {
			_, err := matching.NewEngine(matching.WithWeights(matching.Weights{Location: 0.5, Schedule: 0.6}))
			So(errors.Is(err, matching.ErrInvalidWeights), ShouldBeTrue)
		})

		Convey("Negative weights are rejected", func() {
			_, err := matching.NewEngine(matching.WithWeights(matching.Weights{Location: 1.5, Schedule: -0.5}))
			So(errors.Is(err, matching.ErrInvalidWeights), ShouldBeTrue)
		})

		Convey("Valid weights are applied", func() {
			e := newEngine(t, matching.WithWeights(matching.Weights{Location: 1}))
			res, _ := e.CalculateMatch(&model.StudentProfile{}, &model.JobData{})
			So(res.TotalScore, ShouldEqual, 50)
			So(e.Weights().Location, ShouldEqual, 1)
		})

		Convey("The default weights sum to one", func() {
			So(matching.DefaultWeights().Sum(), ShouldAlmostEqual, 1.0, 1e-9)
			So(matching.DefaultWeights().Validate(), ShouldBeNil)
			So(matching.DefaultWeights().String(), ShouldContainSubstring, "location=0.45")
		})
	})

	Convey("Given a custom schedule analyzer", t, func() {
		a := schedule.NewAnalyzer(schedule.WithCommuteTime(0), schedule.WithMinBuffer(0))
		e := newEngine(t, matching.WithScheduleAnalyzer(a))
		So(e.ScheduleAnalyzer(), ShouldEqual, a)

		student := newStudent()
		job := highMatchJob()
		job.Shifts = []model.TimeInterval{model.NewTimeInterval("Monday", "12:05", "15:00")}
		res, _ := e.CalculateMatch(student, job)
		So(res.Breakdown.Schedule, ShouldEqual, 100)
		So(a.CommuteTime(), ShouldEqual, time.Duration(0))
	})
}

func TestCalculateMatchDeterministic(t *testing.T) {
	Convey("Given identical inputs scored concurrently", t, func() {
		e := newEngine(t)
		student := newStudent()
		student.Cities = &model.CityPreference{PrimaryCity: "London", OpenToOtherCities: true}
		job := highMatchJob()
		job.Location.Name = "Reading"

		results := make([]model.MatchResult, 16)
		var wg sync.WaitGroup
		for i := range results {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i], _ = e.CalculateMatch(student, job)
			}(i)
		}
		wg.Wait()

		Convey("Then every result is identical", func() {
			for _, r := range results {
				So(r, ShouldResemble, results[0])
			}
			So(results[0].Breakdown.Location, ShouldEqual, 70)
		})
	})
}
