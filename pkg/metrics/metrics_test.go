package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given a private registry", t, func() {
		registry := prometheus.NewRegistry()

		Convey("When creating a manager with custom options", func() {
			m := NewManager(
				WithNamespace("test"),
				WithSubsystem("unit"),
				WithHistogramBuckets([]float64{1, 5, 10}),
				WithMetricsEnabled(false),
				WithPrometheusRegistry(registry),
			)

			Convey("Then its collectors use the namespace and subsystem", func() {
				So(m.enabled.Load(), ShouldBeFalse)
				m.matchesComputed.Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				names := make([]string, 0, len(families))
				for _, f := range families {
					names = append(names, f.GetName())
				}
				So(names, ShouldContain, "test_unit_matches_computed_total")
			})
		})

		Convey("When registering the same names twice", func() {
			NewManager(WithPrometheusRegistry(registry))

			Convey("Then promauto panics", func() {
				So(func() { NewManager(WithPrometheusRegistry(registry)) }, ShouldPanic)
			})
		})
	})
}

func TestGlobalRecording(t *testing.T) {
	m := globalManager.Load()

	Convey("Given the global manager", t, func() {
		SetEnabled(true)

		Convey("When a match is recorded", func() {
			before := testutil.ToFloat64(m.matchesComputed)
			beforeLoc := testutil.ToFloat64(m.dealbreakers.WithLabelValues("location"))
			RecordMatch(42.5, 0.3, "", "Perfect Fit", []string{"location"})

			So(testutil.ToFloat64(m.matchesComputed), ShouldEqual, before+1)
			So(testutil.ToFloat64(m.dealbreakers.WithLabelValues("location")), ShouldEqual, beforeLoc+1)
			So(testutil.ToFloat64(m.locationTiers.WithLabelValues("distance")), ShouldBeGreaterThanOrEqualTo, 1)
		})

		Convey("When gauges are updated", func() {
			UpdateQueueSize(7)
			UpdateQueueCapacity(100)
			UpdateWorkerCount(4)
			UpdateStoreRecords(12)
			So(testutil.ToFloat64(m.queueSize), ShouldEqual, 7)
			So(testutil.ToFloat64(m.queueCapacity), ShouldEqual, 100)
			So(testutil.ToFloat64(m.workerCount), ShouldEqual, 4)
			So(testutil.ToFloat64(m.storeRecords), ShouldEqual, 12)
		})

		Convey("When a store operation fails", func() {
			before := testutil.ToFloat64(m.storeErrors.WithLabelValues("memory", "upsert"))
			RecordStoreOperation("memory", "upsert", 0.1, errors.New("boom"))
			RecordStoreOperation("memory", "upsert", 0.1, nil)
			So(testutil.ToFloat64(m.storeErrors.WithLabelValues("memory", "upsert")), ShouldEqual, before+1)
		})

		Convey("When recording is disabled", func() {
			SetEnabled(false)
			defer SetEnabled(true)

			before := testutil.ToFloat64(m.workerErrors)
			RecordWorkerError()
			So(testutil.ToFloat64(m.workerErrors), ShouldEqual, before)
		})

		Convey("Then the package registry serves the collectors", func() {
			RecordHTTPRequest("/healthz", "GET", "200")
			RecordHTTPRequestDuration("/healthz", "GET", "200", 1.5)
			RecordRecomputeSubmitted("accepted", 3)
			RecordSourceJobs("reed", 2)
			RecordSourceError("reed")
			So(testutil.CollectAndCount(GetRegistry(), "unihustle_matching_http_requests_total"), ShouldBeGreaterThanOrEqualTo, 1)
		})
	})
}
