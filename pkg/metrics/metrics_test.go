package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	. "github.com/smartystreets/goconvey/convey"
)

// value reads the current sample of a counter or gauge.
func value(c prometheus.Metric) float64 {
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		return -1
	}
	if m.Counter != nil {
		return m.Counter.GetValue()
	}
	if m.Gauge != nil {
		return m.Gauge.GetValue()
	}
	return -1
}

func countFamily(g prometheus.Gatherer, name string) int {
	families, err := g.Gather()
	if err != nil {
		return -1
	}
	for _, f := range families {
		if f.GetName() == name {
			return len(f.GetMetric())
		}
	}
	return 0
}

func TestManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with a private registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then collectors are registered under the default namespace", func() {
				So(manager, ShouldNotBeNil)
				manager.sessionsStarted.Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				found := false
				for _, f := range families {
					if f.GetName() == "skillfolio_engine_sessions_started_total" {
						found = true
					}
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("unit"),
				WithMetricPrefix("pfx"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then names carry namespace, subsystem and prefix", func() {
				manager.sessionsEnded.Inc()
				So(countFamily(registry, "test_unit_pfx_sessions_ended_total"), ShouldEqual, 1)
			})
		})

		Convey("When options receive empty values", func() {
			m := &Manager{namespace: "a", subsystem: "b"}
			WithNamespace("")(m)
			WithSubsystem("")(m)
			WithHistogramBuckets(nil)(m)
			WithPrometheusRegistry(nil)(m)

			Convey("Then the previous values are kept", func() {
				So(m.namespace, ShouldEqual, "a")
				So(m.subsystem, ShouldEqual, "b")
				So(m.histogramBuckets, ShouldBeNil)
				So(m.registry, ShouldBeNil)
			})
		})
	})
}

func TestGlobalRecorders(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When recording domain events", func() {
			before := value(globalManager.aiRegenerations.WithLabelValues("hard"))
			RecordAIRegeneration("hard")
			RecordAIRegeneration("hard")

			Convey("Then the counters move", func() {
				So(value(globalManager.aiRegenerations.WithLabelValues("hard")), ShouldEqual, before+2)
			})
		})

		Convey("When recording zero generations", func() {
			before := value(globalManager.evaluatorGenerations.WithLabelValues("teacher"))
			RecordEvaluatorGeneration("teacher", 0)
			RecordEvaluatorGeneration("teacher", 3)

			Convey("Then only positive counts are added", func() {
				So(value(globalManager.evaluatorGenerations.WithLabelValues("teacher")), ShouldEqual, before+3)
			})
		})

		Convey("When updating gauges", func() {
			UpdateSelectedSkills("soft", 4)
			UpdateQueueSize(7)
			UpdateWorkerCount(2)

			Convey("Then the gauges hold the last value", func() {
				So(value(globalManager.selectedSkills.WithLabelValues("soft")), ShouldEqual, 4)
				So(value(globalManager.queueSize), ShouldEqual, 7)
				So(value(globalManager.workerCount), ShouldEqual, 2)
			})
		})

		Convey("When recording everything else", func() {
			So(func() {
				RecordSessionStarted()
				RecordSessionEnded()
				RecordSkillCreated("hard")
				RecordSkillDeleted("hard", "available")
				RecordSkillMove("soft", "select")
				RecordStudentInputRejected()
				RecordEvidenceSubmitted("hard")
				RecordEvidenceDuplicate()
				RecordEvidenceCleared("soft")
				RecordEditSession("committed")
				RecordDomainError("not_found")
				RecordHTTPRequest("skills", "GET", "200")
				RecordHTTPRequestDuration("skills", "GET", "200", 1.5)
				RecordErrorByEndpoint("skills", "GET", "not_found")
				RecordErrorByType("not_found", "medium")
				UpdateQueueCapacity(10)
				RecordQueueEnqueue()
				RecordQueueDequeue()
				RecordQueueEnqueueError("full")
				RecordWorkerProcessed()
				RecordWorkerError()
				RecordWorkerProcessingLatency(2)
				UpdateSystemMemoryUsage(1024)
				UpdateSystemGoroutineCount(12)
				RecordSystemGCPauseTime(0.3)
			}, ShouldNotPanic)
		})
	})
}

func TestRegistryExposition(t *testing.T) {
	Convey("Given the exported registry", t, func() {
		RecordSessionStarted()

		Convey("Then it gathers skillfolio metrics", func() {
			families, err := GetRegistry().Gather()
			So(err, ShouldBeNil)
			names := make([]string, 0, len(families))
			for _, f := range families {
				names = append(names, f.GetName())
			}
			So(strings.Join(names, ","), ShouldContainSubstring, "skillfolio_engine_sessions_active")
		})
	})
}
