package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"alacify/internal/services"
	"alacify/internal/task"
	"alacify/internal/workflow"
)

// Recorder collects run metrics into a private registry.
type Recorder struct {
	workflow.NopObserver

	Registry *prometheus.Registry

	TasksTotal       *prometheus.CounterVec
	FailuresTotal    *prometheus.CounterVec
	TaskDuration     *prometheus.HistogramVec
	TasksInFlight    prometheus.Gauge
	RunsTotal        prometheus.Counter
	LastRunTimestamp prometheus.Gauge
	LastRunDuration  prometheus.Gauge
	LastRunFailed    prometheus.Gauge

	running map[int]struct{}
}

// NewRecorder registers the collectors on a fresh registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Recorder{
		running:  make(map[int]struct{}),
		Registry: reg,
		TasksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "alacify_tasks_total",
				Help: "Total number of finished conversion tasks",
			},
			[]string{"outcome"},
		),
		FailuresTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "alacify_task_failures_total",
				Help: "Total number of failed conversion tasks by error kind",
			},
			[]string{"kind"},
		),
		TaskDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "alacify_task_duration_seconds",
				Help:    "Conversion task duration in seconds",
				Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
			},
			[]string{"outcome"},
		),
		TasksInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "alacify_tasks_in_flight",
				Help: "Number of conversion tasks currently running",
			},
		),
		RunsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "alacify_runs_total",
				Help: "Total number of completed conversion runs",
			},
		),
		LastRunTimestamp: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "alacify_last_run_timestamp_seconds",
				Help: "Unix time the last run finished",
			},
		),
		LastRunDuration: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "alacify_last_run_duration_seconds",
				Help: "Duration of the last run in seconds",
			},
		),
		LastRunFailed: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "alacify_last_run_failed_tasks",
				Help: "Number of failed tasks in the last run",
			},
		),
	}
}

// TaskStarted implements workflow.Observer.
func (r *Recorder) TaskStarted(index int, _ task.Task) {
	r.running[index] = struct{}{}
	r.TasksInFlight.Inc()
}

// TaskFinished implements workflow.Observer. Tasks canceled before they
// started never entered the in-flight gauge.
func (r *Recorder) TaskFinished(index int, result task.Result) {
	if _, ok := r.running[index]; ok {
		delete(r.running, index)
		r.TasksInFlight.Dec()
	}
	outcome := string(result.Outcome)
	r.TasksTotal.WithLabelValues(outcome).Inc()
	r.TaskDuration.WithLabelValues(outcome).Observe(result.Duration.Seconds())
	if result.Failed() {
		r.FailuresTotal.WithLabelValues(services.Kind(result.Err)).Inc()
	}
}

// RunFinished implements workflow.Observer.
func (r *Recorder) RunFinished(summary workflow.Summary) {
	r.RunsTotal.Inc()
	r.LastRunTimestamp.SetToCurrentTime()
	r.LastRunDuration.Set(summary.Elapsed.Seconds())
	r.LastRunFailed.Set(float64(len(summary.Failed)))
	r.running = make(map[int]struct{})
	r.TasksInFlight.Set(0)
}

// WriteTextfile atomically writes the registry in text exposition format.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.Registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
