package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CommandsRouted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coco_commands_total",
			Help: "Total number of routed commands by intent",
		},
		[]string{"intent"},
	)

	Refusals = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coco_refusals_total",
			Help: "Commands refused by kids mode or profile rules",
		},
		[]string{"reason"},
	)

	ProviderFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coco_provider_failures_total",
			Help: "Failed calls to external providers",
		},
		[]string{"provider"},
	)

	RecognitionFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coco_recognition_failures_total",
			Help: "Utterances that could not be transcribed",
		},
		[]string{"kind"},
	)

	WakeDetections = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "coco_wake_detections_total",
			Help: "Total number of wake phrases heard",
		},
	)

	TasksScheduled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coco_tasks_scheduled_total",
			Help: "Background tasks scheduled by kind",
		},
		[]string{"kind"},
	)

	TasksFired = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coco_tasks_fired_total",
			Help: "Background tasks fired by kind",
		},
		[]string{"kind"},
	)

	TasksPending = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "coco_tasks_pending",
			Help: "Number of background tasks waiting to fire",
		},
	)

	Utterances = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "coco_utterances_spoken_total",
			Help: "Total number of utterances played",
		},
	)

	HandlerLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "coco_handler_duration_seconds",
			Help: "Command handler duration in seconds",
		},
		[]string{"intent"},
	)
)
