package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MessagesConsumedTotal tracks the total number of Kafka messages consumed.
var MessagesConsumedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "ratings_processor_messages_consumed_total",
		Help: "Total Kafka messages consumed",
	},
	[]string{"topic"},
)

// MessageDecodeFailuresTotal tracks the total number of messages that failed to decode.
var MessageDecodeFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "ratings_processor_message_decode_failures_total",
		Help: "Total messages skipped because the payload failed to decode",
	},
	[]string{"topic"},
)

// HandlerErrorsTotal tracks the total number of handler errors.
var HandlerErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "ratings_processor_handler_errors_total",
		Help: "Total handler errors",
	},
	[]string{"topic"},
)

// OffsetCommitsTotal tracks the total number of offset commits.
var OffsetCommitsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "ratings_processor_offset_commits_total",
		Help: "Total offset commits",
	},
	[]string{"topic"},
)

// StageTriggersTotal tracks the total number of pipeline stage triggers.
var StageTriggersTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "ratings_processor_stage_triggers_total",
		Help: "Total pipeline stage triggers",
	},
	[]string{"stage"},
)

// AttendanceUpdatesTotal tracks the total number of attendance rows flipped to "Y".
var AttendanceUpdatesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "ratings_processor_attendance_updates_total",
		Help: "Total attendance rows flipped to attended",
	},
)

// SubmissionPagesFetchedTotal tracks the total number of submission pages fetched.
var SubmissionPagesFetchedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "ratings_processor_submission_pages_fetched_total",
		Help: "Total submission listing pages fetched",
	},
)

// MessageProcessingDuration tracks message handling latency.
var MessageProcessingDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "ratings_processor_message_processing_duration_seconds",
		Help:    "Message handling latency",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"topic"},
)
