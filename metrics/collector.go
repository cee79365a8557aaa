package metrics

// Collector wraps metrics and provides helper methods with a pre-filled topic
// label.
type Collector struct {
	topic string
}

// NewCollector creates a new Collector for the given topic.
func NewCollector(topic string) *Collector {
	return &Collector{topic: topic}
}

// IncConsumed increments the messages consumed counter.
func (c *Collector) IncConsumed() {
	MessagesConsumedTotal.WithLabelValues(c.topic).Inc()
}

// IncDecodeFailure increments the decode failures counter.
func (c *Collector) IncDecodeFailure() {
	MessageDecodeFailuresTotal.WithLabelValues(c.topic).Inc()
}

// IncHandlerError increments the handler errors counter.
func (c *Collector) IncHandlerError() {
	HandlerErrorsTotal.WithLabelValues(c.topic).Inc()
}

// IncCommit increments the offset commits counter.
func (c *Collector) IncCommit() {
	OffsetCommitsTotal.WithLabelValues(c.topic).Inc()
}

// ObserveProcessingDuration records a message handling duration observation.
func (c *Collector) ObserveProcessingDuration(seconds float64) {
	MessageProcessingDuration.WithLabelValues(c.topic).Observe(seconds)
}
