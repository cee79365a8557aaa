// Package processor contains the domain types and event contract for the
// marathon-match ratings processor.
//
// The processor reacts to challenge lifecycle events delivered over Kafka and
// drives the multi-stage rating pipeline for marathon-match challenges:
// reconciling submission records against legacy attendance rows, then
// triggering rating calculation, coder load, and rating load on the external
// rating service.
//
// The processor is stateless between messages. The pipeline stage is always
// re-derived from the content of the inbound event, never from locally stored
// state, so redelivered or interleaved messages are safe to process on any
// instance.
package processor
