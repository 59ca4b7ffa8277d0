// Package messaging publishes events to a message broker without tying callers
// to one. NATS, Kafka, NSQ and Google Pub/Sub are supported; the driver is
// picked at startup by name.
package messaging
