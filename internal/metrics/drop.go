package metrics

import "signalflow/logger"

// DropMetric identifies the metric name emitted when a message leaves the
// relay without being delivered.
type DropMetric string

const (
	// DropMetricRawChannel records raw messages dropped on a full raw buffer.
	DropMetricRawChannel DropMetric = "raw_messages_dropped"
	// DropMetricOutboundChannel records normalized messages dropped on a full
	// outbound buffer.
	DropMetricOutboundChannel DropMetric = "outbound_messages_dropped"
	// DropMetricDuplicate records candidates suppressed by the fingerprint or
	// symbol-cooldown gate.
	DropMetricDuplicate DropMetric = "duplicates_suppressed"
	// DropMetricSendFailure records deliveries that failed at the target
	// channel.
	DropMetricSendFailure DropMetric = "send_failures"
)

// EmitDropMetric logs and emits a metric representing one dropped message.
// The metric value is always incremented by one so callers should invoke
// this helper per dropped message. Optional metadata (symbol, stage) is
// attached when provided to enable aggregation per stream.
func EmitDropMetric(log *logger.Log, metric DropMetric, symbol, stage string) {
	fields := logger.Fields{}
	if symbol != "" {
		fields["symbol"] = symbol
	}
	if stage != "" {
		fields["stage"] = stage
	}

	EmitMetric(log, "relay_drops", string(metric), 1, "counter", fields)
}
