package metrics

import (
	"sync"
	"time"

	"signalflow/logger"
)

// Metric is one structured metric event raised somewhere in the relay.
type Metric struct {
	Timestamp time.Time
	Component string
	Name      string
	Value     interface{}
	Type      string
	Fields    logger.Fields
}

// MetricHandler receives every emitted metric, e.g. to retain recent events
// for the status dashboard.
type MetricHandler func(Metric)

// MetricHandlerID identifies a registered handler for later removal.
type MetricHandlerID uint64

var (
	handlersMu    sync.RWMutex
	handlers      = make(map[MetricHandlerID]MetricHandler)
	nextHandlerID MetricHandlerID
)

// RegisterMetricHandler subscribes a handler to all future metric events and
// returns its identifier. Registering a nil handler is a no-op and yields
// the zero identifier.
func RegisterMetricHandler(handler MetricHandler) MetricHandlerID {
	if handler == nil {
		return 0
	}

	handlersMu.Lock()
	defer handlersMu.Unlock()

	nextHandlerID++
	handlers[nextHandlerID] = handler
	return nextHandlerID
}

// UnregisterMetricHandler drops the handler registered under id.
func UnregisterMetricHandler(id MetricHandlerID) {
	if id == 0 {
		return
	}

	handlersMu.Lock()
	delete(handlers, id)
	handlersMu.Unlock()
}

// recordMetric logs the metric event and fans it out to the registered
// handlers. Emitted fields are copied so the caller's map is never touched.
func recordMetric(log *logger.Log, component, name string, value interface{}, metricType string, fields logger.Fields) (Metric, bool) {
	if name == "" {
		return Metric{}, false
	}
	if metricType == "" {
		metricType = "counter"
	}
	if log == nil {
		log = logger.GetLogger()
	}

	copied := make(logger.Fields, len(fields))
	for k, v := range fields {
		copied[k] = v
	}

	logFields := make(logger.Fields, len(copied)+3)
	for k, v := range copied {
		logFields[k] = v
	}
	logFields["metric"] = name
	logFields["metric_type"] = metricType
	logFields["value"] = value

	log.WithComponent(component).WithFields(logFields).Info("metric")

	metric := Metric{
		Timestamp: time.Now(),
		Component: component,
		Name:      name,
		Value:     value,
		Type:      metricType,
		Fields:    copied,
	}

	dispatchMetric(metric)
	return metric, true
}

func dispatchMetric(metric Metric) {
	handlersMu.RLock()
	subscribed := make([]MetricHandler, 0, len(handlers))
	for _, handler := range handlers {
		subscribed = append(subscribed, handler)
	}
	handlersMu.RUnlock()

	for _, handler := range subscribed {
		handler(metric)
	}
}
