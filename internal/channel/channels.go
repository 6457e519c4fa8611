package channel

import (
	"context"
	"sync"
	"time"

	"signalflow/internal/metrics"
	"signalflow/logger"
	"signalflow/models"
)

type ChannelStats struct {
	RawSent         int64
	OutboundSent    int64
	RawDropped      int64
	OutboundDropped int64
}

// Channels owns the buffered hand-off points between the reader, the
// pipeline and the writer.
type Channels struct {
	Raw      chan models.RawMessage
	Outbound chan models.OutboundMessage

	stats      ChannelStats
	statsMutex sync.RWMutex
	log        *logger.Log
}

func NewChannels(rawBufferSize, outboundBufferSize int) *Channels {
	log := logger.GetLogger()
	c := &Channels{
		Raw:      make(chan models.RawMessage, rawBufferSize),
		Outbound: make(chan models.OutboundMessage, outboundBufferSize),
		log:      log,
	}

	log.WithComponent("channels").WithFields(logger.Fields{
		"raw_buffer_size":      rawBufferSize,
		"outbound_buffer_size": outboundBufferSize,
	}).Info("relay channels initialized")

	return c
}

func (c *Channels) Close() {
	close(c.Raw)
	close(c.Outbound)
	c.log.WithComponent("channels").Info("relay channels closed")
}

// SendRaw offers a raw message to the pipeline without blocking. A full
// buffer drops the message and records the drop.
func (c *Channels) SendRaw(ctx context.Context, msg models.RawMessage) bool {
	select {
	case c.Raw <- msg:
		c.incrementRawSent()
		return true
	case <-ctx.Done():
		return false
	default:
		c.incrementRawDropped()
		return false
	}
}

// SendOutbound offers a normalized message to the writer without blocking.
func (c *Channels) SendOutbound(ctx context.Context, msg models.OutboundMessage) bool {
	select {
	case c.Outbound <- msg:
		c.incrementOutboundSent()
		return true
	case <-ctx.Done():
		return false
	default:
		c.incrementOutboundDropped()
		return false
	}
}

func (c *Channels) incrementRawSent() {
	c.statsMutex.Lock()
	c.stats.RawSent++
	c.statsMutex.Unlock()
}

func (c *Channels) incrementOutboundSent() {
	c.statsMutex.Lock()
	c.stats.OutboundSent++
	c.statsMutex.Unlock()
}

func (c *Channels) incrementRawDropped() {
	c.statsMutex.Lock()
	c.stats.RawDropped++
	c.statsMutex.Unlock()
}

func (c *Channels) incrementOutboundDropped() {
	c.statsMutex.Lock()
	c.stats.OutboundDropped++
	c.statsMutex.Unlock()
}

func (c *Channels) GetStats() ChannelStats {
	c.statsMutex.RLock()
	defer c.statsMutex.RUnlock()
	return c.stats
}

// StartMetricsReporting periodically emits the channel backlog sizes so a
// slow writer shows up before messages start dropping.
func (c *Channels) StartMetricsReporting(ctx context.Context) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			metrics.EmitMetric(c.log, "channels", "raw_channel_size", len(c.Raw), "gauge", nil)
			metrics.EmitMetric(c.log, "channels", "outbound_channel_size", len(c.Outbound), "gauge", nil)
		}
	}
}
