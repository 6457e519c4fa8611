package processor

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	appconfig "signalflow/config"
	"signalflow/internal/channel"
	"signalflow/internal/metrics"
	"signalflow/logger"
	"signalflow/models"
)

// PipelineStats is a snapshot of the pipeline's message counters.
type PipelineStats struct {
	MessagesSeen int64
	Forwarded    int64
	Suppressed   int64
	Irrelevant   int64
}

// Pipeline drives each raw message through classification, formatting and
// the duplicate gate, and hands accepted candidates to the writer. It is the
// sole owner of the deduplication cache; no other component touches it.
type Pipeline struct {
	config   *appconfig.Config
	channels *channel.Channels
	cache    *DedupCache
	ctx      context.Context
	wg       *sync.WaitGroup
	mu       sync.RWMutex
	running  bool
	log      *logger.Log

	messagesSeen int64
	forwarded    int64
	suppressed   int64
	irrelevant   int64
}

func NewPipeline(cfg *appconfig.Config, channels *channel.Channels) *Pipeline {
	return &Pipeline{
		config:   cfg,
		channels: channels,
		cache:    NewDedupCache(cfg.Pipeline.RetentionWindow, cfg.Pipeline.SymbolCooldown),
		wg:       &sync.WaitGroup{},
		log:      logger.GetLogger(),
	}
}

func (p *Pipeline) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return fmt.Errorf("pipeline already running")
	}
	p.running = true
	p.ctx = ctx
	p.mu.Unlock()

	log := p.log.WithComponent("pipeline").WithFields(logger.Fields{"operation": "start"})

	numWorkers := p.config.Pipeline.MaxWorkers
	if numWorkers < 1 {
		numWorkers = 1
	}

	log.WithFields(logger.Fields{"workers": numWorkers}).Info("starting pipeline workers")

	for i := 0; i < numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	log.Info("pipeline started successfully")
	return nil
}

func (p *Pipeline) Stop() {
	p.mu.Lock()
	p.running = false
	p.mu.Unlock()

	p.log.WithComponent("pipeline").Info("stopping pipeline")
	p.wg.Wait()
	p.log.WithComponent("pipeline").Info("pipeline stopped")
}

func (p *Pipeline) worker(workerID int) {
	defer p.wg.Done()

	log := p.log.WithComponent("pipeline").WithFields(logger.Fields{
		"worker_id": workerID,
		"worker":    "pipeline",
	})

	log.Info("starting pipeline worker")

	for {
		select {
		case <-p.ctx.Done():
			log.Info("worker stopped due to context cancellation")
			return
		case rawMsg, ok := <-p.channels.Raw:
			if !ok {
				log.Info("raw channel closed, worker stopping")
				return
			}

			start := time.Now()
			p.handleMessage(rawMsg)
			duration := time.Since(start)

			logger.LogPerformanceEntry(log, "pipeline", "process_message", duration, logger.Fields{
				"worker_id":  workerID,
				"message_id": rawMsg.ID,
			})
		}
	}
}

func (p *Pipeline) handleMessage(rawMsg models.RawMessage) {
	logger.IncrementSourceRead(len(rawMsg.Text))

	out, ok := p.Process(rawMsg.Text, rawMsg.ReceivedAt)
	if !ok {
		return
	}

	outbound := models.OutboundMessage{
		DeliveryID: uuid.New().String(),
		SourceID:   rawMsg.ID,
		Text:       out,
		QueuedAt:   time.Now(),
	}

	if !p.channels.SendOutbound(p.ctx, outbound) {
		metrics.EmitDropMetric(p.log, metrics.DropMetricOutboundChannel, "", "pipeline")
		p.log.WithComponent("pipeline").WithFields(logger.Fields{
			"message_id": rawMsg.ID,
		}).Warn("outbound channel full, message dropped")
		return
	}

	logger.IncrementForwarded(len(out))
	p.log.WithComponent("pipeline").WithFields(logger.Fields{
		"message_id":  rawMsg.ID,
		"delivery_id": outbound.DeliveryID,
	}).Info("message accepted for delivery")
}

// Process runs one message through classification, formatting and the
// duplicate gate. The returned flag is false when nothing should be
// delivered downstream; that covers irrelevant text, malformed signals and
// suppressed duplicates alike. Calling Process twice with identical text
// inside the retention window always suppresses the second call.
func (p *Pipeline) Process(text string, at time.Time) (string, bool) {
	atomic.AddInt64(&p.messagesSeen, 1)

	classification := Classify(text)
	out, ok := Render(classification)
	if !ok {
		atomic.AddInt64(&p.irrelevant, 1)
		return "", false
	}

	symbol := classificationSymbol(classification)
	if !p.cache.Admit(text, symbol, at) {
		atomic.AddInt64(&p.suppressed, 1)
		logger.IncrementSuppressed()
		metrics.EmitDropMetric(p.log, metrics.DropMetricDuplicate, symbol, "dedup")
		return "", false
	}

	atomic.AddInt64(&p.forwarded, 1)
	return out, true
}

// Stats returns a snapshot of the pipeline counters.
func (p *Pipeline) Stats() PipelineStats {
	return PipelineStats{
		MessagesSeen: atomic.LoadInt64(&p.messagesSeen),
		Forwarded:    atomic.LoadInt64(&p.forwarded),
		Suppressed:   atomic.LoadInt64(&p.suppressed),
		Irrelevant:   atomic.LoadInt64(&p.irrelevant),
	}
}

// CacheSize reports the dedup cache entry counts, for the status page.
func (p *Pipeline) CacheSize() (fingerprints, symbols int) {
	return p.cache.Size()
}

func classificationSymbol(c models.Classification) string {
	switch c.Kind {
	case models.ClassCancellation:
		return c.Symbol
	case models.ClassOpenSignal:
		if c.Signal != nil {
			return c.Signal.Symbol
		}
	}
	return ""
}
