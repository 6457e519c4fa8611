package telegram

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"

	appconfig "signalflow/config"
	"signalflow/internal/channel"
	"signalflow/internal/metrics"
	"signalflow/logger"
	"signalflow/models"
)

// Writer delivers normalized messages to the target channel. Sends are rate
// limited so a burst of accepted signals cannot trip the bot API's flood
// control.
type Writer struct {
	config   *appconfig.Config
	channels *channel.Channels
	bot      *tgbotapi.BotAPI
	limiter  *rate.Limiter
	ctx      context.Context
	wg       *sync.WaitGroup
	mu       sync.RWMutex
	running  bool
	log      *logger.Log

	sent       int64
	sendErrors int64
}

func NewWriter(cfg *appconfig.Config, bot *tgbotapi.BotAPI, channels *channel.Channels) *Writer {
	perSecond := cfg.Writer.RateLimit.MessagesPerSecond
	if perSecond <= 0 {
		perSecond = 1
	}
	burst := cfg.Writer.RateLimit.BurstSize
	if burst < 1 {
		burst = 1
	}

	return &Writer{
		config:   cfg,
		channels: channels,
		bot:      bot,
		limiter:  rate.NewLimiter(rate.Limit(perSecond), burst),
		wg:       &sync.WaitGroup{},
		log:      logger.GetLogger(),
	}
}

func (w *Writer) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("telegram writer already running")
	}
	w.running = true
	w.ctx = ctx
	w.mu.Unlock()

	w.log.WithComponent("telegram_writer").WithFields(logger.Fields{
		"target_chat_id": w.config.Telegram.TargetChatID,
	}).Info("starting telegram writer")

	w.wg.Add(1)
	go w.consume()

	return nil
}

func (w *Writer) Stop() {
	w.mu.Lock()
	w.running = false
	w.mu.Unlock()

	w.log.WithComponent("telegram_writer").Info("stopping telegram writer")
	w.wg.Wait()
	w.log.WithComponent("telegram_writer").Info("telegram writer stopped")
}

// Stats reports delivered and failed send counts.
func (w *Writer) Stats() (sent, sendErrors int64) {
	return atomic.LoadInt64(&w.sent), atomic.LoadInt64(&w.sendErrors)
}

func (w *Writer) consume() {
	defer w.wg.Done()

	log := w.log.WithComponent("telegram_writer")

	for {
		select {
		case <-w.ctx.Done():
			log.Info("writer stopped due to context cancellation")
			return
		case outbound, ok := <-w.channels.Outbound:
			if !ok {
				log.Info("outbound channel closed, writer stopping")
				return
			}
			w.deliver(outbound)
		}
	}
}

func (w *Writer) deliver(outbound models.OutboundMessage) {
	log := w.log.WithComponent("telegram_writer").WithFields(logger.Fields{
		"delivery_id": outbound.DeliveryID,
		"source_id":   outbound.SourceID,
	})

	if err := w.limiter.Wait(w.ctx); err != nil {
		// Context cancelled while waiting for a send slot.
		return
	}

	msg := tgbotapi.NewMessage(w.config.Telegram.TargetChatID, outbound.Text)
	if _, err := w.bot.Send(msg); err != nil {
		atomic.AddInt64(&w.sendErrors, 1)
		logger.IncrementSendError()
		metrics.EmitDropMetric(w.log, metrics.DropMetricSendFailure, "", "writer")
		log.WithError(err).Error("failed to deliver message to target channel")
		return
	}

	atomic.AddInt64(&w.sent, 1)
	logger.RecordChannelMessage("target_send", len(outbound.Text))
	log.WithFields(logger.Fields{"bytes": len(outbound.Text)}).Info("message delivered")
}
