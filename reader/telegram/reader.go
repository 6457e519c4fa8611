package telegram

import (
	"context"
	"fmt"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	appconfig "signalflow/config"
	"signalflow/internal/channel"
	"signalflow/internal/metrics"
	"signalflow/logger"
	"signalflow/models"
)

// Reader long-polls the Telegram API and feeds text events from the source
// channel into the raw channel. Everything else (authentication, sessions,
// reconnection) is the bot API client's problem, not the pipeline's.
type Reader struct {
	config   *appconfig.Config
	channels *channel.Channels
	bot      *tgbotapi.BotAPI
	ctx      context.Context
	wg       *sync.WaitGroup
	mu       sync.RWMutex
	running  bool
	log      *logger.Log
}

func NewReader(cfg *appconfig.Config, bot *tgbotapi.BotAPI, channels *channel.Channels) *Reader {
	return &Reader{
		config:   cfg,
		channels: channels,
		bot:      bot,
		wg:       &sync.WaitGroup{},
		log:      logger.GetLogger(),
	}
}

func (r *Reader) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return fmt.Errorf("telegram reader already running")
	}
	r.running = true
	r.ctx = ctx
	r.mu.Unlock()

	log := r.log.WithComponent("telegram_reader")
	log.WithFields(logger.Fields{
		"source_chat_id": r.config.Telegram.SourceChatID,
		"bot_user":       r.bot.Self.UserName,
	}).Info("starting telegram reader")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = r.config.Telegram.UpdateTimeout
	u.AllowedUpdates = []string{"message", "channel_post"}

	updates := r.bot.GetUpdatesChan(u)

	r.wg.Add(1)
	go r.consume(updates)

	return nil
}

func (r *Reader) Stop() {
	r.mu.Lock()
	r.running = false
	r.mu.Unlock()

	r.log.WithComponent("telegram_reader").Info("stopping telegram reader")
	r.bot.StopReceivingUpdates()
	r.wg.Wait()
	r.log.WithComponent("telegram_reader").Info("telegram reader stopped")
}

func (r *Reader) consume(updates tgbotapi.UpdatesChannel) {
	defer r.wg.Done()

	log := r.log.WithComponent("telegram_reader")

	for {
		select {
		case <-r.ctx.Done():
			log.Info("reader stopped due to context cancellation")
			return
		case update, ok := <-updates:
			if !ok {
				log.Info("updates channel closed, reader stopping")
				return
			}
			r.handleUpdate(update)
		}
	}
}

func (r *Reader) handleUpdate(update tgbotapi.Update) {
	msg := update.Message
	if msg == nil {
		msg = update.ChannelPost
	}
	if msg == nil {
		return
	}
	if msg.Chat == nil || msg.Chat.ID != r.config.Telegram.SourceChatID {
		return
	}
	if msg.Text == "" {
		r.log.WithComponent("telegram_reader").WithFields(logger.Fields{
			"message_id": msg.MessageID,
		}).Debug("skipping message without text")
		return
	}

	raw := models.RawMessage{
		ID:         msg.MessageID,
		ChatID:     msg.Chat.ID,
		Text:       msg.Text,
		ReceivedAt: time.Now(),
	}

	if !r.channels.SendRaw(r.ctx, raw) {
		metrics.EmitDropMetric(r.log, metrics.DropMetricRawChannel, "", "reader")
		r.log.WithComponent("telegram_reader").WithFields(logger.Fields{
			"message_id": msg.MessageID,
		}).Warn("raw channel full, message dropped")
	}
}
