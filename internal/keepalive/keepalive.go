// Package keepalive periodically requests the service's own health endpoint
// so that free hosting tiers do not idle the instance out.
package keepalive

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"signalflow/config"
	"signalflow/logger"
)

type Pinger struct {
	url      string
	interval time.Duration
	client   *http.Client
	log      *logger.Log
}

// New constructs a keep-alive pinger. It returns nil when the feature is
// disabled or no target URL is configured.
func New(cfg config.KeepAliveConfig, log *logger.Log) *Pinger {
	if !cfg.Enabled || cfg.URL == "" {
		return nil
	}

	return &Pinger{
		url:      cfg.URL,
		interval: cfg.Interval,
		client:   &http.Client{Timeout: 10 * time.Second},
		log:      log,
	}
}

// Run pings the configured URL on every tick until the context is cancelled.
func (p *Pinger) Run(ctx context.Context) {
	if p == nil {
		return
	}

	entry := p.log.WithComponent("keepalive").WithFields(logger.Fields{
		"url":      p.url,
		"interval": p.interval.String(),
	})
	entry.Info("keep-alive pinger started")

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			entry.Info("keep-alive pinger stopped")
			return
		case <-ticker.C:
			if err := p.ping(ctx); err != nil {
				entry.WithError(err).Warn("keep-alive ping failed")
			} else {
				entry.Debug("keep-alive ping ok")
			}
		}
	}
}

func (p *Pinger) ping(ctx context.Context) error {
	reqCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, p.url, nil)
	if err != nil {
		return fmt.Errorf("build keep-alive request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("keep-alive request: %w", err)
	}
	defer resp.Body.Close()

	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected keep-alive status %d", resp.StatusCode)
	}
	return nil
}
