package logger

import (
	"context"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

type channelStat struct {
	messages int64
	bytes    int64
}

var (
	errorsReader   int64
	errorsWriter   int64
	warnsReader    int64
	warnsWriter    int64
	sourceReads    int64
	forwardedSends int64
	suppressed     int64
	sendErrors     int64
	channels       sync.Map // map[string]*channelStat
)

func recordWarn(component string) {
	if strings.Contains(component, "reader") {
		atomic.AddInt64(&warnsReader, 1)
	} else if strings.Contains(component, "writer") {
		atomic.AddInt64(&warnsWriter, 1)
	}
}

func recordError(component string) {
	if strings.Contains(component, "reader") {
		atomic.AddInt64(&errorsReader, 1)
	} else if strings.Contains(component, "writer") {
		atomic.AddInt64(&errorsWriter, 1)
	}
}

// IncrementSourceRead records one message read from the source channel.
func IncrementSourceRead(size int) {
	atomic.AddInt64(&sourceReads, 1)
	recordChannel("source_read", size)
}

// IncrementForwarded records one normalized message handed to the writer.
func IncrementForwarded(size int) {
	atomic.AddInt64(&forwardedSends, 1)
	recordChannel("forwarded", size)
}

// IncrementSuppressed records one candidate dropped by the duplicate gate.
func IncrementSuppressed() {
	atomic.AddInt64(&suppressed, 1)
}

// IncrementSendError records one failed delivery to the target channel.
func IncrementSendError() {
	atomic.AddInt64(&sendErrors, 1)
}

// RecordChannelMessage tracks message and byte counts for a named channel.
func RecordChannelMessage(name string, size int) {
	recordChannel(name, size)
}

func recordChannel(name string, size int) {
	v, _ := channels.LoadOrStore(name, &channelStat{})
	cs := v.(*channelStat)
	atomic.AddInt64(&cs.messages, 1)
	atomic.AddInt64(&cs.bytes, int64(size))
}

func startReport(ctx context.Context, log *Log, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		for {
			select {
			case <-ctx.Done():
				ticker.Stop()
				return
			case <-ticker.C:
				logReport(log)
			}
		}
	}()
}

// StartReport begins periodic logging of system and relay statistics.
func StartReport(ctx context.Context, log *Log, interval time.Duration) {
	startReport(ctx, log, interval)
}

func logReport(log *Log) {
	cpuPercent, _ := cpu.Percent(0, false)
	memStats, _ := mem.VirtualMemory()

	channelData := map[string]map[string]int64{}
	channels.Range(func(k, v any) bool {
		name := k.(string)
		cs := v.(*channelStat)
		channelData[name] = map[string]int64{
			"messages": atomic.LoadInt64(&cs.messages),
			"bytes":    atomic.LoadInt64(&cs.bytes),
		}
		return true
	})

	cpuPct := 0.0
	if len(cpuPercent) > 0 {
		cpuPct = cpuPercent[0]
	}

	memoryMB := int64(0)
	if memStats != nil {
		memoryMB = int64(memStats.Used) / 1024 / 1024
	}

	log.WithComponent("report").WithFields(Fields{
		"errors_reader": atomic.LoadInt64(&errorsReader),
		"errors_writer": atomic.LoadInt64(&errorsWriter),
		"warns_reader":  atomic.LoadInt64(&warnsReader),
		"warns_writer":  atomic.LoadInt64(&warnsWriter),
		"source_reads":  atomic.LoadInt64(&sourceReads),
		"forwarded":     atomic.LoadInt64(&forwardedSends),
		"suppressed":    atomic.LoadInt64(&suppressed),
		"send_errors":   atomic.LoadInt64(&sendErrors),
		"goroutines":    runtime.NumGoroutine(),
		"cpu_percent":   cpuPct,
		"memory_mb":     memoryMB,
		"channels":      channelData,
	}).Info("runtime report")
}
