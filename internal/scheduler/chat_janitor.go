package scheduler

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/chronos/internal/index"
	"github.com/MrSnakeDoc/chronos/internal/logger"
)

const (
	// DefaultChatIdleTTL is how long a chat session may sit unused
	DefaultChatIdleTTL = 2 * time.Hour
	// DefaultChatSweepInterval is the pause between sweeps
	DefaultChatSweepInterval = 10 * time.Minute
)

// ChatJanitor evicts chat sessions nobody has used for a while
type ChatJanitor struct {
	chats    *index.ChatRegistry
	logger   logger.Logger
	interval time.Duration
	ttl      time.Duration
	stopCh   chan struct{}
}

// NewChatJanitor creates a janitor. Zero durations fall back to the defaults.
func NewChatJanitor(
	chats *index.ChatRegistry,
	log logger.Logger,
	interval time.Duration,
	ttl time.Duration,
) *ChatJanitor {
	if interval <= 0 {
		interval = DefaultChatSweepInterval
	}
	if ttl <= 0 {
		ttl = DefaultChatIdleTTL
	}

	return &ChatJanitor{
		chats:    chats,
		logger:   log,
		interval: interval,
		ttl:      ttl,
		stopCh:   make(chan struct{}),
	}
}

// Start runs a sweep on every tick until stopped
func (j *ChatJanitor) Start(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				j.Sweep()
			case <-j.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops the janitor
func (j *ChatJanitor) Stop() {
	close(j.stopCh)
}

// Sweep evicts idle sessions and returns how many were removed
func (j *ChatJanitor) Sweep() int {
	evicted := j.chats.EvictIdle(j.ttl)
	if len(evicted) == 0 {
		j.logger.Debug("no idle chat sessions to evict")
		return 0
	}

	j.logger.Info("evicted idle chat sessions",
		logger.Int("count", len(evicted)),
		logger.Int("remaining", j.chats.Count()),
		logger.Duration("idle_ttl", j.ttl))

	return len(evicted)
}
