package cleanup

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// StreamCleaner periodically caps an event stream at a maximum length so
// consumed registrations do not accumulate in redis forever.
type StreamCleaner struct {
	client   redis.Cmdable
	stream   string
	maxLen   int64
	interval time.Duration
	logger   *zap.Logger
}

func NewStreamCleaner(client redis.Cmdable, stream string, maxLen int64, interval time.Duration, logger *zap.Logger) *StreamCleaner {
	return &StreamCleaner{
		client:   client,
		stream:   stream,
		maxLen:   maxLen,
		interval: interval,
		logger:   logger.With(zap.String("component", "stream_cleaner"), zap.String("stream", stream)),
	}
}

// Run trims once immediately and then on every tick until ctx is cancelled.
func (s *StreamCleaner) Run(ctx context.Context) error {
	s.logger.Info("stream cleanup started", zap.Duration("interval", s.interval), zap.Int64("max_len", s.maxLen))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.trim(ctx)
	for {
		select {
		case <-ticker.C:
			s.trim(ctx)
		case <-ctx.Done():
			s.logger.Info("stream cleanup stopped")
			return nil
		}
	}
}

func (s *StreamCleaner) trim(ctx context.Context) {
	removed, err := s.Trim(ctx)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Warn("stream trim failed", zap.Error(err))
		}
		return
	}
	if removed > 0 {
		s.logger.Info("trimmed stream entries", zap.Int64("removed", removed))
	}
}

// Trim drops the oldest entries beyond maxLen and reports how many were removed.
func (s *StreamCleaner) Trim(ctx context.Context) (int64, error) {
	return s.client.XTrimMaxLen(ctx, s.stream, s.maxLen).Result()
}
