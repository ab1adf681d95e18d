package messaging

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// HandlerFunc processes one decoded registration event.
type HandlerFunc func(ctx context.Context, evt VehicleRegistered) error

type ConsumerConfig struct {
	Stream string
	Group  string
	Name   string
	// Block bounds each XREADGROUP call so the loop notices cancellation.
	Block     time.Duration
	BatchSize int64
}

// Consumer reads registration events through a redis consumer group. Entries
// are acknowledged as soon as they are received, before decoding, so a bad
// payload is never redelivered.
type Consumer struct {
	client     redis.Cmdable
	cfg        ConsumerConfig
	logger     *zap.Logger
	subscribed bool
}

func NewConsumer(client redis.Cmdable, cfg ConsumerConfig, logger *zap.Logger) *Consumer {
	if cfg.Stream == "" {
		cfg.Stream = VehicleRegisteredType
	}
	if cfg.Block <= 0 {
		cfg.Block = 2 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 10
	}
	return &Consumer{
		client: client,
		cfg:    cfg,
		logger: logger.With(zap.String("component", "event_consumer"), zap.String("stream", cfg.Stream)),
	}
}

// Subscribe verifies the connection and makes sure the stream and consumer
// group exist. Any failure is reported as ErrTransportUnavailable.
func (c *Consumer) Subscribe(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: ping: %v", ErrTransportUnavailable, err)
	}

	err := c.client.XGroupCreateMkStream(ctx, c.cfg.Stream, c.cfg.Group, "$").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("%w: creating group %s: %v", ErrTransportUnavailable, c.cfg.Group, err)
	}

	c.subscribed = true
	c.logger.Info("subscribed to event stream", zap.String("group", c.cfg.Group), zap.String("consumer", c.cfg.Name))
	return nil
}

// Run consumes until ctx is cancelled. A batch already read is processed to
// completion before Run returns.
func (c *Consumer) Run(ctx context.Context, handle HandlerFunc) error {
	if !c.subscribed {
		if err := c.Subscribe(ctx); err != nil {
			return err
		}
	}

	for {
		if ctx.Err() != nil {
			c.logger.Info("event consumer stopped")
			return nil
		}

		streams, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    c.cfg.Group,
			Consumer: c.cfg.Name,
			Streams:  []string{c.cfg.Stream, ">"},
			Count:    c.cfg.BatchSize,
			Block:    c.cfg.Block,
		}).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if ctx.Err() != nil {
				continue
			}
			c.logger.Warn("reading event stream failed", zap.Error(err))
			c.pause(ctx)
			continue
		}

		workCtx := context.WithoutCancel(ctx)
		for _, stream := range streams {
			for _, msg := range stream.Messages {
				c.process(workCtx, msg, handle)
			}
		}
	}
}

func (c *Consumer) process(ctx context.Context, msg redis.XMessage, handle HandlerFunc) {
	if err := c.client.XAck(ctx, c.cfg.Stream, c.cfg.Group, msg.ID).Err(); err != nil {
		c.logger.Warn("acknowledging event failed", zap.String("message_id", msg.ID), zap.Error(err))
	}

	payload, ok := msg.Values[fieldPayload].(string)
	if !ok {
		c.logger.Error("discarding event without payload",
			zap.String("message_id", msg.ID), zap.Error(ErrDecodeFailure))
		return
	}

	evt, err := DecodeVehicleRegistered([]byte(payload))
	if err != nil {
		c.logger.Error("discarding undecodable event", zap.String("message_id", msg.ID), zap.Error(err))
		return
	}

	if err := handle(ctx, evt); err != nil {
		c.logger.Error("handling event failed",
			zap.String("message_id", msg.ID),
			zap.String("vehicle_id", evt.VehicleID),
			zap.Error(err))
	}
}

func (c *Consumer) pause(ctx context.Context) {
	t := time.NewTimer(c.cfg.Block)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
