package messaging

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Stream entry field names.
const (
	fieldEventType = "event_type"
	fieldPayload   = "payload"
)

// Publisher appends events to a redis stream. It waits for the XADD reply and
// nothing more.
type Publisher struct {
	client redis.Cmdable
	stream string
}

func NewPublisher(client redis.Cmdable, stream string) *Publisher {
	if stream == "" {
		stream = VehicleRegisteredType
	}
	return &Publisher{client: client, stream: stream}
}

func (p *Publisher) PublishVehicleRegistered(ctx context.Context, evt VehicleRegistered) error {
	payload, err := EncodeVehicleRegistered(evt)
	if err != nil {
		return fmt.Errorf("%w: encoding: %v", ErrPublishFailure, err)
	}

	err = p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]interface{}{
			fieldEventType: VehicleRegisteredType,
			fieldPayload:   string(payload),
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPublishFailure, err)
	}
	return nil
}
