package businessflow

import (
	"context"

	"github.com/smitlab/tariff-api/app/dto"
	"github.com/smitlab/tariff-api/app/services"
)

// MessageFlow forwards caller-supplied messages to the broker. No delivery
// acknowledgment is surfaced beyond the absence of an error.
type MessageFlow interface {
	PublishMessage(ctx context.Context, req *dto.PublishMessageRequest) error
}

type MessageFlowImpl struct {
	producer services.MessageProducer
}

func NewMessageFlow(producer services.MessageProducer) MessageFlow {
	return &MessageFlowImpl{producer: producer}
}

func (f *MessageFlowImpl) PublishMessage(ctx context.Context, req *dto.PublishMessageRequest) error {
	if f.producer == nil {
		return NewBusinessError("MESSAGE_PRODUCER_UNAVAILABLE", "Message producer not available", ErrProducerNotAvailable)
	}
	if err := f.producer.Publish(ctx, req.Topic, []byte(req.Message)); err != nil {
		return NewBusinessError("MESSAGE_PUBLISH_FAILED", "Failed to publish message", err)
	}
	return nil
}
