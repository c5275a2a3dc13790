package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"

	"shareholder-qa-sim/internal/pkg/logger"
	"shareholder-qa-sim/pkg/events"
	pkgNats "shareholder-qa-sim/pkg/nats"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// Broadcaster pushes a serialized event to every live watcher of a
// session.
type Broadcaster interface {
	Broadcast(sessionID uuid.UUID, data []byte)
}

// consumerService drains the in-process session event bus and fans each
// event out to the live transcript log, the websocket watchers and the
// optional NATS mirror.
type consumerService struct {
	pubSub        *gochannel.GoChannel
	topicName     string
	sessionLogger logger.ILogger
	broadcaster   Broadcaster
	natsPublisher *pkgNats.Publisher
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	sessionLogger logger.ILogger,
	broadcaster Broadcaster,
	natsPublisher *pkgNats.Publisher,
) IConsumerService {
	return &consumerService{
		pubSub:        pubSub,
		topicName:     topicName,
		sessionLogger: sessionLogger,
		broadcaster:   broadcaster,
		natsPublisher: natsPublisher,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

type sessionEventEnvelope struct {
	Type      string                 `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var envelope sessionEventEnvelope
	if err := json.Unmarshal(msg.Payload, &envelope); err != nil {
		log.Printf("[ERROR] Failed to unmarshal session event: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	sessionIDStr, _ := envelope.Data["session_id"].(string)

	cs.sessionLogger.Info("SessionEvents", envelope.Type, envelope.Data)

	if cs.broadcaster != nil {
		if sessionID, err := uuid.Parse(sessionIDStr); err == nil {
			cs.broadcaster.Broadcast(sessionID, msg.Payload)
		}
	}

	if cs.natsPublisher != nil {
		evt := events.New(envelope.Type, envelope.Data)
		if err := cs.natsPublisher.Publish(ctx, evt); err != nil {
			log.Printf("[WARN] Failed to mirror event %s to NATS: %v", envelope.Type, err)
		}
	}

	msg.Ack()
}
