package watermilldb

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/arkade-os/ledgerkit/internal/core/domain"
	log "github.com/sirupsen/logrus"
)

type eventHandler func(events []domain.Event)

type eventRepository struct {
	pubsub *gochannel.GoChannel

	lock      sync.Mutex
	handlers  map[string][]eventHandler
	listening map[string]struct{}
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewEventRepository returns an event repository backed by a watermill go
// channel. It optionally accepts a watermill logger.
func NewEventRepository(config ...interface{}) (domain.EventRepository, error) {
	var logger watermill.LoggerAdapter = watermill.NopLogger{}
	if len(config) > 0 && config[0] != nil {
		l, ok := config[0].(watermill.LoggerAdapter)
		if !ok {
			return nil, fmt.Errorf("invalid logger")
		}
		logger = l
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &eventRepository{
		pubsub:    gochannel.NewGoChannel(gochannel.Config{}, logger),
		handlers:  make(map[string][]eventHandler),
		listening: make(map[string]struct{}),
		ctx:       ctx,
		cancel:    cancel,
	}, nil
}

// ClearRegisteredHandlers drops the handlers of the given topics, or of every
// topic if none is given. Subscriptions stay open.
func (e *eventRepository) ClearRegisteredHandlers(topics ...string) {
	e.lock.Lock()
	defer e.lock.Unlock()

	if len(topics) == 0 {
		clear(e.handlers)
		return
	}
	for _, topic := range topics {
		delete(e.handlers, topic)
	}
}

func (e *eventRepository) Close() {
	e.cancel()
	//nolint:errcheck
	e.pubsub.Close()
}

func (e *eventRepository) RegisterEventsHandler(
	topic string, handler func(events []domain.Event),
) {
	e.lock.Lock()
	defer e.lock.Unlock()

	e.handlers[topic] = append(e.handlers[topic], handler)
	if _, ok := e.listening[topic]; ok {
		return
	}
	messages, err := e.pubsub.Subscribe(e.ctx, topic)
	if err != nil {
		log.WithError(err).Errorf("failed to subscribe to topic %s", topic)
		return
	}
	e.listening[topic] = struct{}{}
	go e.listen(topic, messages)
}

func (e *eventRepository) Save(topic string, id string, events []domain.Event) error {
	if len(events) == 0 {
		return nil
	}
	msg, err := toWatermillMessage(id, events)
	if err != nil {
		return err
	}
	return e.pubsub.Publish(topic, msg)
}

func (e *eventRepository) listen(topic string, messages <-chan *message.Message) {
	for msg := range messages {
		events, err := deserializeEvents(msg.Payload)
		msg.Ack()
		if err != nil {
			log.WithError(err).Warnf("failed to deserialize events: %s", string(msg.Payload))
			continue
		}
		e.dispatch(topic, events)
	}
}

func (e *eventRepository) dispatch(topic string, events []domain.Event) {
	e.lock.Lock()
	handlers := append([]eventHandler{}, e.handlers[topic]...)
	e.lock.Unlock()

	for _, handler := range handlers {
		go handler(events)
	}
}

func toWatermillMessage(id string, events []domain.Event) (*message.Message, error) {
	payload, err := json.Marshal(events)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize events: %s", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("id", id)
	return msg, nil
}

func deserializeEvents(buf []byte) ([]domain.Event, error) {
	var records []json.RawMessage
	if err := json.Unmarshal(buf, &records); err != nil {
		return nil, err
	}

	events := make([]domain.Event, 0, len(records))
	for _, record := range records {
		event, err := deserializeEvent(record)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, nil
}

func deserializeEvent(buf []byte) (domain.Event, error) {
	var header struct {
		Type domain.EventType
	}
	if err := json.Unmarshal(buf, &header); err != nil {
		return nil, err
	}

	switch header.Type {
	case domain.EventTypeGenesisCoinsAdded:
		return decodeAs[domain.GenesisCoinsAdded](buf)
	case domain.EventTypeTransactionExecuted:
		return decodeAs[domain.TransactionExecuted](buf)
	default:
		return nil, fmt.Errorf("unknown event type %v", header.Type)
	}
}

func decodeAs[T domain.Event](buf []byte) (domain.Event, error) {
	var event T
	if err := json.Unmarshal(buf, &event); err != nil {
		return nil, err
	}
	return event, nil
}
