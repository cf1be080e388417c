// Package pubsub adapts the application's RabbitMQ topology to watermill.
// The backend publishes durable records on topic exchanges; the hub
// consumes them per-node and re-publishes its own outbound records.
package pubsub

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	wamqp "github.com/ThreeDotsLabs/watermill-amqp/v3/pkg/amqp"

	"github.com/Utkal9/Social-Media-like-LinkedIn-sub001/config"
)

type SubscriberProvider struct {
	uri    string
	logger watermill.LoggerAdapter
}

func NewSubscriberProvider(cfg *config.Config, logger watermill.LoggerAdapter) *SubscriberProvider {
	return &SubscriberProvider{
		uri:    cfg.AMQP.URI,
		logger: logger,
	}
}

// Build creates a subscriber with its own queue bound to a topic exchange.
// Every hub node builds uniquely-named queues, so each node sees every
// record and decides locally whether the target user is connected here.
func (p *SubscriberProvider) Build(queue, exchange, topic string) (message.Subscriber, error) {
	c := p.baseConfig(queue, exchange)
	return wamqp.NewSubscriber(c, p.logger)
}

func (p *SubscriberProvider) baseConfig(queue, exchange string) wamqp.Config {
	c := wamqp.NewDurablePubSubConfig(p.uri, wamqp.GenerateQueueNameConstant(queue))
	c.Exchange.GenerateName = func(string) string { return exchange }
	c.Exchange.Type = "topic"
	c.Exchange.Durable = true
	c.QueueBind.GenerateRoutingKey = func(topic string) string { return topic }
	return c
}

type PublisherProvider struct {
	uri    string
	logger watermill.LoggerAdapter
}

func NewPublisherProvider(cfg *config.Config, logger watermill.LoggerAdapter) *PublisherProvider {
	return &PublisherProvider{
		uri:    cfg.AMQP.URI,
		logger: logger,
	}
}

// Build creates a publisher on a topic exchange; the watermill topic is
// used verbatim as the AMQP routing key.
func (p *PublisherProvider) Build(exchange string) (message.Publisher, error) {
	c := wamqp.NewDurablePubSubConfig(p.uri, nil)
	c.Exchange.GenerateName = func(string) string { return exchange }
	c.Exchange.Type = "topic"
	c.Exchange.Durable = true
	c.Publish.GenerateRoutingKey = func(topic string) string { return topic }
	return wamqp.NewPublisher(c, p.logger)
}
