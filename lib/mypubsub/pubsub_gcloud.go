package mypubsub

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"cloud.google.com/go/pubsub"

	"github.com/MarcGrol/marketplace/lib/mylog"
)

const ackDeadline = 30 * time.Second

type gcloudPubSub struct {
	sync.Mutex
	logger mylog.Logger
	client *pubsub.Client
	topics map[string]*pubsub.Topic
}

func init() {
	if os.Getenv("GOOGLE_CLOUD_PROJECT") != "" {
		New = newGcloudPubSub
	}
}

func newGcloudPubSub(c context.Context) (PubSub, func(), error) {
	client, err := pubsub.NewClient(c, os.Getenv("GOOGLE_CLOUD_PROJECT"))
	if err != nil {
		return nil, func() {}, err
	}
	return &gcloudPubSub{
			logger: mylog.New("pubsub"),
			client: client,
			topics: map[string]*pubsub.Topic{},
		}, func() {
			client.Close()
		}, nil
}

// Subscribe is safe to call on every startup: an existing subscription for the same endpoint is kept
func (ps *gcloudPubSub) Subscribe(c context.Context, topicName string, pushURL string) error {
	err := ps.CreateTopic(c, topicName)
	if err != nil {
		return err
	}

	subscriptionID, err := subscriptionID(topicName, pushURL)
	if err != nil {
		return err
	}

	exists, err := ps.client.Subscription(subscriptionID).Exists(c)
	if err != nil {
		return fmt.Errorf("error checking if subscription %s exists: %s", subscriptionID, err)
	}
	if exists {
		return nil
	}

	_, err = ps.client.CreateSubscription(c, subscriptionID, pubsub.SubscriptionConfig{
		Topic:       ps.client.Topic(topicName),
		AckDeadline: ackDeadline,
		PushConfig: pubsub.PushConfig{
			Endpoint: pushURL,
		},
	})
	if err != nil {
		return fmt.Errorf("error subscribing to topic %s: %s", topicName, err)
	}

	ps.logger.Log(c, topicName, mylog.SeverityInfo, "Subscribed %s to topic %s", pushURL, topicName)

	return nil
}

func (ps *gcloudPubSub) CreateTopic(c context.Context, topicName string) error {
	topic := ps.client.Topic(topicName)
	exists, err := topic.Exists(c)
	if err != nil {
		return fmt.Errorf("error checking if topic %s exists: %s", topicName, err)
	}

	if !exists {
		_, err = ps.client.CreateTopic(c, topicName)
		if err != nil {
			return fmt.Errorf("error creating topic %s: %s", topicName, err)
		}
		ps.logger.Log(c, topicName, mylog.SeverityInfo, "Created topic %s", topicName)
	}

	ps.Lock()
	ps.topics[topicName] = topic
	ps.Unlock()

	return nil
}

func (ps *gcloudPubSub) Publish(c context.Context, topicName string, envelope string) error {
	ps.Lock()
	topic, found := ps.topics[topicName]
	if !found {
		topic = ps.client.Topic(topicName)
		ps.topics[topicName] = topic
	}
	ps.Unlock()

	_, err := topic.Publish(c, &pubsub.Message{Data: []byte(envelope)}).Get(c)
	if err != nil {
		return fmt.Errorf("error publishing event on topic %s: %s", topicName, err)
	}

	return nil
}

// subscriptionID gives every subscriber of a topic its own subscription, e.g. checkout-api-library-event
func subscriptionID(topicName string, pushURL string) (string, error) {
	endpoint, err := url.Parse(pushURL)
	if err != nil {
		return "", fmt.Errorf("invalid push endpoint %s: %s", pushURL, err)
	}
	path := strings.Trim(endpoint.Path, "/")
	if path == "" {
		return topicName, nil
	}
	return topicName + "-" + strings.ReplaceAll(path, "/", "-"), nil
}
