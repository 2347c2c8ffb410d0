package mypubsub

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/MarcGrol/marketplace/lib/myevents"
	"github.com/MarcGrol/marketplace/lib/myhttpclient"
	"github.com/MarcGrol/marketplace/lib/mylog"
)

const localDeliveryTimeout = 10 * time.Second

// localPubSub pushes every message to the subscribed urls, the way a push subscription would
type localPubSub struct {
	sync.Mutex
	logger        mylog.Logger
	client        *http.Client
	subscriptions map[string][]string
	sequence      int
}

func init() {
	if os.Getenv("GOOGLE_CLOUD_PROJECT") == "" {
		New = newLocalPubSub
	}
}

func newLocalPubSub(c context.Context) (PubSub, func(), error) {
	return NewLocalPubSub(myhttpclient.New(localDeliveryTimeout, mylog.New("pubsub"))), func() {}, nil
}

func NewLocalPubSub(client *http.Client) *localPubSub {
	return &localPubSub{
		logger:        mylog.New("pubsub"),
		client:        client,
		subscriptions: map[string][]string{},
	}
}

func (ps *localPubSub) CreateTopic(c context.Context, topic string) error {
	ps.Lock()
	defer ps.Unlock()

	if _, found := ps.subscriptions[topic]; !found {
		ps.subscriptions[topic] = []string{}
	}
	return nil
}

func (ps *localPubSub) Subscribe(c context.Context, topic string, pushURL string) error {
	ps.Lock()
	defer ps.Unlock()

	if !slices.Contains(ps.subscriptions[topic], pushURL) {
		ps.subscriptions[topic] = append(ps.subscriptions[topic], pushURL)
	}
	return nil
}

func (ps *localPubSub) Publish(c context.Context, topic string, envelope string) error {
	ps.Lock()
	urls := slices.Clone(ps.subscriptions[topic])
	ps.sequence++
	messageID := strconv.Itoa(ps.sequence)
	ps.Unlock()

	body, err := json.Marshal(myevents.PushRequest{
		Message: myevents.PushMessage{
			Data: []byte(envelope),
			ID:   messageID,
		},
		Subscription: topic,
	})
	if err != nil {
		return fmt.Errorf("error encoding push request: %s", err)
	}

	for _, url := range urls {
		err = ps.push(c, url, body)
		if err != nil {
			return fmt.Errorf("error pushing message %s on topic %s to %s: %s", messageID, topic, url, err)
		}
	}

	ps.logger.Log(c, messageID, mylog.SeverityDebug, "Pushed message %s on topic %s to %d subscribers", messageID, topic, len(urls))

	return nil
}

func (ps *localPubSub) push(c context.Context, url string, body []byte) error {
	req, err := http.NewRequestWithContext(c, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := ps.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("subscriber returned status %d", resp.StatusCode)
	}
	return nil
}
