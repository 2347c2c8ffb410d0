package library

import (
	"context"
	"fmt"

	"github.com/MarcGrol/marketplace/lib/mylog"
	"github.com/MarcGrol/marketplace/services/checkoutevents"
)

const eventPath = "/api/library/event"

func (s *service) Subscribe(c context.Context) error {
	err := s.subscriber.Subscribe(c, checkoutevents.TopicName, s.appURL+eventPath)
	if err != nil {
		return fmt.Errorf("error subscribing to topic %s: %s", checkoutevents.TopicName, err)
	}

	return nil
}

func (s *service) OnCheckoutStarted(c context.Context, topic string, event checkoutevents.CheckoutStarted) error {
	return nil
}

func (s *service) OnCheckoutCompleted(c context.Context, topic string, event checkoutevents.CheckoutCompleted) error {
	if !event.Success {
		return nil
	}

	s.logger.Log(c, event.SessionID, mylog.SeverityInfo, "Checkout %s completed: refreshing library of %s", event.SessionID, event.UserID)

	return s.invalidateCache(c, event.UserID)
}
