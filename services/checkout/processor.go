package checkout

import (
	"context"
	"errors"
	"fmt"
)

type LineItem struct {
	ProductID       string
	Name            string
	UnitAmountCents int64
	Metadata        map[string]string
}

type SessionRequest struct {
	UserID                string
	CustomerEmail         string
	TenantSlug            string
	ConnectedAccountID    string
	Currency              string
	LineItems             []LineItem
	ApplicationFeeInCents int64
	SuccessURL            string
	CancelURL             string
	ReturnURL             string
	WebhookURL            string
}

func (r SessionRequest) TotalInCents() int64 {
	total := int64(0)
	for _, item := range r.LineItems {
		total += item.UnitAmountCents
	}
	return total
}

type Session struct {
	ID          string
	URL         string
	Status      string
	Paid        bool
	AmountTotal int64
}

//go:generate mockgen -source=processor.go -package checkout -destination processor_mock.go Processor
type Processor interface {
	Name() string
	CreateCheckoutSession(c context.Context, request SessionRequest) (Session, error)
	GetCheckoutSession(c context.Context, connectedAccountID string, sessionID string) (Session, error)
}

// processorError keeps the http status of a failed processor call so the breaker can tell
// outages apart from rejected requests
type processorError struct {
	httpStatus int
	err        error
}

func (e processorError) Error() string {
	return fmt.Sprintf("processor responded with %d: %s", e.httpStatus, e.err)
}

func (e processorError) Unwrap() error {
	return e.err
}

func processorStatus(err error) int {
	var pErr processorError
	if errors.As(err, &pErr) {
		return pErr.httpStatus
	}
	return 0
}
