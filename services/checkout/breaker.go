package checkout

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/MarcGrol/marketplace/lib/myerrors"
	"github.com/MarcGrol/marketplace/lib/mylog"
)

const (
	breakerFailureThreshold = 5
	breakerOpenTimeout      = 30 * time.Second
)

// guardedProcessor stops calling an unresponsive processor for a while instead of letting every
// buyer wait for the full timeout
type guardedProcessor struct {
	logger    mylog.Logger
	processor Processor
	breaker   *gobreaker.CircuitBreaker[Session]
}

func NewGuardedProcessor(processor Processor) *guardedProcessor {
	logger := mylog.New("checkout")
	return &guardedProcessor{
		logger:    logger,
		processor: processor,
		breaker: gobreaker.NewCircuitBreaker[Session](gobreaker.Settings{
			Name:    processor.Name(),
			Timeout: breakerOpenTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= breakerFailureThreshold
			},
			IsSuccessful: func(err error) bool {
				// a rejected request says nothing about the health of the processor
				return err == nil || processorStatus(err) < http.StatusInternalServerError
			},
			OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
				logger.Log(context.Background(), name, mylog.SeverityWarn, "Circuit breaker %s changed from %s to %s", name, from, to)
			},
		}),
	}
}

func (p *guardedProcessor) Name() string {
	return p.processor.Name()
}

func (p *guardedProcessor) CreateCheckoutSession(c context.Context, request SessionRequest) (Session, error) {
	session, err := p.breaker.Execute(func() (Session, error) {
		return p.processor.CreateCheckoutSession(c, request)
	})
	return session, classifyBreakerError(err)
}

func (p *guardedProcessor) GetCheckoutSession(c context.Context, connectedAccountID string, sessionID string) (Session, error) {
	session, err := p.breaker.Execute(func() (Session, error) {
		return p.processor.GetCheckoutSession(c, connectedAccountID, sessionID)
	})
	return session, classifyBreakerError(err)
}

func classifyBreakerError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return myerrors.NewUnavailableError(fmt.Errorf("payment processor unavailable: %s", err))
	}
	if processorStatus(err) >= http.StatusInternalServerError {
		return myerrors.NewInternalError(err)
	}
	return myerrors.NewInvalidInputError(err)
}
