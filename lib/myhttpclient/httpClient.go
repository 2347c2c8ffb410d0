package myhttpclient

import (
	"fmt"
	"net/http"
	"time"

	"github.com/MarcGrol/marketplace/lib/mylog"
)

// New returns the client handed to payment SDKs. Every outgoing call is bounded by timeout.
func New(timeout time.Duration, logger mylog.Logger) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: loggingTransport{
			next:   http.DefaultTransport,
			logger: logger,
		},
	}
}

type loggingTransport struct {
	next   http.RoundTripper
	logger mylog.Logger
}

func (t loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	c := req.Context()
	start := time.Now()

	resp, err := t.next.RoundTrip(req)
	if err != nil {
		t.logger.Log(c, "", mylog.SeverityWarn, "HTTP %s %s failed after %s: %s", req.Method, req.URL.Host+req.URL.Path, time.Since(start), err)
		return nil, fmt.Errorf("error sending %s %s: %w", req.Method, req.URL.Path, err)
	}

	t.logger.Log(c, "", mylog.SeverityDebug, "HTTP %s %s -> %d (%s)", req.Method, req.URL.Host+req.URL.Path, resp.StatusCode, time.Since(start))

	return resp, nil
}
