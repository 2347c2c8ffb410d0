package myqueue

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type recordedRequest struct {
	method string
	path   string
	body   string
}

func setupReceiver(t *testing.T, status int) (*httptest.Server, func() []recordedRequest) {
	var mutex sync.Mutex
	received := []recordedRequest{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mutex.Lock()
		received = append(received, recordedRequest{method: r.Method, path: r.URL.Path, body: string(body)})
		mutex.Unlock()
		w.WriteHeader(status)
	}))
	t.Cleanup(server.Close)

	return server, func() []recordedRequest {
		mutex.Lock()
		defer mutex.Unlock()
		return append([]recordedRequest{}, received...)
	}
}

func TestLocalQueue(t *testing.T) {
	c := context.TODO()

	t.Run("Task is delivered as PUT", func(t *testing.T) {
		// given
		server, received := setupReceiver(t, http.StatusOK)
		queue := NewLocalQueue(server.URL+"/", server.Client(), 0)

		// when
		err := queue.Enqueue(c, Task{UID: "abc", WebhookURLPath: "/pubsub/checkout/abc", Payload: []byte("{}")})
		queue.Wait()

		// then
		assert.NoError(t, err)
		assert.Equal(t, []recordedRequest{{method: http.MethodPut, path: "/pubsub/checkout/abc", body: "{}"}}, received())
	})

	t.Run("Same task is delivered once", func(t *testing.T) {
		// given
		server, received := setupReceiver(t, http.StatusOK)
		queue := NewLocalQueue(server.URL, server.Client(), 0)

		// when
		assert.NoError(t, queue.Enqueue(c, Task{UID: "abc", WebhookURLPath: "/pubsub/checkout/abc"}))
		assert.NoError(t, queue.Enqueue(c, Task{UID: "abc", WebhookURLPath: "/pubsub/checkout/abc"}))
		queue.Wait()

		// then
		assert.Len(t, received(), 1)
	})

	t.Run("Task ids are forgotten after the dedup window", func(t *testing.T) {
		// given
		server, received := setupReceiver(t, http.StatusOK)
		queue := NewLocalQueue(server.URL, server.Client(), 0)
		now := time.Date(2026, time.October, 19, 12, 0, 0, 0, time.UTC)
		queue.now = func() time.Time { return now }
		assert.NoError(t, queue.Enqueue(c, Task{UID: "abc", WebhookURLPath: "/pubsub/checkout/abc"}))
		queue.Wait()

		// when
		now = now.Add(localDedupWindow + time.Minute)
		assert.NoError(t, queue.Enqueue(c, Task{UID: "def", WebhookURLPath: "/pubsub/checkout/def"}))
		queue.Wait()

		// then
		assert.Len(t, received(), 2)
		assert.Len(t, queue.seen, 1)
		assert.Contains(t, queue.seen, "def")

		// when
		assert.NoError(t, queue.Enqueue(c, Task{UID: "abc", WebhookURLPath: "/pubsub/checkout/abc"}))
		queue.Wait()

		// then
		assert.Len(t, received(), 3)
	})

	t.Run("Failing handler does not fail the enqueue", func(t *testing.T) {
		// given
		server, received := setupReceiver(t, http.StatusInternalServerError)
		queue := NewLocalQueue(server.URL, server.Client(), 0)

		// when
		err := queue.Enqueue(c, Task{UID: "abc", WebhookURLPath: "/pubsub/checkout/abc"})
		queue.Wait()

		// then
		assert.NoError(t, err)
		assert.Len(t, received(), 1)
	})
}
