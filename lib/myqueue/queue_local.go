package myqueue

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/MarcGrol/marketplace/lib/myhttpclient"
	"github.com/MarcGrol/marketplace/lib/mylog"
)

const (
	localDispatchDelay   = time.Second
	localDispatchTimeout = 10 * time.Second
	// Cloud Tasks keeps the names of tasks for about an hour
	localDedupWindow = time.Hour
)

// localTaskQueue delivers tasks to this very process, mimicking the delayed dispatch of Cloud Tasks
type localTaskQueue struct {
	sync.Mutex
	logger  mylog.Logger
	client  *http.Client
	baseURL string
	delay   time.Duration
	window  time.Duration
	now     func() time.Time
	seen    map[string]time.Time
	pending sync.WaitGroup
}

func init() {
	if os.Getenv("GOOGLE_CLOUD_PROJECT") == "" {
		New = newLocalQueue
	}
}

func newLocalQueue(c context.Context, baseURL string) (TaskQueuer, func(), error) {
	logger := mylog.New("queue")
	q := NewLocalQueue(baseURL, myhttpclient.New(localDispatchTimeout, logger), localDispatchDelay)
	return q, q.Wait, nil
}

func NewLocalQueue(baseURL string, client *http.Client, delay time.Duration) *localTaskQueue {
	return &localTaskQueue{
		logger:  mylog.New("queue"),
		client:  client,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		delay:   delay,
		window:  localDedupWindow,
		now:     time.Now,
		seen:    map[string]time.Time{},
	}
}

func (q *localTaskQueue) Enqueue(c context.Context, task Task) error {
	q.Lock()
	now := q.now()
	q.forget(now.Add(-q.window))
	if _, found := q.seen[task.UID]; found {
		q.Unlock()
		q.logger.Log(c, task.UID, mylog.SeverityInfo, "task with id %s already exists -> ignore", task.UID)
		return nil
	}
	q.seen[task.UID] = now
	q.Unlock()

	// the caller may still be inside a transaction that the task depends on
	dispatchCtx := context.WithoutCancel(c)
	q.pending.Add(1)
	go func() {
		defer q.pending.Done()
		time.Sleep(q.delay)

		err := q.dispatch(dispatchCtx, task)
		if err != nil {
			q.logger.Log(dispatchCtx, task.UID, mylog.SeverityWarn, "Error dispatching task %s: %s", task.UID, err)
		}
	}()

	return nil
}

// forget drops task ids enqueued before the cutoff. Callers hold the lock.
func (q *localTaskQueue) forget(cutoff time.Time) {
	for uid, enqueuedAt := range q.seen {
		if enqueuedAt.Before(cutoff) {
			delete(q.seen, uid)
		}
	}
}

func (q *localTaskQueue) dispatch(c context.Context, task Task) error {
	req, err := http.NewRequestWithContext(c, http.MethodPut, q.baseURL+task.WebhookURLPath, bytes.NewReader(task.Payload))
	if err != nil {
		return fmt.Errorf("error creating request: %s", err)
	}

	resp, err := q.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("task handler %s returned status %d", task.WebhookURLPath, resp.StatusCode)
	}
	return nil
}

// Wait blocks until all dispatched tasks have been delivered
func (q *localTaskQueue) Wait() {
	q.pending.Wait()
}
