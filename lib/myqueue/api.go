package myqueue

import (
	"context"
)

type Task struct {
	UID            string
	WebhookURLPath string
	Payload        []byte
}

// New returns Cloud Tasks on Google Cloud and a local dispatcher elsewhere.
// Tasks are delivered as PUT on baseURL+WebhookURLPath; Cloud Tasks resolves the path itself.
var New func(c context.Context, baseURL string) (TaskQueuer, func(), error)

//go:generate mockgen -source=api.go -package myqueue -destination queuer_mock.go TaskQueuer
type TaskQueuer interface {
	// Enqueue ignores a task whose UID was seen before
	Enqueue(c context.Context, task Task) error
}
