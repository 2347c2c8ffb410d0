package myqueue

import (
	"context"
	"fmt"
	"os"
	"time"

	cloudtasks "cloud.google.com/go/cloudtasks/apiv2"
	taskspb "cloud.google.com/go/cloudtasks/apiv2/cloudtaskspb"
	grpcCodes "google.golang.org/grpc/codes"
	grpcStatus "google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/MarcGrol/marketplace/lib/mylog"
)

const (
	defaultQueueName = "marketplace-events"
	dispatchDelay    = 5 * time.Second
)

type gcloudTaskQueue struct {
	logger    mylog.Logger
	client    *cloudtasks.Client
	queueName string
}

func init() {
	if os.Getenv("GOOGLE_CLOUD_PROJECT") != "" {
		New = newGcloudQueue
	}
}

func newGcloudQueue(c context.Context, baseURL string) (TaskQueuer, func(), error) {
	cloudTaskClient, err := cloudtasks.NewClient(c)
	if err != nil {
		return nil, nil, fmt.Errorf("error creating cloudtask-client: %s", err)
	}
	return &gcloudTaskQueue{
			logger:    mylog.New("queue"),
			client:    cloudTaskClient,
			queueName: composeQueueName(),
		}, func() {
			cloudTaskClient.Close()
		}, nil
}

func (q *gcloudTaskQueue) Enqueue(c context.Context, task Task) error {
	taskName := fmt.Sprintf("%s/tasks/%s", q.queueName, task.UID)
	_, err := q.client.CreateTask(c, &taskspb.CreateTaskRequest{
		Parent: q.queueName,
		Task: &taskspb.Task{
			Name:         taskName, // de-duplicate
			ScheduleTime: timestamppb.New(time.Now().Add(dispatchDelay)),
			MessageType: &taskspb.Task_AppEngineHttpRequest{
				AppEngineHttpRequest: &taskspb.AppEngineHttpRequest{
					HttpMethod:  taskspb.HttpMethod_PUT,
					RelativeUri: task.WebhookURLPath,
					Body:        task.Payload,
				},
			},
		},
	})
	if err != nil {
		rsp, ok := grpcStatus.FromError(err)
		if ok && rsp.Code() == grpcCodes.AlreadyExists {
			q.logger.Log(c, task.UID, mylog.SeverityInfo, "task with id %s already exists -> ignore", task.UID)
			return nil
		}
		return fmt.Errorf("error submitting task %s to queue: %s", task.UID, err)
	}
	return nil
}

func composeQueueName() string {
	queueName := os.Getenv("QUEUE_NAME")
	if queueName == "" {
		queueName = defaultQueueName
	}
	return fmt.Sprintf("projects/%s/locations/%s/queues/%s", os.Getenv("GOOGLE_CLOUD_PROJECT"), os.Getenv("LOCATION_ID"), queueName)
}
