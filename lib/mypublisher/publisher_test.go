package mypublisher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/MarcGrol/marketplace/lib/myevents"
	"github.com/MarcGrol/marketplace/lib/mypubsub"
	"github.com/MarcGrol/marketplace/lib/myqueue"
	"github.com/MarcGrol/marketplace/lib/mystore"
	"github.com/MarcGrol/marketplace/lib/mytime"
)

type somethingHappened struct {
	UID string
}

func (e somethingHappened) GetEventTypeName() string {
	return "test.happened"
}

func (e somethingHappened) GetAggregateName() string {
	return e.UID
}

func TestTransactionalPublisher(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	c := context.TODO()
	outbox, _, _ := mystore.NewInMemoryStore[myevents.EventEnvelope](c)
	pubsub := mypubsub.NewMockPubSub(ctrl)
	queue := myqueue.NewMockTaskQueuer(ctrl)
	nower := mytime.NewMockNower(ctrl)
	sut := newWithOutbox(outbox, pubsub, queue, nower)
	router := mux.NewRouter()
	sut.RegisterEndpoints(c, router)

	t.Run("Publish stores envelope and enqueues trigger", func(t *testing.T) {
		// given
		nower.EXPECT().Now().Return(mytime.ExampleTime)
		queue.EXPECT().Enqueue(gomock.Any(), gomock.Any()).DoAndReturn(func(c context.Context, task myqueue.Task) error {
			assert.Equal(t, "/pubsub/test/"+task.UID, task.WebhookURLPath)
			return nil
		})

		// when
		err := sut.Publish(c, "test", somethingHappened{UID: "abc"})

		// then
		assert.NoError(t, err)
		envelopes, _ := outbox.List(c)
		assert.Len(t, envelopes, 1)
		assert.Equal(t, "test.happened", envelopes[0].EventTypeName)
		assert.Equal(t, "abc", envelopes[0].AggregateUID)
		assert.False(t, envelopes[0].Published)
	})

	t.Run("Trigger publishes pending envelopes", func(t *testing.T) {
		// given
		envelopes, _ := outbox.List(c)
		pubsub.EXPECT().Publish(gomock.Any(), "test", gomock.Any()).Return(nil)

		// when
		request, err := http.NewRequest(http.MethodPut, "/pubsub/test/"+envelopes[0].UID, nil)
		assert.NoError(t, err)
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 200, response.Code)
		envelopes, _ = outbox.List(c)
		assert.True(t, envelopes[0].Published)
	})

	t.Run("Same event is stored once", func(t *testing.T) {
		// given
		nower.EXPECT().Now().Return(mytime.ExampleTime)
		queue.EXPECT().Enqueue(gomock.Any(), gomock.Any()).Return(nil)

		// when
		err := sut.Publish(c, "test", somethingHappened{UID: "abc"})

		// then
		assert.NoError(t, err)
		envelopes, _ := outbox.List(c)
		assert.Len(t, envelopes, 1)
	})
}
