package mystore

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type order struct {
	UID       string
	UserID    string
	Paid      bool
	CreatedAt time.Time
}

var (
	base   = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	first  = order{UID: "1", UserID: "marc", Paid: true, CreatedAt: base}
	second = order{UID: "2", UserID: "eva", Paid: false, CreatedAt: base.Add(time.Hour)}
	third  = order{UID: "3", UserID: "marc", Paid: false, CreatedAt: base.Add(2 * time.Hour)}
)

func TestStore(t *testing.T) {
	c := context.TODO()
	ps, cleanup, err := NewInMemoryStore[order](c)
	assert.NoError(t, err)
	defer cleanup()

	t.Run("Get not found", func(t *testing.T) {
		_, found, err := ps.Get(c, first.UID)
		assert.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("Put", func(t *testing.T) {
		for _, o := range []order{third, first, second} {
			err = ps.Put(c, o.UID, o)
			assert.NoError(t, err)
		}
	})

	t.Run("Get found", func(t *testing.T) {
		o, found, err := ps.Get(c, first.UID)
		assert.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, first, o)
	})

	t.Run("List", func(t *testing.T) {
		all, err := ps.List(c)
		assert.NoError(t, err)
		assert.Equal(t, []order{first, second, third}, all)
	})

	t.Run("Query with filter", func(t *testing.T) {
		found, err := ps.Query(c, []Filter{Equals("UserID", "marc")}, "")
		assert.NoError(t, err)
		assert.Equal(t, []order{first, third}, found)
	})

	t.Run("Query with multiple filters and descending order", func(t *testing.T) {
		found, err := ps.Query(c, []Filter{Equals("Paid", false)}, "-CreatedAt")
		assert.NoError(t, err)
		assert.Equal(t, []order{third, second}, found)
	})

	t.Run("Query with unsupported compare", func(t *testing.T) {
		_, err := ps.Query(c, []Filter{{Field: "CreatedAt", Compare: ">", Value: base}}, "")
		assert.Error(t, err)
	})

	t.Run("Rollback on error", func(t *testing.T) {
		err := ps.RunInTransaction(c, func(c context.Context) error {
			err := ps.Put(c, "4", order{UID: "4"})
			assert.NoError(t, err)
			return fmt.Errorf("abort")
		})
		assert.Error(t, err)

		_, found, err := ps.Get(c, "4")
		assert.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("Other store usable within transaction", func(t *testing.T) {
		other, _, err := NewInMemoryStore[order](c)
		assert.NoError(t, err)

		err = ps.RunInTransaction(c, func(c context.Context) error {
			return other.RunInTransaction(c, func(c context.Context) error {
				err := other.Put(c, "5", order{UID: "5"})
				if err != nil {
					return err
				}
				return ps.Put(c, "5", order{UID: "5"})
			})
		})
		assert.NoError(t, err)

		_, found, err := other.Get(c, "5")
		assert.NoError(t, err)
		assert.True(t, found)
	})
}
