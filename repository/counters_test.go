package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func counterDoc(name string, seq int64) bson.D {
	return bson.D{{Key: "_id", Value: name}, {Key: "seq", Value: seq}}
}

// findAndModifyResponse builds the server reply to FindOneAndUpdate; a nil
// doc is the no-counter-document case.
func findAndModifyResponse(doc interface{}) bson.D {
	return mtest.CreateSuccessResponse(bson.E{Key: "value", Value: doc})
}

func TestNextIDSequential(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("strictly increasing without gaps", func(mt *mtest.T) {
		counters := NewCounters(mt.DB)

		for seq := int64(1); seq <= 3; seq++ {
			mt.AddMockResponses(findAndModifyResponse(counterDoc("orders", seq)))
		}

		prev := int64(0)
		for i := 0; i < 3; i++ {
			id, err := counters.NextID(context.Background(), "orders")
			require.NoError(mt, err)
			assert.Equal(mt, prev+1, id)
			prev = id
		}
	})
}

func TestNextIDSeedsMissingCounter(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("seeds from the collection max id", func(mt *mtest.T) {
		counters := NewCounters(mt.DB)

		mt.AddMockResponses(
			findAndModifyResponse(nil), // counter document absent
			mtest.CreateCursorResponse(0, "nafood.orders", mtest.FirstBatch,
				bson.D{{Key: "_id", Value: int64(41)}}), // max-id scan
			mtest.CreateSuccessResponse(), // counter insert
			findAndModifyResponse(counterDoc("orders", 42)),
		)

		id, err := counters.NextID(context.Background(), "orders")
		require.NoError(mt, err)
		assert.Equal(mt, int64(42), id)
	})

	mt.Run("empty collection seeds at zero", func(mt *mtest.T) {
		counters := NewCounters(mt.DB)

		mt.AddMockResponses(
			findAndModifyResponse(nil),
			mtest.CreateCursorResponse(0, "nafood.orders", mtest.FirstBatch),
			mtest.CreateSuccessResponse(),
			findAndModifyResponse(counterDoc("orders", 1)),
		)

		id, err := counters.NextID(context.Background(), "orders")
		require.NoError(mt, err)
		assert.Equal(mt, int64(1), id)
	})

	mt.Run("lost seeding race still increments", func(mt *mtest.T) {
		counters := NewCounters(mt.DB)

		mt.AddMockResponses(
			findAndModifyResponse(nil),
			mtest.CreateCursorResponse(0, "nafood.orders", mtest.FirstBatch,
				bson.D{{Key: "_id", Value: int64(41)}}),
			// another request inserted the counter first
			mtest.CreateWriteErrorsResponse(mtest.WriteError{
				Index: 0, Code: 11000, Message: "E11000 duplicate key error",
			}),
			findAndModifyResponse(counterDoc("orders", 43)),
		)

		id, err := counters.NextID(context.Background(), "orders")
		require.NoError(mt, err)
		assert.Equal(mt, int64(43), id)
	})
}
