package mongo

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestIsTransactionUnsupported(t *testing.T) {
	standalone := mongo.CommandError{Code: illegalOperation, Message: "Transaction numbers are only allowed on a replica set member or mongos"}

	assert.True(t, isTransactionUnsupported(standalone))
	assert.True(t, isTransactionUnsupported(fmt.Errorf("insert: %w", standalone)))
	assert.False(t, isTransactionUnsupported(mongo.CommandError{Code: 11000}))
	assert.False(t, isTransactionUnsupported(errors.New("boom")))
	assert.False(t, isTransactionUnsupported(nil))
}

func TestObjectIDs_SkipsInvalidAndDuplicates(t *testing.T) {
	ids := ObjectIDs([]string{"65a000000000000000000001", "bad", "65a000000000000000000001", "65a000000000000000000002"})
	assert.Len(t, ids, 2)
	assert.Equal(t, "65a000000000000000000001", ids[0].Hex())
}
