package mongo

import (
	"context"
	"errors"
	"fmt"

	apperrors "carrental/pkg/errors"

	"go.mongodb.org/mongo-driver/mongo"
)

// illegalOperation is returned by standalone servers that cannot run
// multi-document transactions.
const illegalOperation = 20

type TransactionFunc func(ctx mongo.SessionContext) error

type TransactionManager interface {
	ExecuteTransaction(ctx context.Context, fn TransactionFunc) error
}

type mongoTransactionManager struct {
	client *mongo.Client
}

func NewTransactionManager(client *mongo.Client) TransactionManager {
	return &mongoTransactionManager{client: client}
}

// ExecuteTransaction runs fn inside a transaction. On a standalone server fn
// runs once in a plain session instead; callers still hold their own
// per-vehicle lock, so the check-then-write stays serialized.
func (m *mongoTransactionManager) ExecuteTransaction(ctx context.Context, fn TransactionFunc) error {
	session, err := m.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (any, error) {
		return nil, fn(sessCtx)
	})
	if isTransactionUnsupported(err) {
		err = fn(mongo.NewSessionContext(ctx, session))
	}

	if err != nil {
		if apperrors.IsAppError(err) {
			return err
		}
		return fmt.Errorf("transaction failed: %w", err)
	}
	return nil
}

func isTransactionUnsupported(err error) bool {
	var cmdErr mongo.CommandError
	return errors.As(err, &cmdErr) && cmdErr.Code == illegalOperation
}
