package repository

import (
	"context"
	"fmt"

	bookingserrors "carrental/internal/bookings/errors"
	"carrental/pkg/config"
	mongotx "carrental/pkg/db/mongo"
	"carrental/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const LockCollectionName = "Booking_locks"

// VehicleLockRepository stores advisory lock documents, one per locked vehicle.
type VehicleLockRepository interface {
	Acquire(ctx context.Context, lock *model.VehicleLock) error
	Release(ctx context.Context, id, owner string) error
}

type mongoVehicleLockRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewVehicleLockRepository(cfg *config.Config) VehicleLockRepository {
	return &mongoVehicleLockRepository{
		cfg:        cfg,
		collection: cfg.Client.Mongo.Database(cfg.MongoDatabaseName).Collection(LockCollectionName),
	}
}

// Acquire inserts the lock document. A live lock with the same id yields
// ErrLockHeld; an expired one the TTL monitor has not reaped yet is replaced.
func (r *mongoVehicleLockRepository) Acquire(ctx context.Context, lock *model.VehicleLock) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := mongotx.Now()
	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": lock.ID, "expires_at": bson.M{"$lte": now}}); err != nil {
		return fmt.Errorf("failed to clear expired lock: %w", err)
	}

	lock.CreatedAt = now
	if _, err := r.collection.InsertOne(ctx, lock); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s", bookingserrors.ErrLockHeld, lock.ID)
		}
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	return nil
}

// Release deletes the lock only if owner still holds it.
func (r *mongoVehicleLockRepository) Release(ctx context.Context, id, owner string) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "owner": owner}); err != nil {
		return fmt.Errorf("failed to release lock: %w", err)
	}
	return nil
}
