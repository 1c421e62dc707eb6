package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"virtualevents/internal/domain"
)

type eventRegistrationRepository struct {
	col *mongo.Collection
}

func NewEventRegistrationRepository(db *mongo.Database) domain.EventRegistrationRepository {
	return &eventRegistrationRepository{col: db.Collection(collRegistrations)}
}

// Upsert writes the (event, user) row keyed by the unique compound index.
// registeredAt, source, and metadata live under $setOnInsert so a repeat
// upsert never clobbers the original registration record. Two concurrent
// first-time upserts can still collide on the unique index; that surfaces
// as ErrAlreadyExists and the engine treats it as success.
func (r *eventRegistrationRepository) Upsert(ctx context.Context, eventID, userID, source string, now time.Time) (*domain.EventRegistration, bool, error) {
	filter := bson.M{"event": eventID, "user": userID}
	update := bson.M{
		"$set": bson.M{
			"status":      domain.RegistrationRegistered,
			"cancelledAt": nil,
			"updatedAt":   now,
		},
		"$setOnInsert": bson.M{
			"_id":          primitive.NewObjectID().Hex(),
			"registeredAt": now,
			"source":       source,
			"metadata":     bson.M{},
			"createdAt":    now,
		},
	}

	res, err := r.col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, false, domain.ErrAlreadyExists
		}
		return nil, false, err
	}

	reg, err := r.GetByEventAndUser(ctx, eventID, userID)
	if err != nil {
		return nil, false, err
	}
	return reg, res.UpsertedCount > 0, nil
}

func (r *eventRegistrationRepository) GetByEventAndUser(ctx context.Context, eventID, userID string) (*domain.EventRegistration, error) {
	reg := &domain.EventRegistration{}
	err := r.col.FindOne(ctx, bson.M{"event": eventID, "user": userID}).Decode(reg)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return reg, nil
}

func (r *eventRegistrationRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.EventRegistration, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"user": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var regs []*domain.EventRegistration
	if err := cur.All(ctx, &regs); err != nil {
		return nil, err
	}
	if regs == nil {
		regs = []*domain.EventRegistration{}
	}
	return regs, nil
}
