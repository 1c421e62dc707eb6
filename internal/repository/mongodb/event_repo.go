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

type eventRepository struct {
	col *mongo.Collection
}

func NewEventRepository(db *mongo.Database) domain.EventRepository {
	return &eventRepository{col: db.Collection(collEvents)}
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	if e.ID == "" {
		e.ID = primitive.NewObjectID().Hex()
	}
	if e.Attendees == nil {
		e.Attendees = []string{}
	}
	if e.Tags == nil {
		e.Tags = []string{}
	}
	_, err := r.col.InsertOne(ctx, e)
	return err
}

func (r *eventRepository) List(ctx context.Context) ([]*domain.Event, error) {
	cur, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var events []*domain.Event
	if err := cur.All(ctx, &events); err != nil {
		return nil, err
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	e := &domain.Event{}
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(e); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) Update(ctx context.Context, e *domain.Event) error {
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": e.ID}, e)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AddAttendee performs the admission write: one conditional find-and-update
// that checks the eligibility predicate and adds the user in the same atomic
// operation, closing the race window between check and mutation. $addToSet
// keeps attendee set semantics, so a re-registration is a no-op.
func (r *eventRepository) AddAttendee(ctx context.Context, eventID, userID string, now time.Time) (*domain.Event, error) {
	filter := bson.M{
		"_id":    eventID,
		"status": domain.StatusPublished,
		"$and": bson.A{
			bson.M{"$or": bson.A{
				bson.M{"registrationDeadline": nil},
				bson.M{"registrationDeadline": bson.M{"$gte": now}},
			}},
			bson.M{"$or": bson.A{
				bson.M{"attendees": userID},
				bson.M{"isUnlimitedCapacity": true},
				bson.M{"$expr": bson.M{"$lt": bson.A{
					bson.M{"$size": bson.M{"$ifNull": bson.A{"$attendees", bson.A{}}}},
					"$capacity",
				}}},
			}},
		},
	}
	update := bson.M{
		"$addToSet": bson.M{"attendees": userID},
		"$set":      bson.M{"updatedAt": now},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	e := &domain.Event{}
	if err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(e); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrConditionFailed
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) RemoveAttendee(ctx context.Context, eventID, userID string) error {
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": eventID}, bson.M{
		"$pull": bson.M{"attendees": userID},
		"$set":  bson.M{"updatedAt": time.Now()},
	})
	return err
}
