package mongodb

import (
	"context"
	"time"

	"github.com/cardroid/ruleta/internal/models"
	"github.com/cardroid/ruleta/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TrackingEventRepository stores analytics events in MongoDB
type TrackingEventRepository struct {
	collection *mongo.Collection
}

// NewTrackingEventRepository creates a repository over the named collection
func NewTrackingEventRepository(db *mongo.Database, collection string) repositories.TrackingEventRepository {
	return &TrackingEventRepository{
		collection: db.Collection(collection),
	}
}

// Create inserts an event, assigning its ID and timestamp when unset
func (r *TrackingEventRepository) Create(ctx context.Context, event *models.TrackingEvent) error {
	if event.ID.IsZero() {
		event.ID = primitive.NewObjectID()
	}
	if event.At.IsZero() {
		event.At = time.Now()
	}
	_, err := r.collection.InsertOne(ctx, event)
	return err
}

// FindBySession returns the newest events of a session first
func (r *TrackingEventRepository) FindBySession(ctx context.Context, sessionID string, limit int) ([]*models.TrackingEvent, error) {
	opts := options.Find().SetSort(bson.M{"at": -1})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.collection.Find(ctx, bson.M{"session_id": sessionID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []*models.TrackingEvent
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	if events == nil {
		events = []*models.TrackingEvent{}
	}
	return events, nil
}
