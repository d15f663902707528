package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/notehub/notehub-api/internal/core/domain"
)

const eventCollection = "asset_events"

// EventRepository persists the asset audit trail.
type EventRepository struct {
	coll    *mongo.Collection
	timeout time.Duration
}

func NewEventRepository(db *mongo.Database, timeout time.Duration) *EventRepository {
	return &EventRepository{coll: db.Collection(eventCollection), timeout: timeout}
}

type mongoEvent struct {
	Type         string `bson:"type"`
	ResourceType string `bson:"resource_type"`
	ResourceID   string `bson:"resource_id"`
	OwnerID      string `bson:"owner_id"`
	ActorID      string `bson:"actor_id"`
	GranteeID    string `bson:"grantee_id,omitempty"`
	Level        string `bson:"access_level,omitempty"`
	OccurredAt   int64  `bson:"occurred_at"`
}

func (r *EventRepository) Insert(ctx context.Context, event *domain.AssetEvent) error {
	ctx, cancel := opContext(ctx, r.timeout)
	defer cancel()

	doc := mongoEvent{
		Type:         event.Type,
		ResourceType: string(event.ResourceType),
		ResourceID:   event.ResourceID,
		OwnerID:      event.OwnerID,
		ActorID:      event.ActorID,
		GranteeID:    event.GranteeID,
		Level:        string(event.Level),
		OccurredAt:   event.OccurredAt.Unix(),
	}
	_, err := r.coll.InsertOne(ctx, doc)
	return translate(err, nil)
}

func (r *EventRepository) ListForResource(ctx context.Context, resourceType domain.ResourceType, resourceID string, limit int) ([]domain.AssetEvent, error) {
	ctx, cancel := opContext(ctx, r.timeout)
	defer cancel()

	if limit <= 0 {
		limit = 50
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "occurred_at", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := r.coll.Find(ctx, bson.M{
		"resource_type": string(resourceType),
		"resource_id":   resourceID,
	}, opts)
	if err != nil {
		return nil, translate(err, nil)
	}
	defer cur.Close(ctx)

	var events []domain.AssetEvent
	for cur.Next(ctx) {
		var me mongoEvent
		if err := cur.Decode(&me); err != nil {
			return nil, translate(err, nil)
		}
		events = append(events, domain.AssetEvent{
			Type:         me.Type,
			ResourceType: domain.ResourceType(me.ResourceType),
			ResourceID:   me.ResourceID,
			OwnerID:      me.OwnerID,
			ActorID:      me.ActorID,
			GranteeID:    me.GranteeID,
			Level:        domain.AccessLevel(me.Level),
			OccurredAt:   unixToTime(me.OccurredAt),
		})
	}
	return events, translate(cur.Err(), nil)
}
