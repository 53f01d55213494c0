package storage

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linkup/linkup-server/internal/domain"
)

type MessageStore struct {
	coll *mongo.Collection
}

type messageDoc struct {
	ID         primitive.ObjectID    `bson:"_id,omitempty"`
	RoomID     string                `bson:"room_id"`
	SenderID   string                `bson:"sender_id"`
	SenderName string                `bson:"sender_name"`
	Type       string                `bson:"type"`
	Content    domain.MessageContent `bson:"content"`
	Timestamp  time.Time             `bson:"timestamp"`
	IsDeleted  bool                  `bson:"is_deleted"`
}

// SaveMessage implements app.MessageStore.
func (m *MessageStore) SaveMessage(ctx context.Context, msg *domain.Message) (string, error) {
	res, err := m.coll.InsertOne(ctx, messageDoc{
		RoomID:     string(msg.RoomID),
		SenderID:   string(msg.SenderID),
		SenderName: msg.SenderName,
		Type:       string(msg.Type),
		Content:    msg.Content,
		Timestamp:  msg.Timestamp,
	})
	if err != nil {
		return "", fmt.Errorf("insert message: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

// ListByRoom returns the newest messages for a room, newest first,
// optionally only those older than `before` for paging.
func (m *MessageStore) ListByRoom(ctx context.Context, room domain.RoomID, before time.Time, limit int64) ([]domain.Message, error) {
	filter := bson.M{"room_id": string(room), "is_deleted": false}
	if !before.IsZero() {
		filter["timestamp"] = bson.M{"$lt": before}
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(limit)

	cur, err := m.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find messages: %w", err)
	}
	defer cur.Close(ctx)

	var docs []messageDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode messages: %w", err)
	}

	out := make([]domain.Message, 0, len(docs))
	for _, d := range docs {
		out = append(out, domain.Message{
			ID:         d.ID.Hex(),
			RoomID:     domain.RoomID(d.RoomID),
			SenderID:   domain.UserID(d.SenderID),
			SenderName: d.SenderName,
			Type:       domain.MessageType(d.Type),
			Content:    d.Content,
			Timestamp:  d.Timestamp,
		})
	}
	return out, nil
}
