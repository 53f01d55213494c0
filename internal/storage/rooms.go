package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linkup/linkup-server/internal/domain"
)

var ErrRoomExists = errors.New("room already exists")

type RoomStore struct {
	coll *mongo.Collection
}

func (r *RoomStore) Create(ctx context.Context, id domain.RoomID, name string, createdBy domain.UserID) (*domain.Room, error) {
	if name == "" {
		name = "Meeting Room"
	}
	room := domain.Room{
		ID:        id,
		Name:      name,
		CreatedBy: createdBy,
		Settings:  domain.DefaultRoomSettings(),
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := r.coll.InsertOne(ctx, room); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrRoomExists
		}
		return nil, fmt.Errorf("insert room: %w", err)
	}
	return &room, nil
}

func (r *RoomStore) Get(ctx context.Context, id domain.RoomID) (*domain.Room, error) {
	var room domain.Room
	err := r.coll.FindOne(ctx, bson.M{"room_id": string(id), "is_active": true}).Decode(&room)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find room: %w", err)
	}
	return &room, nil
}

// AddParticipant appends to the attendance log, or stamps a fresh
// joinedAt when the user reappears. The room is created on the fly if
// nobody made it through the create endpoint first.
func (r *RoomStore) AddParticipant(ctx context.Context, id domain.RoomID, userID domain.UserID, name string) error {
	now := time.Now().UTC()

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"room_id": string(id), "is_active": true, "participants.user_id": string(userID)},
		bson.M{"$set": bson.M{
			"participants.$.joined_at": now,
			"participants.$.left_at":   nil,
		}},
	)
	if err != nil {
		return fmt.Errorf("update participant: %w", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	_, err = r.coll.UpdateOne(ctx,
		bson.M{"room_id": string(id), "is_active": true},
		bson.M{
			"$push": bson.M{"participants": domain.RoomParticipant{UserID: userID, Name: name, JoinedAt: now}},
			"$setOnInsert": bson.M{
				"name":       "Meeting Room",
				"created_by": string(userID),
				"settings":   domain.DefaultRoomSettings(),
				"created_at": now,
			},
		},
		// upsert keeps parity with the signaling side, where a room
		// springs into being on first join
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("add participant: %w", err)
	}
	return nil
}

func (r *RoomStore) MarkLeft(ctx context.Context, id domain.RoomID, userID domain.UserID) error {
	now := time.Now().UTC()
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"room_id": string(id), "participants.user_id": string(userID)},
		bson.M{"$set": bson.M{"participants.$.left_at": now}},
	)
	if err != nil {
		return fmt.Errorf("mark left: %w", err)
	}
	return nil
}

func (r *RoomStore) End(ctx context.Context, id domain.RoomID) error {
	now := time.Now().UTC()
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"room_id": string(id)},
		bson.M{"$set": bson.M{"is_active": false, "ended_at": now}},
	)
	if err != nil {
		return fmt.Errorf("end room: %w", err)
	}
	return nil
}
