// Package storage is the MongoDB persistence collaborator: accounts,
// persisted rooms and chat history. The realtime core talks to it only
// through the app.MessageStore interface and only best-effort.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrNotFound = errors.New("not found")

type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

func Connect(ctx context.Context, uri, dbName string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	s := &Store{client: client, db: client.Database(dbName)}
	if err := s.ensureIndexes(ctx); err != nil {
		log.Warn().Err(err).Str("module", "storage").Msg("index creation failed")
	}
	log.Info().Str("module", "storage").Str("db", dbName).Msg("mongo connected")
	return s, nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) Messages() *MessageStore {
	return &MessageStore{coll: s.db.Collection("messages")}
}

func (s *Store) Users() *UserStore {
	return &UserStore{coll: s.db.Collection("users")}
}

func (s *Store) Rooms() *RoomStore {
	return &RoomStore{coll: s.db.Collection("rooms")}
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	_, err := s.db.Collection("messages").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "room_id", Value: 1}, {Key: "timestamp", Value: -1}},
	})
	if err != nil {
		return err
	}
	_, err = s.db.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}
	_, err = s.db.Collection("rooms").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "room_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
