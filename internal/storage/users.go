package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/linkup/linkup-server/internal/domain"
)

var ErrEmailTaken = errors.New("email already registered")

type UserStore struct {
	coll *mongo.Collection
}

type userDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	Password  string             `bson:"password"`
	CreatedAt time.Time          `bson:"created_at"`
}

// UserRecord pairs the public profile with the password hash, which
// stays inside this package's callers in internal/adapters/http.
type UserRecord struct {
	User         domain.User
	PasswordHash string
}

func (u *UserStore) Create(ctx context.Context, name, email, passwordHash string) (domain.User, error) {
	doc := userDoc{
		Name:      name,
		Email:     strings.ToLower(email),
		Password:  passwordHash,
		CreatedAt: time.Now().UTC(),
	}
	res, err := u.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.User{}, ErrEmailTaken
		}
		return domain.User{}, fmt.Errorf("insert user: %w", err)
	}
	oid := res.InsertedID.(primitive.ObjectID)
	return domain.User{ID: domain.UserID(oid.Hex()), Name: name, Email: doc.Email}, nil
}

func (u *UserStore) FindByEmail(ctx context.Context, email string) (*UserRecord, error) {
	var doc userDoc
	err := u.coll.FindOne(ctx, bson.M{"email": strings.ToLower(email)}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &UserRecord{
		User:         domain.User{ID: domain.UserID(doc.ID.Hex()), Name: doc.Name, Email: doc.Email},
		PasswordHash: doc.Password,
	}, nil
}

func (u *UserStore) FindByID(ctx context.Context, id domain.UserID) (domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(string(id))
	if err != nil {
		return domain.User{}, ErrNotFound
	}
	var doc userDoc
	err = u.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.User{}, ErrNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("find user: %w", err)
	}
	return domain.User{ID: domain.UserID(doc.ID.Hex()), Name: doc.Name, Email: doc.Email}, nil
}
