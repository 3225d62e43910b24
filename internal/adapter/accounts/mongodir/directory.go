// Package mongodir resolves owner names against the accounts collection.
package mongodir

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/light-bringer/advert-catalog/internal/app/advert/contracts"
)

// CollectionName holds one document per account.
const CollectionName = "users"

// Connect opens and pings a MongoDB client.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return client, nil
}

// Directory looks accounts up by username.
type Directory struct {
	users *mongo.Collection
}

// New creates a Directory over db's users collection.
func New(db *mongo.Database) *Directory {
	return &Directory{users: db.Collection(CollectionName)}
}

type accountDoc struct {
	ID       interface{} `bson:"_id"`
	Username string      `bson:"username,omitempty"`
	Email    string      `bson:"email,omitempty"`
}

// LookupByName returns the account id for a username.
func (d *Directory) LookupByName(ctx context.Context, name string) (string, bool, error) {
	var doc accountDoc
	err := d.users.FindOne(ctx,
		bson.M{"username": name},
		options.FindOne().SetProjection(bson.M{"_id": 1}),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to look up account %q: %w", name, err)
	}

	id, err := AccountID(doc.ID)
	if err != nil {
		return "", false, err
	}
	return id, true, nil
}

// LookupByID returns the public profile of an account.
func (d *Directory) LookupByID(ctx context.Context, accountID string) (*contracts.Account, bool, error) {
	var doc accountDoc
	err := d.users.FindOne(ctx,
		IDFilter(accountID),
		options.FindOne().SetProjection(bson.M{"_id": 1, "username": 1, "email": 1}),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to look up account %q: %w", accountID, err)
	}

	id, err := AccountID(doc.ID)
	if err != nil {
		return nil, false, err
	}
	return &contracts.Account{ID: id, Name: doc.Username, Email: doc.Email}, true, nil
}

// IDFilter matches an _id stored either as an ObjectID or as a plain string.
func IDFilter(accountID string) bson.M {
	oid, err := primitive.ObjectIDFromHex(accountID)
	if err != nil {
		return bson.M{"_id": accountID}
	}
	return bson.M{"_id": bson.M{"$in": bson.A{oid, accountID}}}
}

// AccountID renders a document _id the way tokens carry it.
func AccountID(raw interface{}) (string, error) {
	switch id := raw.(type) {
	case primitive.ObjectID:
		return id.Hex(), nil
	case string:
		return id, nil
	default:
		return "", fmt.Errorf("unsupported account id type %T", raw)
	}
}
