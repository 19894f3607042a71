package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/MrJamesThe3rd/findash/internal/user"
)

const UsersCollection = "users"

type userDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Email       string             `bson:"email"`
	Password    string             `bson:"password"`
	Name        string             `bson:"name"`
	Designation string             `bson:"designation,omitempty"`
	Phone       string             `bson:"phone,omitempty"`
	CreatedAt   time.Time          `bson:"created_at"`
}

func (d *userDoc) toUser() *user.User {
	return &user.User{
		ID:           d.ID.Hex(),
		Email:        d.Email,
		PasswordHash: d.Password,
		Name:         d.Name,
		Designation:  d.Designation,
		Phone:        d.Phone,
		CreatedAt:    d.CreatedAt.UTC(),
	}
}

type Mongo struct {
	coll *mongo.Collection
}

func NewMongo(db *mongo.Database) *Mongo {
	return &Mongo{coll: db.Collection(UsersCollection)}
}

// EnsureIndexes makes email unique across accounts.
func (m *Mongo) EnsureIndexes(ctx context.Context) error {
	_, err := m.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("creating user indexes: %w", err)
	}

	return nil
}

func (m *Mongo) CreateUser(ctx context.Context, u *user.User) error {
	doc := userDoc{
		ID:          primitive.NewObjectID(),
		Email:       u.Email,
		Password:    u.PasswordHash,
		Name:        u.Name,
		Designation: u.Designation,
		Phone:       u.Phone,
		CreatedAt:   time.Now().UTC(),
	}

	if _, err := m.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return user.ErrEmailTaken
		}

		return fmt.Errorf("creating user: %w", err)
	}

	u.ID = doc.ID.Hex()
	u.CreatedAt = doc.CreatedAt

	return nil
}

func (m *Mongo) GetUser(ctx context.Context, id string) (*user.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, user.ErrNotFound
	}

	return m.findOne(ctx, bson.D{{Key: "_id", Value: oid}})
}

func (m *Mongo) GetUserByEmail(ctx context.Context, email string) (*user.User, error) {
	return m.findOne(ctx, bson.D{{Key: "email", Value: email}})
}

func (m *Mongo) findOne(ctx context.Context, filter bson.D) (*user.User, error) {
	var doc userDoc
	if err := m.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, user.ErrNotFound
		}

		return nil, fmt.Errorf("finding user: %w", err)
	}

	return doc.toUser(), nil
}
