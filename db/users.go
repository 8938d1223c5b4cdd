package db

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tripwise/apperr"
	"tripwise/models"
	"tripwise/store"
)

type UserStore struct {
	coll *mongo.Collection
}

var _ store.UserStore = (*UserStore)(nil)

func NewUserStore(db *Database) *UserStore {
	return &UserStore{coll: db.UsersCollection}
}

func (s *UserStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	return findOne[models.User](ctx, s.coll, bson.M{"userid": id})
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return findOne[models.User](ctx, s.coll, bson.M{"email": strings.ToLower(email)})
}

func (s *UserStore) exists(ctx context.Context, filter bson.M) (bool, error) {
	n, err := s.coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	return n > 0, err
}

func (s *UserStore) EmailExists(ctx context.Context, email string) (bool, error) {
	return s.exists(ctx, bson.M{"email": strings.ToLower(email)})
}

// UsernameExists matches case-insensitively.
func (s *UserStore) UsernameExists(ctx context.Context, username string) (bool, error) {
	n, err := s.coll.CountDocuments(ctx, bson.M{"username": username},
		options.Count().SetLimit(1).SetCollation(&options.Collation{Locale: "en", Strength: 2}))
	return n > 0, err
}

// Add inserts u; a unique index race surfaces as a conflict.
func (s *UserStore) Add(ctx context.Context, u *models.User) error {
	_, err := s.coll.InsertOne(ctx, u)
	if mongo.IsDuplicateKeyError(err) {
		return apperr.Conflict(apperr.CodeEmailAlreadyExists, "Email or username already in use")
	}
	return err
}

func (s *UserStore) Update(ctx context.Context, u *models.User) error {
	return replaceOne(ctx, s.coll, bson.M{"userid": u.UserID}, u)
}
