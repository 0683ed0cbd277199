package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bookinghub/user-service/internal/core/domain"
	"github.com/bookinghub/user-service/internal/core/ports"
)

const usersCollection = "users"

type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection)}
}

// EnsureIndexes creates the unique index on username. This index is the
// authoritative guard against concurrent duplicate registrations; the
// service-level existence check is only a fast path.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("ensure username index: %w", err)
	}
	return nil
}

type mongoUser struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Username     string             `bson:"username"`
	PasswordHash string             `bson:"password_hash"`
	Role         string             `bson:"role"`
	Fullname     string             `bson:"fullname,omitempty"`
	DateOfBirth  string             `bson:"date_of_birth,omitempty"`
	Email        string             `bson:"email,omitempty"`
	PhoneNumber  string             `bson:"phone_number,omitempty"`
	Address      string             `bson:"address,omitempty"`
	Status       string             `bson:"status"`
	CreatedAt    int64              `bson:"created_at"`
	LastModified int64              `bson:"last_modified"`
}

func toDoc(u *domain.User) mongoUser {
	return mongoUser{
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		Fullname:     u.Fullname,
		DateOfBirth:  u.DateOfBirth,
		Email:        u.Email,
		PhoneNumber:  u.PhoneNumber,
		Address:      u.Address,
		Status:       u.Status,
		CreatedAt:    u.CreatedAt.Unix(),
		LastModified: u.LastModified.Unix(),
	}
}

func (mu mongoUser) toDomain() *domain.User {
	return &domain.User{
		ID:           mu.ID.Hex(),
		Username:     mu.Username,
		PasswordHash: mu.PasswordHash,
		Role:         domain.Role(mu.Role),
		Fullname:     mu.Fullname,
		DateOfBirth:  mu.DateOfBirth,
		Email:        mu.Email,
		PhoneNumber:  mu.PhoneNumber,
		Address:      mu.Address,
		Status:       mu.Status,
		CreatedAt:    unixToTime(mu.CreatedAt),
		LastModified: unixToTime(mu.LastModified),
	}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	_, err := r.coll.InsertOne(ctx, toDoc(user))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateUser
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	// Fetch back to get the generated ID.
	return r.FindByUsername(ctx, user.Username)
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var mu mongoUser
	if err := r.coll.FindOne(ctx, bson.M{"username": username}).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return mu.toDomain(), nil
}

// FindAll lists users matching the filter. Each non-empty field becomes a
// case-insensitive substring match on the corresponding document field.
func (r *UserRepository) FindAll(ctx context.Context, filter ports.ListUsersFilter) ([]*domain.User, error) {
	cursor, err := r.coll.Find(ctx, buildListFilter(filter))
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []*domain.User
	for cursor.Next(ctx) {
		var mu mongoUser
		if err := cursor.Decode(&mu); err != nil {
			return nil, fmt.Errorf("decode user: %w", err)
		}
		users = append(users, mu.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// buildListFilter translates the filter into a Mongo query document.
func buildListFilter(filter ports.ListUsersFilter) bson.M {
	query := bson.M{}
	add := func(field, value string) {
		if value != "" {
			query[field] = bson.M{"$regex": regexp.QuoteMeta(value), "$options": "i"}
		}
	}
	add("username", filter.Username)
	add("fullname", filter.Fullname)
	add("date_of_birth", filter.DateOfBirth)
	add("email", filter.Email)
	add("phone_number", filter.PhoneNumber)
	add("address", filter.Address)
	add("role", filter.Role)
	return query
}

func (r *UserRepository) UpdateByUsername(ctx context.Context, username string, patch ports.UserUpdate) (*domain.User, error) {
	set := bson.M{"last_modified": time.Now().UTC().Unix()}
	setIf := func(field string, value *string) {
		if value != nil {
			set[field] = *value
		}
	}
	setIf("fullname", patch.Fullname)
	setIf("date_of_birth", patch.DateOfBirth)
	setIf("email", patch.Email)
	setIf("phone_number", patch.PhoneNumber)
	setIf("address", patch.Address)

	res, err := r.coll.UpdateOne(ctx, bson.M{"username": username}, bson.M{"$set": set})
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrUserNotFound
	}
	return r.FindByUsername(ctx, username)
}

// SoftDelete marks a user deleted and returns the marked record. Documents
// are never removed from the collection.
func (r *UserRepository) SoftDelete(ctx context.Context, username string) (*domain.User, error) {
	update := bson.M{"$set": bson.M{
		"status":        domain.StatusDeleted,
		"last_modified": time.Now().UTC().Unix(),
	}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"username": username}, update)
	if err != nil {
		return nil, fmt.Errorf("soft delete user: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrUserNotFound
	}
	return r.FindByUsername(ctx, username)
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
