package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const usersCollection = "users"

// Users is the repository over the users collection.
type Users struct {
	coll *mongo.Collection
}

func NewUsers(db *mongo.Database) *Users {
	return &Users{coll: db.Collection(usersCollection)}
}

// EnsureIndexes creates the unique email index. The index backs up the
// pre-insert existence check so a registration race cannot produce two
// accounts with the same email.
func (u *Users) EnsureIndexes(ctx context.Context) error {
	_, err := u.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("creating users indexes: %w", err)
	}
	return nil
}

func (u *Users) FindByID(ctx context.Context, id string) (*User, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	var user User
	if err := u.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("finding user by id: %w", err)
	}
	return &user, nil
}

func (u *Users) FindByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	if err := u.coll.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("finding user by email: %w", err)
	}
	return &user, nil
}

// FindByResetToken resolves a user whose outstanding reset token matches
// and has not expired. Expiry is checked here, lazily; expired tokens are
// never proactively purged.
func (u *Users) FindByResetToken(ctx context.Context, token string, now time.Time) (*User, error) {
	filter := bson.M{
		"resetToken":       token,
		"resetTokenExpiry": bson.M{"$gt": now},
	}

	var user User
	if err := u.coll.FindOne(ctx, filter).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("finding user by reset token: %w", err)
	}
	return &user, nil
}

// Insert stores a new user, stamping CreatedAt/UpdatedAt and filling ID.
// A unique-index violation on email maps to ErrDuplicateEmail.
func (u *Users) Insert(ctx context.Context, user *User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	result, err := u.coll.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("inserting user: %w", err)
	}

	if oid, ok := result.InsertedID.(bson.ObjectID); ok {
		user.ID = oid
	}
	return nil
}

// Update applies a partial $set to the user, refreshing updatedAt.
func (u *Users) Update(ctx context.Context, id string, set bson.M) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}
	if len(set) == 0 {
		return ErrEmptyFilter
	}

	update := bson.M{}
	for k, v := range set {
		update[k] = v
	}
	update["updatedAt"] = time.Now()

	result, err := u.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": update})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("updating user: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetResetToken persists a fresh token/expiry pair, overwriting any
// outstanding one. The old token is implicitly invalidated.
func (u *Users) SetResetToken(ctx context.Context, id string, token string, expiry time.Time) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}

	result, err := u.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{
			"resetToken":       token,
			"resetTokenExpiry": expiry,
			"updatedAt":        time.Now(),
		},
	})
	if err != nil {
		return fmt.Errorf("setting reset token: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ConsumeResetToken rewrites the password and clears the token fields in a
// single conditional update. The filter re-checks token and expiry at write
// time, so of two concurrent redemptions only one can match; the loser gets
// ErrNotFound.
func (u *Users) ConsumeResetToken(ctx context.Context, token string, passwordHash string, now time.Time) error {
	filter := bson.M{
		"resetToken":       token,
		"resetTokenExpiry": bson.M{"$gt": now},
	}
	update := bson.M{
		"$set": bson.M{
			"password":  passwordHash,
			"updatedAt": now,
		},
		"$unset": bson.M{
			"resetToken":       "",
			"resetTokenExpiry": "",
		},
	}

	result, err := u.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("consuming reset token: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListUsersOptions narrows and pages the user list.
type ListUsersOptions struct {
	Limit int64
	Skip  int64
}

func (u *Users) List(ctx context.Context, opts ListUsersOptions) ([]User, error) {
	findOpts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	if opts.Limit > 0 {
		findOpts = findOpts.SetLimit(opts.Limit)
	}
	if opts.Skip > 0 {
		findOpts = findOpts.SetSkip(opts.Skip)
	}

	cursor, err := u.coll.Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}

	var users []User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decoding users: %w", err)
	}
	return users, nil
}

func (u *Users) Delete(ctx context.Context, id string) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}

	result, err := u.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
