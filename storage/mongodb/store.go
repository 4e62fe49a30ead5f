// Package mongodb persists accounts in a MongoDB collection. Email and
// username uniqueness is enforced by unique indexes, which makes
// concurrent creates race-safe: the index decides the winner and the
// loser gets a duplicate key error classified back into the domain
// conflict errors.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/avocadoapp/identity/auth"
)

const collectionName = "accounts"

// Index names referenced when classifying duplicate key errors.
const (
	idxEmail     = "uniq_email"
	idxUsername  = "uniq_username"
	idxAccountID = "uniq_account_id"
)

// Store implements auth.CredentialStore on a MongoDB collection.
type Store struct {
	col *mongo.Collection
}

// New creates a store over the accounts collection of the given
// database. Call EnsureIndexes before serving traffic.
func New(db *mongo.Database) *Store {
	return &Store{col: db.Collection(collectionName)}
}

// EnsureIndexes creates the unique indexes the store's atomicity
// guarantees depend on. It is idempotent.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "accountId", Value: 1}},
			Options: options.Index().SetUnique(true).SetName(idxAccountID),
		},
		{
			// Partial: accounts without an email (provider withheld it)
			// must not collide with each other on "".
			Keys: bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName(idxEmail).
				SetPartialFilterExpression(bson.M{"email": bson.M{"$gt": ""}}),
		},
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true).SetName(idxUsername),
		},
	})
	if err != nil {
		return fmt.Errorf("create account indexes: %w", err)
	}
	return nil
}

func (s *Store) FindByEmail(ctx context.Context, email string) (*auth.Account, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

func (s *Store) FindByAccountID(ctx context.Context, accountID string) (*auth.Account, error) {
	return s.findOne(ctx, bson.M{"accountId": accountID})
}

func (s *Store) findOne(ctx context.Context, filter bson.M) (*auth.Account, error) {
	var acct auth.Account
	if err := s.col.FindOne(ctx, filter).Decode(&acct); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, auth.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return &acct, nil
}

func (s *Store) UsernameExists(ctx context.Context, username string) (bool, error) {
	return s.exists(ctx, bson.M{"username": username})
}

func (s *Store) EmailExists(ctx context.Context, email string) (bool, error) {
	return s.exists(ctx, bson.M{"email": email})
}

func (s *Store) exists(ctx context.Context, filter bson.M) (bool, error) {
	n, err := s.col.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count accounts: %w", err)
	}
	return n > 0, nil
}

// Create inserts the account. CreatedAt and UpdatedAt are set here;
// duplicate email or username surfaces as the matching domain error.
func (s *Store) Create(ctx context.Context, acct *auth.Account) error {
	now := time.Now().UTC()
	acct.CreatedAt = now
	acct.UpdatedAt = now

	if _, err := s.col.InsertOne(ctx, acct); err != nil {
		if conflictErr := classifyDuplicate(err); conflictErr != nil {
			return conflictErr
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// ApplyUpdate sets the non-nil fields of upd and returns the updated
// document. An email or username update can still lose to the unique
// index and comes back as the matching conflict error.
func (s *Store) ApplyUpdate(ctx context.Context, accountID string, upd auth.AccountUpdate) (*auth.Account, error) {
	set := updateDoc(upd)

	var acct auth.Account
	err := s.col.FindOneAndUpdate(ctx,
		bson.M{"accountId": accountID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&acct)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, auth.ErrAccountNotFound
		}
		if conflictErr := classifyDuplicate(err); conflictErr != nil {
			return nil, conflictErr
		}
		return nil, fmt.Errorf("update account: %w", err)
	}
	return &acct, nil
}

func (s *Store) SetToken(ctx context.Context, accountID, token string) error {
	res, err := s.col.UpdateOne(ctx,
		bson.M{"accountId": accountID},
		bson.M{"$set": bson.M{"sessionToken": token, "updatedAt": time.Now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("set session token: %w", err)
	}
	if res.MatchedCount == 0 {
		return auth.ErrAccountNotFound
	}
	return nil
}

// updateDoc translates a partial update into a $set document. UpdatedAt
// is always refreshed.
func updateDoc(upd auth.AccountUpdate) bson.M {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if upd.Username != nil {
		set["username"] = *upd.Username
	}
	if upd.Email != nil {
		set["email"] = *upd.Email
	}
	if upd.PasswordHash != nil {
		set["passwordHash"] = *upd.PasswordHash
	}
	if upd.Bio != nil {
		set["bio"] = *upd.Bio
	}
	if upd.Birthdate != nil {
		set["birthdate"] = *upd.Birthdate
	}
	if upd.AvatarURL != nil {
		set["avatarUrl"] = *upd.AvatarURL
	}
	if upd.LastEmailChange != nil {
		set["lastEmailChange"] = *upd.LastEmailChange
	}
	return set
}

// classifyDuplicate maps a duplicate key error onto the domain conflict
// it violates, or returns nil for any other error. The server names the
// violated index in the error message.
func classifyDuplicate(err error) error {
	if !mongo.IsDuplicateKeyError(err) {
		return nil
	}
	switch {
	case strings.Contains(err.Error(), idxUsername):
		return auth.ErrUsernameTaken
	case strings.Contains(err.Error(), idxAccountID):
		return auth.ErrAccountIDTaken
	default:
		return auth.ErrEmailTaken
	}
}

var _ auth.CredentialStore = (*Store)(nil)
