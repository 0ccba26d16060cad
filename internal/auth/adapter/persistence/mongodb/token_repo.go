package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ielts-genai-prep/internal/auth/domain/model"
	"ielts-genai-prep/internal/auth/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoTokenRepository implements the token and session repositories on
// MongoDB. Both collections carry a TTL index on expires_at, so expired
// entries are eventually garbage-collected by the server; correctness does
// not depend on that, every read re-checks expiry.
type MongoTokenRepository struct {
	tokensCollection   *mongo.Collection
	sessionsCollection *mongo.Collection
}

// NewMongoTokenRepository creates a new MongoDB token repository
func NewMongoTokenRepository(db *mongo.Database) (*MongoTokenRepository, error) {
	repo := &MongoTokenRepository{
		tokensCollection:   db.Collection("auth_tokens"),
		sessionsCollection: db.Collection("web_sessions"),
	}

	ctx := context.Background()

	// TTL index for tokens
	tokenTTLIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	}
	if _, err := repo.tokensCollection.Indexes().CreateOne(ctx, tokenTTLIndex); err != nil {
		return nil, err
	}

	// TTL index for sessions
	sessionTTLIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	}
	if _, err := repo.sessionsCollection.Indexes().CreateOne(ctx, sessionTTLIndex); err != nil {
		return nil, err
	}

	return repo, nil
}

// CreateToken stores a freshly issued token keyed by its ID.
func (r *MongoTokenRepository) CreateToken(ctx context.Context, token *model.AuthToken) error {
	if _, err := r.tokensCollection.InsertOne(ctx, token); err != nil {
		return fmt.Errorf("%w: %v", model.ErrStoreUnavailable, err)
	}
	return nil
}

// ConsumeToken flips the consumed flag with a single conditional update. The
// filter requires consumed=false and an unexpired token, so two racing
// callers can never both match; the loser falls through to the lookup below
// to learn which rejection applies.
func (r *MongoTokenRepository) ConsumeToken(ctx context.Context, tokenID string, now time.Time) (*model.AuthToken, error) {
	filter := bson.M{
		"_id":        tokenID,
		"consumed":   false,
		"expires_at": bson.M{"$gt": now},
	}
	update := bson.M{"$set": bson.M{"consumed": true}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var token model.AuthToken
	err := r.tokensCollection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&token)
	if err == nil {
		return &token, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: %v", model.ErrStoreUnavailable, err)
	}

	// The conditional update missed. Look the token up to report why;
	// whichever way this falls, access stays denied.
	var existing model.AuthToken
	err = r.tokensCollection.FindOne(ctx, bson.M{"_id": tokenID}).Decode(&existing)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// Unknown and TTL-deleted tokens read identically.
		return nil, model.ErrTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrStoreUnavailable, err)
	}
	if existing.Consumed {
		return nil, model.ErrTokenAlreadyUsed
	}
	return nil, model.ErrTokenExpired
}

// CreateSession persists a new session keyed by its ID.
func (r *MongoTokenRepository) CreateSession(ctx context.Context, session *model.WebSession) error {
	if _, err := r.sessionsCollection.InsertOne(ctx, session); err != nil {
		return fmt.Errorf("%w: %v", model.ErrStoreUnavailable, err)
	}
	return nil
}

// GetSessionByID returns the session or model.ErrSessionNotFound.
func (r *MongoTokenRepository) GetSessionByID(ctx context.Context, sessionID string) (*model.WebSession, error) {
	var session model.WebSession
	err := r.sessionsCollection.FindOne(ctx, bson.M{"_id": sessionID}).Decode(&session)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, model.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrStoreUnavailable, err)
	}
	return &session, nil
}

// DeleteSession removes a session. Absent sessions are a no-op.
func (r *MongoTokenRepository) DeleteSession(ctx context.Context, sessionID string) error {
	if _, err := r.sessionsCollection.DeleteOne(ctx, bson.M{"_id": sessionID}); err != nil {
		return fmt.Errorf("%w: %v", model.ErrStoreUnavailable, err)
	}
	return nil
}

// Interface guards
var (
	_ repository.TokenRepository   = (*MongoTokenRepository)(nil)
	_ repository.SessionRepository = (*MongoTokenRepository)(nil)
)
