package profiles

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dmitrijs2005/gophprofile/internal/client/models"
)

const (
	profilesCollection = "profiles"
	defaultTimeout     = 10 * time.Second
)

// MongoConfig captures the settings required to reach the document store.
type MongoConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// ConnectMongo establishes a client, verifies it with a ping and returns the
// selected database.
func ConnectMongo(ctx context.Context, cfg MongoConfig) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	return client, client.Database(cfg.Database), nil
}

// MongoStore keeps one document per user, with the user id as _id.
type MongoStore struct {
	col *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{col: db.Collection(profilesCollection)}
}

func (s *MongoStore) Read(ctx context.Context, userID string) (*models.ProfileRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var rec models.ProfileRecord
	err := s.col.FindOne(ctx, bson.M{"_id": userID}).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}
	return &rec, nil
}

func (s *MongoStore) Write(ctx context.Context, rec models.ProfileRecord) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := s.col.ReplaceOne(ctx, bson.M{"_id": rec.UserID}, rec, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("replace profile: %w", err)
	}
	return nil
}

func (s *MongoStore) Update(ctx context.Context, userID string, u models.ProfileUpdate) error {
	if u.IsEmpty() {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := s.col.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": updateDoc(u)})
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func updateDoc(u models.ProfileUpdate) bson.D {
	var set bson.D
	if u.DisplayName != nil {
		set = append(set, bson.E{Key: "display_name", Value: *u.DisplayName})
	}
	if u.DegreeTitle != nil {
		set = append(set, bson.E{Key: "degree_title", Value: *u.DegreeTitle})
	}
	if u.GraduationYear != nil {
		set = append(set, bson.E{Key: "graduation_year", Value: *u.GraduationYear})
	}
	if u.LastAccessAt != nil {
		set = append(set, bson.E{Key: "last_access_at", Value: *u.LastAccessAt})
	}
	return set
}
