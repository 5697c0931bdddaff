package repository

import (
	"context"
	"errors"
	"time"

	"lexlink/internal/entity"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrConversationNotFound = errors.New("conversation not found")

type ConversationRepository interface {
	Get(ctx context.Context, conversationId string) (entity.Conversation, error)
	GetByParticipants(ctx context.Context, userIdA, userIdB string) (entity.Conversation, error)
	Create(ctx context.Context, participantOne, participantTwo string) (entity.Conversation, error)
	Touch(ctx context.Context, conversationId string, at time.Time) error
	IndexByUser(ctx context.Context, userId string) ([]entity.Conversation, error)
}

// PairKey normalizes an unordered participant pair into a single lookup
// key, so that (a,b) and (b,a) resolve to the same conversation.
func PairKey(userIdA, userIdB string) string {
	if userIdB < userIdA {
		userIdA, userIdB = userIdB, userIdA
	}
	return userIdA + "|" + userIdB
}

type conversationRepository struct {
	db *mongo.Database
}

func NewConversationRepository(db *mongo.Database) ConversationRepository {
	return &conversationRepository{
		db: db,
	}
}

// EnsureConversationIndexes creates the unique pairKey index that backs the
// one-conversation-per-pair invariant, plus the per-user listing indexes.
func EnsureConversationIndexes(ctx context.Context, db *mongo.Database) error {
	collection := db.Collection("conversations")
	_, err := collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "pairKey", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "participantOne", Value: 1}, {Key: "updatedAt", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "participantTwo", Value: 1}, {Key: "updatedAt", Value: -1}},
		},
	})
	return err
}

func (r *conversationRepository) Get(ctx context.Context, conversationId string) (entity.Conversation, error) {
	collection := r.db.Collection("conversations")
	filter := bson.M{"_id": conversationId}

	var conversation entity.Conversation
	err := collection.FindOne(ctx, filter).Decode(&conversation)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return entity.Conversation{}, ErrConversationNotFound
		}
		return entity.Conversation{}, err
	}

	return conversation, nil
}

// GetByParticipants looks up the conversation for an unordered pair.
// Either argument ordering resolves to the same record.
func (r *conversationRepository) GetByParticipants(ctx context.Context, userIdA, userIdB string) (entity.Conversation, error) {
	collection := r.db.Collection("conversations")
	filter := bson.M{"pairKey": PairKey(userIdA, userIdB)}

	var conversation entity.Conversation
	err := collection.FindOne(ctx, filter).Decode(&conversation)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return entity.Conversation{}, ErrConversationNotFound
		}
		return entity.Conversation{}, err
	}

	return conversation, nil
}

// Create inserts a new conversation for the pair. Two first-contact sends
// can race past the pre-insert lookup; the unique pairKey index arbitrates,
// and the loser re-fetches the winning row instead of failing.
func (r *conversationRepository) Create(ctx context.Context, participantOne, participantTwo string) (entity.Conversation, error) {
	collection := r.db.Collection("conversations")

	now := time.Now()
	conversation := entity.Conversation{
		Id:             uuid.New().String(),
		ParticipantOne: participantOne,
		ParticipantTwo: participantTwo,
		PairKey:        PairKey(participantOne, participantTwo),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	_, err := collection.InsertOne(ctx, conversation)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return r.GetByParticipants(ctx, participantOne, participantTwo)
		}
		return entity.Conversation{}, err
	}

	return conversation, nil
}

// Touch bumps updatedAt. $max keeps it monotonically non-decreasing under
// concurrent sends.
func (r *conversationRepository) Touch(ctx context.Context, conversationId string, at time.Time) error {
	collection := r.db.Collection("conversations")
	filter := bson.M{"_id": conversationId}
	update := bson.M{
		"$max": bson.M{
			"updatedAt": at,
		},
	}
	_, err := collection.UpdateOne(ctx, filter, update)

	return err
}

// IndexByUser returns every conversation where userId occupies either slot,
// newest updatedAt first.
func (r *conversationRepository) IndexByUser(ctx context.Context, userId string) ([]entity.Conversation, error) {
	collection := r.db.Collection("conversations")
	filter := bson.M{
		"$or": bson.A{
			bson.M{"participantOne": userId},
			bson.M{"participantTwo": userId},
		},
	}

	opts := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}})

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	var conversations []entity.Conversation
	err = cursor.All(ctx, &conversations)
	if err != nil {
		return nil, err
	}

	return conversations, nil
}
