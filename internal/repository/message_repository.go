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

var ErrMessageNotFound = errors.New("message not found")

type MessageRepository interface {
	Get(ctx context.Context, messageId string) (entity.Message, error)
	Create(ctx context.Context, message entity.Message) (entity.Message, error)
	GetByConversation(ctx context.Context, conversationId string, page, size int) ([]entity.Message, error)
	CountByConversation(ctx context.Context, conversationId string) (int64, error)
	GetLatest(ctx context.Context, conversationId string) (entity.Message, error)
	CountUnread(ctx context.Context, conversationId, userId string) (int64, error)
	MarkRead(ctx context.Context, messageId string) error
	MarkConversationRead(ctx context.Context, conversationId, readerId string) error
}

type messageRepository struct {
	db *mongo.Database
}

func NewMessageRepository(db *mongo.Database) MessageRepository {
	return &messageRepository{
		db: db,
	}
}

func (r *messageRepository) Get(ctx context.Context, messageId string) (entity.Message, error) {
	collection := r.db.Collection("messages")
	filter := bson.M{"_id": messageId}

	var message entity.Message
	err := collection.FindOne(ctx, filter).Decode(&message)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return entity.Message{}, ErrMessageNotFound
		}
		return entity.Message{}, err
	}

	return message, nil
}

func (r *messageRepository) Create(ctx context.Context, message entity.Message) (entity.Message, error) {
	collection := r.db.Collection("messages")
	message.Id = uuid.New().String()
	message.CreatedAt = time.Now()

	_, err := collection.InsertOne(ctx, message)
	if err != nil {
		return entity.Message{}, err
	}

	return message, nil
}

// GetByConversation returns one page of a conversation's history,
// newest first. Ties on createdAt break on _id so pages are stable.
func (r *messageRepository) GetByConversation(ctx context.Context, conversationId string, page, size int) ([]entity.Message, error) {
	collection := r.db.Collection("messages")
	filter := bson.M{"conversationId": conversationId}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(page) * int64(size)).
		SetLimit(int64(size))

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	var messages []entity.Message
	err = cursor.All(ctx, &messages)
	if err != nil {
		return nil, err
	}

	return messages, nil
}

func (r *messageRepository) CountByConversation(ctx context.Context, conversationId string) (int64, error) {
	collection := r.db.Collection("messages")
	filter := bson.M{"conversationId": conversationId}

	return collection.CountDocuments(ctx, filter)
}

func (r *messageRepository) GetLatest(ctx context.Context, conversationId string) (entity.Message, error) {
	collection := r.db.Collection("messages")
	filter := bson.M{"conversationId": conversationId}

	opts := options.FindOne().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})

	var message entity.Message
	err := collection.FindOne(ctx, filter, opts).Decode(&message)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return entity.Message{}, ErrMessageNotFound
		}
		return entity.Message{}, err
	}

	return message, nil
}

// CountUnread counts messages in the conversation addressed to userId
// (not sent by them) that have not been marked read.
func (r *messageRepository) CountUnread(ctx context.Context, conversationId, userId string) (int64, error) {
	collection := r.db.Collection("messages")
	filter := bson.M{
		"conversationId": conversationId,
		"senderId":       bson.M{"$ne": userId},
		"isRead":         false,
	}

	return collection.CountDocuments(ctx, filter)
}

func (r *messageRepository) MarkRead(ctx context.Context, messageId string) error {
	collection := r.db.Collection("messages")
	filter := bson.M{"_id": messageId}
	update := bson.M{
		"$set": bson.M{
			"isRead": true,
		},
	}
	_, err := collection.UpdateOne(ctx, filter, update)

	return err
}

// MarkConversationRead flips every unread message not sent by readerId in
// a single bulk update. Calling it again matches nothing and still succeeds.
func (r *messageRepository) MarkConversationRead(ctx context.Context, conversationId, readerId string) error {
	collection := r.db.Collection("messages")
	filter := bson.M{
		"conversationId": conversationId,
		"senderId":       bson.M{"$ne": readerId},
		"isRead":         false,
	}
	update := bson.M{
		"$set": bson.M{
			"isRead": true,
		},
	}
	_, err := collection.UpdateMany(ctx, filter, update)

	return err
}
