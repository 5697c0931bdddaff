package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"lexlink/infrastructure/cache"
	"lexlink/internal/entity"
	"lexlink/internal/repository"
)

const (
	MaxContentLength = 1000
	MaxPageSize      = 100

	unreadCacheTTL = 10 * time.Second
)

var (
	ErrSelfMessage     = errors.New("cannot send a message to yourself")
	ErrBlankContent    = errors.New("message content cannot be blank")
	ErrContentTooLong  = errors.New("message content cannot exceed 1000 characters")
	ErrInvalidPage     = errors.New("page number cannot be negative")
	ErrInvalidPageSize = errors.New("page size must be between 1 and 100")
	ErrOwnMessageRead  = errors.New("cannot mark your own message as read")
	ErrNotParticipant  = errors.New("you are not a participant of this conversation")
)

// Delivery is the best-effort real-time push channel. Deliver skips
// silently when the recipient has no live connection; any push failure is
// caught by the messaging usecase and never reaches its caller.
type Delivery interface {
	IsConnected(userId string) bool
	Deliver(userId string, message entity.Message) error
}

type MessagingUsecase interface {
	SendMessage(ctx context.Context, senderId, receiverId, content string) (entity.Message, error)
	GetUserConversations(ctx context.Context, userId string) ([]entity.ConversationSummary, error)
	GetConversationMessages(ctx context.Context, conversationId, userId string, page, size int) (entity.MessagePage, error)
	MarkConversationAsRead(ctx context.Context, conversationId, userId string) error
	MarkMessageAsRead(ctx context.Context, messageId, userId string) error
	GetTotalUnreadCount(ctx context.Context, userId string) (int64, error)
}

type messagingUsecase struct {
	conversationRepo repository.ConversationRepository
	messageRepo      repository.MessageRepository
	userRepo         repository.UserRepository
	delivery         Delivery
	unreadCache      *cache.MemCache
}

func NewMessagingUsecase(
	conversationRepo repository.ConversationRepository,
	messageRepo repository.MessageRepository,
	userRepo repository.UserRepository,
	delivery Delivery,
	unreadCache *cache.MemCache,
) MessagingUsecase {
	return &messagingUsecase{
		conversationRepo: conversationRepo,
		messageRepo:      messageRepo,
		userRepo:         userRepo,
		delivery:         delivery,
		unreadCache:      unreadCache,
	}
}

// SendMessage validates, finds or creates the conversation for the pair,
// appends the message, bumps the conversation and finally attempts a
// best-effort push to the receiver. The message is durably committed
// before any delivery attempt, so a failed push never fails the send.
func (m *messagingUsecase) SendMessage(ctx context.Context, senderId, receiverId, content string) (entity.Message, error) {
	if err := m.requireUser(ctx, senderId); err != nil {
		return entity.Message{}, err
	}
	if err := m.requireUser(ctx, receiverId); err != nil {
		return entity.Message{}, err
	}
	if senderId == receiverId {
		return entity.Message{}, ErrSelfMessage
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return entity.Message{}, ErrBlankContent
	}
	if utf8.RuneCountInString(content) > MaxContentLength {
		return entity.Message{}, ErrContentTooLong
	}

	conversation, err := m.conversationRepo.GetByParticipants(ctx, senderId, receiverId)
	if err != nil {
		if !errors.Is(err, repository.ErrConversationNotFound) {
			return entity.Message{}, err
		}
		conversation, err = m.conversationRepo.Create(ctx, senderId, receiverId)
		if err != nil {
			return entity.Message{}, err
		}
	}

	message, err := m.messageRepo.Create(ctx, entity.Message{
		ConversationId: conversation.Id,
		SenderId:       senderId,
		Content:        content,
		IsRead:         false,
	})
	if err != nil {
		return entity.Message{}, err
	}

	if err := m.conversationRepo.Touch(ctx, conversation.Id, message.CreatedAt); err != nil {
		return entity.Message{}, fmt.Errorf("touch conversation: %w", err)
	}

	m.unreadCache.Delete(unreadCacheKey(receiverId))

	if err := m.delivery.Deliver(receiverId, message); err != nil {
		log.Printf("Deliver message %s to %s failed: %v", message.Id, receiverId, err)
	}

	return message, nil
}

// GetUserConversations returns one summary per conversation the user is in,
// newest activity first. Conversations whose other participant can no
// longer be resolved are dropped from the result rather than surfaced as
// an error or placeholder.
func (m *messagingUsecase) GetUserConversations(ctx context.Context, userId string) ([]entity.ConversationSummary, error) {
	conversations, err := m.conversationRepo.IndexByUser(ctx, userId)
	if err != nil {
		return nil, err
	}

	summaries := make([]entity.ConversationSummary, 0, len(conversations))
	for _, conversation := range conversations {
		otherId, ok := conversation.OtherParticipant(userId)
		if !ok {
			continue
		}

		other, err := m.userRepo.Get(ctx, otherId)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				continue
			}
			return nil, err
		}
		other.Password = ""

		summary := entity.ConversationSummary{
			ConversationId:   conversation.Id,
			OtherParticipant: other,
			UpdatedAt:        conversation.UpdatedAt,
		}

		latest, err := m.messageRepo.GetLatest(ctx, conversation.Id)
		if err == nil {
			summary.LastMessage = &latest
		} else if !errors.Is(err, repository.ErrMessageNotFound) {
			return nil, err
		}

		unread, err := m.messageRepo.CountUnread(ctx, conversation.Id, userId)
		if err != nil {
			return nil, err
		}
		summary.UnreadCount = unread

		summaries = append(summaries, summary)
	}

	return summaries, nil
}

// GetConversationMessages returns one page of the conversation's history,
// newest first, with pagination metadata.
func (m *messagingUsecase) GetConversationMessages(ctx context.Context, conversationId, userId string, page, size int) (entity.MessagePage, error) {
	conversation, err := m.requireParticipant(ctx, conversationId, userId)
	if err != nil {
		return entity.MessagePage{}, err
	}

	if page < 0 {
		return entity.MessagePage{}, ErrInvalidPage
	}
	if size < 1 || size > MaxPageSize {
		return entity.MessagePage{}, ErrInvalidPageSize
	}

	total, err := m.messageRepo.CountByConversation(ctx, conversation.Id)
	if err != nil {
		return entity.MessagePage{}, err
	}

	messages, err := m.messageRepo.GetByConversation(ctx, conversation.Id, page, size)
	if err != nil {
		return entity.MessagePage{}, err
	}
	if messages == nil {
		messages = []entity.Message{}
	}

	hasNext := int64(page+1)*int64(size) < total
	return entity.MessagePage{
		Items:       messages,
		TotalCount:  total,
		Page:        page,
		Size:        size,
		HasNext:     hasNext,
		HasPrevious: page > 0,
		First:       page == 0,
		Last:        !hasNext,
	}, nil
}

// MarkConversationAsRead flips every message addressed to userId in the
// conversation to read, as one bulk update. Repeat calls are no-ops.
func (m *messagingUsecase) MarkConversationAsRead(ctx context.Context, conversationId, userId string) error {
	conversation, err := m.requireParticipant(ctx, conversationId, userId)
	if err != nil {
		return err
	}

	if err := m.messageRepo.MarkConversationRead(ctx, conversation.Id, userId); err != nil {
		return err
	}

	m.unreadCache.Delete(unreadCacheKey(userId))
	return nil
}

// MarkMessageAsRead flips a single message to read. Only a participant who
// is not the sender may do so. Already-read messages are left untouched.
func (m *messagingUsecase) MarkMessageAsRead(ctx context.Context, messageId, userId string) error {
	message, err := m.messageRepo.Get(ctx, messageId)
	if err != nil {
		return err
	}

	conversation, err := m.conversationRepo.Get(ctx, message.ConversationId)
	if err != nil {
		return err
	}
	if !conversation.HasParticipant(userId) {
		return ErrNotParticipant
	}
	if message.SenderId == userId {
		return ErrOwnMessageRead
	}

	if message.IsRead {
		return nil
	}

	if err := m.messageRepo.MarkRead(ctx, message.Id); err != nil {
		return err
	}

	m.unreadCache.Delete(unreadCacheKey(userId))
	return nil
}

// GetTotalUnreadCount sums unread counts across all of the user's
// conversations. The result is cached briefly; senders and read
// transitions invalidate the cache.
func (m *messagingUsecase) GetTotalUnreadCount(ctx context.Context, userId string) (int64, error) {
	if cached, ok := m.unreadCache.Get(unreadCacheKey(userId)); ok {
		if total, ok := cached.(int64); ok {
			return total, nil
		}
	}

	conversations, err := m.conversationRepo.IndexByUser(ctx, userId)
	if err != nil {
		return 0, err
	}

	var total int64
	for _, conversation := range conversations {
		unread, err := m.messageRepo.CountUnread(ctx, conversation.Id, userId)
		if err != nil {
			return 0, err
		}
		total += unread
	}

	m.unreadCache.Set(unreadCacheKey(userId), total, unreadCacheTTL)
	return total, nil
}

func (m *messagingUsecase) requireUser(ctx context.Context, userId string) error {
	exists, err := m.userRepo.ExistsById(ctx, userId)
	if err != nil {
		return err
	}
	if !exists {
		return repository.ErrUserNotFound
	}
	return nil
}

func (m *messagingUsecase) requireParticipant(ctx context.Context, conversationId, userId string) (entity.Conversation, error) {
	if err := m.requireUser(ctx, userId); err != nil {
		return entity.Conversation{}, err
	}

	conversation, err := m.conversationRepo.Get(ctx, conversationId)
	if err != nil {
		return entity.Conversation{}, err
	}
	if !conversation.HasParticipant(userId) {
		return entity.Conversation{}, ErrNotParticipant
	}

	return conversation, nil
}

func unreadCacheKey(userId string) string {
	return "unread:" + userId
}
