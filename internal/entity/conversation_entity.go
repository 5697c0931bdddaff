package entity

import "time"

// Conversation is a durable two-party messaging thread. Exactly one
// conversation exists per unordered participant pair; PairKey is the
// normalized lookup key enforcing that.
type Conversation struct {
	Id             string    `bson:"_id" json:"id"`
	ParticipantOne string    `bson:"participantOne" json:"participantOne"`
	ParticipantTwo string    `bson:"participantTwo" json:"participantTwo"`
	PairKey        string    `bson:"pairKey" json:"-"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time `bson:"updatedAt" json:"updatedAt"`
}

// HasParticipant reports whether userId occupies either slot.
func (c Conversation) HasParticipant(userId string) bool {
	return c.ParticipantOne == userId || c.ParticipantTwo == userId
}

// OtherParticipant resolves the slot that is not userId. The second
// return value is false when userId is not a participant at all.
func (c Conversation) OtherParticipant(userId string) (string, bool) {
	switch userId {
	case c.ParticipantOne:
		return c.ParticipantTwo, true
	case c.ParticipantTwo:
		return c.ParticipantOne, true
	}
	return "", false
}

// ConversationSummary is the derived per-conversation view for one user.
type ConversationSummary struct {
	ConversationId   string    `json:"conversationId"`
	OtherParticipant User      `json:"otherParticipant"`
	LastMessage      *Message  `json:"lastMessage,omitempty"`
	UnreadCount      int64     `json:"unreadCount"`
	UpdatedAt        time.Time `json:"updatedAt"`
}
