package entity

import "time"

// Message is immutable once written except for the IsRead flag, which
// only ever transitions false to true.
type Message struct {
	Id             string    `bson:"_id" json:"id"`
	ConversationId string    `bson:"conversationId" json:"conversationId"`
	SenderId       string    `bson:"senderId" json:"senderId"`
	Content        string    `bson:"content" json:"content"`
	IsRead         bool      `bson:"isRead" json:"isRead"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
}

// MessagePage is one page of a conversation's history, newest first.
type MessagePage struct {
	Items       []Message `json:"items"`
	TotalCount  int64     `json:"totalCount"`
	Page        int       `json:"page"`
	Size        int       `json:"size"`
	HasNext     bool      `json:"hasNext"`
	HasPrevious bool      `json:"hasPrevious"`
	First       bool      `json:"first"`
	Last        bool      `json:"last"`
}
