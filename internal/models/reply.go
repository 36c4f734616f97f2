package models

import (
	"database/sql"
	"time"
)

// Reply represents a response to a post. Replies are owned by their
// post and are listed newest-first.
type Reply struct {
	ID        int64         `gorm:"primaryKey;autoIncrement;column:id"`
	PostID    int64         `gorm:"not null;index:replies_post_ix;column:post_id"`
	CreatedAt time.Time     `gorm:"not null;autoCreateTime;column:created_at"`
	SenderID  sql.NullInt64 `gorm:"column:sender_id"`
	Content   string        `gorm:"type:text;not null;column:content"`

	// Relationships
	Post   *Post `gorm:"foreignKey:PostID;references:ID;constraint:OnDelete:CASCADE"`
	Sender *User `gorm:"foreignKey:SenderID;references:ID"`
}

// TableName specifies the table name for Reply
func (Reply) TableName() string {
	return "replies"
}
