package models

import (
	"database/sql"
	"fmt"
	"time"
)

// Post type constants
const (
	TypeHave = "have"
	TypeNeed = "need"
)

// Post priority constants
const (
	PriorityShort = "short"
	PriorityMid   = "mid"
	PriorityLong  = "long"
)

// priorityDisplay maps the priority enum to its display string
var priorityDisplay = map[string]string{
	PriorityShort: "Immediate / Life-Saving",
	PriorityMid:   "Mid-Term / Life-Sustaining",
	PriorityLong:  "Long-Term / Life-Enhancing",
}

// Units is the fixed vocabulary for the unit field. The empty string
// means the post's number is unitless.
var Units = []string{"", "items", "people", "kg", "liters", "boxes", "pallets", "hours"}

// Post represents a "have" or "need" listing
type Post struct {
	ID         int64         `gorm:"primaryKey;autoIncrement;column:id"`
	CreatedAt  time.Time     `gorm:"not null;autoCreateTime;column:created_at"`
	Title      string        `gorm:"type:varchar(200);not null;column:title"`
	Type       string        `gorm:"type:varchar(10);not null;default:'need';column:type"`
	Priority   string        `gorm:"type:varchar(10);not null;default:'mid';column:priority"`
	Location   string        `gorm:"type:varchar(100);not null;column:location"`
	Geostamp   string        `gorm:"type:varchar(100);not null;default:'';column:geostamp"`
	TimeStart  time.Time     `gorm:"not null;column:time_start"`
	TimeEnd    sql.NullTime  `gorm:"column:time_end"`
	CategoryID int64         `gorm:"not null;column:category_id"`
	ContactID  sql.NullInt64 `gorm:"column:contact_id"`
	Content    string        `gorm:"type:text;not null;column:content"`
	Responses  int           `gorm:"not null;default:0;column:responses"`
	Fulfilled  bool          `gorm:"not null;default:false;column:fulfilled"`
	Object     string        `gorm:"type:varchar(200);not null;default:'';column:object"`
	Number     int           `gorm:"not null;default:0;column:number"`
	Unit       string        `gorm:"type:varchar(20);not null;default:'';column:unit"`

	// Relationships
	Category *Category `gorm:"foreignKey:CategoryID;references:ID"`
	Contact  *User     `gorm:"foreignKey:ContactID;references:ID"`
	Replies  []Reply   `gorm:"foreignKey:PostID;references:ID"`
}

// TableName specifies the table name for Post
func (Post) TableName() string {
	return "posts"
}

// PriorityFull returns the display string for the post's priority.
// It errors on values outside the priority enum, which should be
// unreachable for posts that passed create validation.
func (p *Post) PriorityFull() (string, error) {
	full, ok := priorityDisplay[p.Priority]
	if !ok {
		return "", fmt.Errorf("unknown priority %q", p.Priority)
	}
	return full, nil
}

// AbsoluteURL returns the canonical site-relative path for the post
func (p *Post) AbsoluteURL() string {
	return fmt.Sprintf("/post/%d", p.ID)
}

// IsOpenAt reports whether the post is open at the given instant: it has
// started, has not been marked fulfilled, and its end time (when set)
// has not passed. An end time earlier than the start time means the post
// never appears open.
func (p *Post) IsOpenAt(now time.Time) bool {
	if p.Fulfilled {
		return false
	}
	if p.TimeStart.After(now) {
		return false
	}
	if p.TimeEnd.Valid && p.TimeEnd.Time.Before(now) {
		return false
	}
	return true
}

// ValidType reports whether t is a member of the post type enum
func ValidType(t string) bool {
	return t == TypeHave || t == TypeNeed
}

// ValidPriority reports whether p is a member of the priority enum
func ValidPriority(p string) bool {
	_, ok := priorityDisplay[p]
	return ok
}

// ValidUnit reports whether u is in the unit vocabulary
func ValidUnit(u string) bool {
	for _, unit := range Units {
		if u == unit {
			return true
		}
	}
	return false
}
