package models

import (
	"database/sql"
)

// User is the minimal account entity posts and replies reference.
// Authentication and registration live outside this service.
type User struct {
	ID        int64  `gorm:"primaryKey;autoIncrement;column:id"`
	Username  string `gorm:"type:varchar(30);not null;uniqueIndex:users_username_ux;column:username"`
	FirstName string `gorm:"type:varchar(30);not null;default:'';column:first_name"`
	LastName  string `gorm:"type:varchar(30);not null;default:'';column:last_name"`
	Email     string `gorm:"type:varchar(100);not null;default:'';column:email"`

	// Relationships
	Profile *UserProfile `gorm:"foreignKey:UserID;references:ID"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}

// UserProfile carries per-user contact details, one-to-one with User
type UserProfile struct {
	ID           int64          `gorm:"primaryKey;autoIncrement;column:id"`
	UserID       int64          `gorm:"not null;uniqueIndex:user_profiles_user_ux;column:user_id"`
	Phone        sql.NullString `gorm:"type:varchar(100);column:phone"`
	Organization string         `gorm:"type:varchar(200);not null;default:'';column:organization"`

	// Relationships
	User *User `gorm:"foreignKey:UserID;references:ID"`
}

// TableName specifies the table name for UserProfile
func (UserProfile) TableName() string {
	return "user_profiles"
}
