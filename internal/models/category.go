package models

import (
	"database/sql"
)

// Category is a node in the hierarchical post taxonomy
type Category struct {
	ID       int64         `gorm:"primaryKey;autoIncrement;column:id"`
	Name     string        `gorm:"type:varchar(200);not null;column:name"`
	Slug     string        `gorm:"type:varchar(200);not null;uniqueIndex:categories_slug_ux;column:slug"`
	ParentID sql.NullInt64 `gorm:"column:parent_id"`

	// Relationships
	Parent   *Category  `gorm:"foreignKey:ParentID;references:ID"`
	Children []Category `gorm:"foreignKey:ParentID;references:ID"`
}

// TableName specifies the table name for Category
func (Category) TableName() string {
	return "categories"
}

// WouldCycle reports whether re-parenting the category id under parentID
// would close a loop in the parent chain. parents maps category id to
// parent id for every category that has a parent; categories without a
// parent are absent from the map.
func WouldCycle(parents map[int64]int64, id, parentID int64) bool {
	if id == parentID {
		return true
	}
	steps := 0
	for cur := parentID; ; {
		if cur == id {
			return true
		}
		next, ok := parents[cur]
		if !ok {
			return false
		}
		cur = next
		steps++
		// A walk longer than the arena means the chain already loops.
		if steps > len(parents) {
			return true
		}
	}
}
