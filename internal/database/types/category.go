package types

import (
	"errors"
	"time"
)

var (
	ErrCategoryNotFound      = errors.New("category not found")
	ErrCategoryInactive      = errors.New("category is inactive")
	ErrDuplicateCategorySlug = errors.New("category slug already exists")
	ErrCategoryDepth         = errors.New("categories cannot be nested more than two levels")
	ErrCategoryCycle         = errors.New("category cannot be its own ancestor")
)

// Category is a node in the two-level forum taxonomy.
type Category struct {
	ID           int64     `bun:",pk,autoincrement"      json:"id"`
	Name         string    `bun:",notnull"               json:"name"`
	Slug         string    `bun:",notnull,unique"        json:"slug"`
	Description  string    `bun:",notnull"               json:"description"`
	ParentID     int64     `bun:",nullzero"              json:"parentId,omitempty"`
	Level        int       `bun:",notnull"               json:"level"`
	DisplayOrder int       `bun:",notnull"               json:"displayOrder"`
	IsActive     bool      `bun:",notnull,default:true"  json:"isActive"`
	TopicCount   int       `bun:",notnull,default:0"     json:"topicCount"`
	CreatedAt    time.Time `bun:",notnull"               json:"createdAt"`

	Children []*Category `bun:"-" json:"children,omitempty"`
}

// CategoryModerator grants a user moderation rights scoped to one category.
type CategoryModerator struct {
	CategoryID int64     `bun:",pk" json:"categoryId"`
	UserID     int64     `bun:",pk" json:"userId"`
	AssignedBy int64     `bun:",notnull" json:"assignedBy"`
	AssignedAt time.Time `bun:",notnull" json:"assignedAt"`
}
