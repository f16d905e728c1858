package models

import "time"

type Banner struct {
	ID        int64     `bson:"_id" json:"id"`
	Title     string    `bson:"title" json:"title"`
	Image     string    `bson:"image" json:"image"`
	Link      string    `bson:"link,omitempty" json:"link,omitempty"`
	Active    bool      `bson:"active" json:"active"`
	SortOrder int       `bson:"sortOrder" json:"sortOrder"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
