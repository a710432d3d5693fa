package models

import (
	"time"

	"github.com/lib/pq"
)

// Hall models a bookable venue within an institution.
type Hall struct {
	ID           string         `db:"id" json:"id"`
	Name         string         `db:"name" json:"name"`
	Location     string         `db:"location" json:"location"`
	Capacity     int            `db:"capacity" json:"capacity"`
	Amenities    pq.StringArray `db:"amenities" json:"amenities"`
	Institution  string         `db:"institution" json:"institution"`
	CreatorEmail string         `db:"creator_email" json:"creatorEmail"`
	CreatedAt    time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updatedAt"`
}

// HallFilter defines filters supported by hall list endpoints.
type HallFilter struct {
	Institution string
	Search      string
}
