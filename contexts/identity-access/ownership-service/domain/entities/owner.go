package entities

import "time"

// OwnerRecord names the single current owner of a resource.
type OwnerRecord struct {
	ResourceID string
	OwnerID    string
	AssignedAt time.Time
	UpdatedAt  time.Time
}
