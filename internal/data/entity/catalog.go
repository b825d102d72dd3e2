package entity

import (
	"github.com/google/uuid"
)

// Directory entities. Their CRUD lives in another service; this one
// only reads them for existence checks and roster expansion.

type Course struct {
	Base
	Name     string `db:"name"`
	IsActive bool   `db:"is_active"`
}

type ActivityType struct {
	Base
	Name     string `db:"name"`
	IsActive bool   `db:"is_active"`
}

type Instructor struct {
	Base
	FullName string `db:"full_name"`
	IsActive bool   `db:"is_active"`
}

type Location struct {
	Base
	Name     string `db:"name"`
	Capacity int    `db:"capacity"`
	IsActive bool   `db:"is_active"`
}

type Group struct {
	Base
	Name     string `db:"name"`
	IsActive bool   `db:"is_active"`
}

type GroupMember struct {
	BaseSimple
	GroupID   uuid.UUID `db:"group_id"`
	StudentID uuid.UUID `db:"student_id"`
	Status    string    `db:"status"`
}
