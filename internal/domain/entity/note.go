package entity

// Status is the lifecycle state of a note.
//
// Transitions: ACTIVE <-> ARCHIVED, and either of them -> DELETED.
// DELETED is terminal; deleted rows are excluded from all normal lookups,
// so no transition out of it is reachable through the API.
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusArchived Status = "ARCHIVED"
	StatusDeleted  Status = "DELETED"
)

// Visibility controls who may read a note, orthogonal to Status.
// PRIVATE notes are readable by the owner and admins only.
type Visibility string

const (
	VisibilityPublic  Visibility = "PUBLIC"
	VisibilityPrivate Visibility = "PRIVATE"
)

const (
	PriorityLow    = "LOW"
	PriorityMedium = "MEDIUM"
	PriorityHigh   = "HIGH"
)

// CanTransitionTo reports whether s may move to target via the status
// endpoint. Deletion goes through the delete operations, never through here.
func (s Status) CanTransitionTo(target Status) bool {
	switch target {
	case StatusActive:
		return s == StatusArchived
	case StatusArchived:
		return s == StatusActive
	default:
		return false
	}
}

// Note is a user-owned text note.
//
// Concurrent updates are last-writer-wins: there is no version column, a
// later Save overwrites an earlier one.
type Note struct {
	ID          int        `gorm:"primaryKey"`
	Title       string     `gorm:"not null"`
	Description string     `gorm:"not null"`
	OwnerID     int        `gorm:"not null;index"` // References: users(id)
	Category    string     `gorm:"not null;default:personal"`
	Priority    string     `gorm:"not null;default:MEDIUM"`
	Tags        string     `gorm:"not null"` // lowercased, space-joined
	Status      Status     `gorm:"not null;default:ACTIVE;index"`
	Visibility  Visibility `gorm:"not null;default:PRIVATE"`
	Date        int64      `gorm:"not null"` // user-facing date, defaults to creation time
	CreatedAt   int64      `gorm:"not null"`
	UpdatedAt   int64      `gorm:"not null;autoUpdateTime:false"`

	// Relations
	Owner       User         `gorm:"foreignKey:OwnerID;references:ID"`
	Attachments []Attachment `gorm:"foreignKey:NoteID;references:ID"`
}
