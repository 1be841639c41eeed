package entity

// Role is the coarse authorization tier of a user.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// User is the general basic structure of all users across the platform.
// PasswordHash is a bcrypt digest and must never be serialized.
type User struct {
	ID           int    `gorm:"primaryKey"`
	Username     string `gorm:"not null;uniqueIndex"`
	Email        string `gorm:"not null;uniqueIndex"`
	PasswordHash string `gorm:"not null"`
	Role         Role   `gorm:"not null;default:USER"`
	CreatedAt    int64  `gorm:"not null"`
	UpdatedAt    int64  `gorm:"not null;autoUpdateTime:false"`
}
