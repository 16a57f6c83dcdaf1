package models

import (
	"time"

	"github.com/google/uuid"

	dbtypes "github.com/mvasseur/fripe-backend/pkg/db/types"
)

// User represents the canonical identity entity. Hash, salt, and token
// never serialize; responses expose the public projection built in
// internal/users instead.
type User struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Email     string    `gorm:"column:email;type:text;not null;uniqueIndex" json:"email"`
	Account   Account   `gorm:"embedded;embeddedPrefix:account_" json:"account"`
	Token     string    `gorm:"column:token;type:text;not null;uniqueIndex" json:"-"`
	Hash      string    `gorm:"column:hash;type:text;not null" json:"-"`
	Salt      string    `gorm:"column:salt;type:text;not null" json:"-"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"-"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"-"`
}

// Account is the public-facing slice of a user record.
type Account struct {
	Username string                   `gorm:"column:username;type:text;not null" json:"username"`
	Phone    *string                  `gorm:"column:phone;type:text" json:"phone,omitempty"`
	Avatar   *dbtypes.ImageDescriptor `gorm:"column:avatar;type:jsonb" json:"avatar,omitempty"`
}
