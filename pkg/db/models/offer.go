package models

import (
	"time"

	"github.com/google/uuid"

	dbtypes "github.com/mvasseur/fripe-backend/pkg/db/types"
)

// Offer represents a marketplace listing. The owner is a weak reference
// resolved at read time; deleting a user does not cascade here.
type Offer struct {
	ID                 uuid.UUID                `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ProductName        string                   `gorm:"column:product_name;type:text;not null" json:"product_name"`
	ProductDescription string                   `gorm:"column:product_description;type:text" json:"product_description"`
	ProductPrice       float64                  `gorm:"column:product_price;not null" json:"product_price"`
	ProductDetails     dbtypes.OfferDetails     `gorm:"column:product_details;type:jsonb" json:"product_details"`
	ProductImage       *dbtypes.ImageDescriptor `gorm:"column:product_image;type:jsonb" json:"product_image,omitempty"`
	OwnerID            uuid.UUID                `gorm:"column:owner_id;type:uuid;not null;index" json:"-"`
	Owner              *User                    `gorm:"foreignKey:OwnerID" json:"-"`
	CreatedAt          time.Time                `gorm:"column:created_at;autoCreateTime" json:"-"`
	UpdatedAt          time.Time                `gorm:"column:updated_at;autoUpdateTime" json:"-"`
}
