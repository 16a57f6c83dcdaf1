package offers

import (
	"github.com/google/uuid"

	"github.com/mvasseur/fripe-backend/pkg/db/models"
	dbtypes "github.com/mvasseur/fripe-backend/pkg/db/types"
)

// OwnerDTO is the public projection of an offer's owner. Credentials and
// contact details stay server-side.
type OwnerDTO struct {
	ID      uuid.UUID      `json:"_id"`
	Account models.Account `json:"account"`
}

// OfferDTO is the wire shape of a listing.
type OfferDTO struct {
	ID                 uuid.UUID                `json:"_id"`
	ProductName        string                   `json:"product_name"`
	ProductDescription string                   `json:"product_description"`
	ProductPrice       float64                  `json:"product_price"`
	ProductDetails     dbtypes.OfferDetails     `json:"product_details"`
	ProductImage       *dbtypes.ImageDescriptor `json:"product_image,omitempty"`
	Owner              *OwnerDTO                `json:"owner,omitempty"`
}

// ListResult pairs the page of offers with the unpaginated match count.
type ListResult struct {
	Count  int64      `json:"count"`
	Offers []OfferDTO `json:"offers"`
}

// FromModel projects a stored offer, including its owner when preloaded.
func FromModel(offer *models.Offer) *OfferDTO {
	if offer == nil {
		return nil
	}
	dto := &OfferDTO{
		ID:                 offer.ID,
		ProductName:        offer.ProductName,
		ProductDescription: offer.ProductDescription,
		ProductPrice:       offer.ProductPrice,
		ProductDetails:     offer.ProductDetails,
		ProductImage:       offer.ProductImage,
	}
	if offer.Owner != nil {
		dto.Owner = &OwnerDTO{
			ID:      offer.Owner.ID,
			Account: offer.Owner.Account,
		}
	}
	return dto
}

// PublishInput holds the validated payload to create an offer.
type PublishInput struct {
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description" validate:"required"`
	Price       float64 `json:"price" validate:"gte=0"`
	Brand       string  `json:"brand"`
	Size        string  `json:"size"`
	Condition   string  `json:"condition"`
	Color       string  `json:"color"`
	City        string  `json:"city"`
	PicturePath string  `json:"-"`
}

// UpdateInput replaces the mutable offer fields wholesale.
type UpdateInput struct {
	OfferID     uuid.UUID `json:"offer_id" validate:"required"`
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description" validate:"required"`
	Price       float64   `json:"price" validate:"gte=0"`
	Brand       string    `json:"brand"`
	Size        string    `json:"size"`
	Condition   string    `json:"condition"`
	Color       string    `json:"color"`
	City        string    `json:"city"`
}
