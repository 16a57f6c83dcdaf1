package offers

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mvasseur/fripe-backend/pkg/db/models"
	dbtypes "github.com/mvasseur/fripe-backend/pkg/db/types"
	pkgerrors "github.com/mvasseur/fripe-backend/pkg/errors"
	"github.com/mvasseur/fripe-backend/pkg/logger"
)

// Uploader pushes a local file to the media host under a stable public id.
type Uploader interface {
	Upload(ctx context.Context, localPath, publicID string) (*dbtypes.ImageDescriptor, error)
}

type ownerLoader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Service exposes the offer catalog operations.
type Service interface {
	Publish(ctx context.Context, ownerID uuid.UUID, input PublishInput) (*OfferDTO, error)
	GetByID(ctx context.Context, id uuid.UUID) (*OfferDTO, error)
	List(ctx context.Context, input ListInput) (*ListResult, error)
	Update(ctx context.Context, actorID uuid.UUID, input UpdateInput) (*OfferDTO, error)
	Delete(ctx context.Context, actorID, offerID uuid.UUID) error
}

type service struct {
	repo        *Repository
	owners      ownerLoader
	uploader    Uploader
	mediaFolder string
	logg        *logger.Logger
}

// NewService constructs the offer service.
func NewService(repo *Repository, owners ownerLoader, uploader Uploader, mediaFolder string, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("offer repository required")
	}
	if owners == nil {
		return nil, fmt.Errorf("owner loader required")
	}
	if uploader == nil {
		return nil, fmt.Errorf("uploader required")
	}
	if mediaFolder == "" {
		mediaFolder = "fripe"
	}
	return &service{
		repo:        repo,
		owners:      owners,
		uploader:    uploader,
		mediaFolder: mediaFolder,
		logg:        logg,
	}, nil
}

// Publish creates a listing for the authenticated owner. The picture, when
// provided, is uploaded before the row is persisted so a failed upload
// leaves no orphan offer.
func (s *service) Publish(ctx context.Context, ownerID uuid.UUID, input PublishInput) (*OfferDTO, error) {
	owner, err := s.owners.GetByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	offer := &models.Offer{
		ID:                 uuid.New(),
		ProductName:        input.Title,
		ProductDescription: input.Description,
		ProductPrice:       input.Price,
		ProductDetails:     buildDetails(input.Brand, input.Size, input.Condition, input.Color, input.City),
		OwnerID:            owner.ID,
	}

	if input.PicturePath != "" {
		publicID := fmt.Sprintf("%s/offers/%s", s.mediaFolder, offer.ID)
		picture, uploadErr := s.uploader.Upload(ctx, input.PicturePath, publicID)
		if uploadErr != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, uploadErr, "upload picture")
		}
		offer.ProductImage = picture
	}

	if _, err := s.repo.Create(ctx, offer); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create offer")
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{"offer_id": offer.ID.String()}), "offer.published")
	}

	offer.Owner = owner
	return FromModel(offer), nil
}

// GetByID loads a single listing with its owner projection.
func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*OfferDTO, error) {
	offer, err := s.findOffer(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(offer), nil
}

// List returns the filtered page plus the unpaginated match count.
func (s *service) List(ctx context.Context, input ListInput) (*ListResult, error) {
	count, rows, err := s.repo.List(ctx, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list offers")
	}

	dtos := make([]OfferDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i]))
	}
	return &ListResult{Count: count, Offers: dtos}, nil
}

// Update replaces the mutable fields wholesale. The picture and owner are
// untouched; only the offer's owner may modify it.
func (s *service) Update(ctx context.Context, actorID uuid.UUID, input UpdateInput) (*OfferDTO, error) {
	offer, err := s.findOffer(ctx, input.OfferID)
	if err != nil {
		return nil, err
	}
	if offer.OwnerID != actorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "Forbidden")
	}

	offer.ProductName = input.Title
	offer.ProductDescription = input.Description
	offer.ProductPrice = input.Price
	offer.ProductDetails = buildDetails(input.Brand, input.Size, input.Condition, input.Color, input.City)

	if _, err := s.repo.Save(ctx, offer); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update offer")
	}
	return FromModel(offer), nil
}

// Delete removes a listing after verifying it exists and belongs to the actor.
func (s *service) Delete(ctx context.Context, actorID, offerID uuid.UUID) error {
	offer, err := s.findOffer(ctx, offerID)
	if err != nil {
		return err
	}
	if offer.OwnerID != actorID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "Forbidden")
	}

	if err := s.repo.Delete(ctx, offerID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete offer")
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{"offer_id": offerID.String()}), "offer.deleted")
	}
	return nil
}

func (s *service) findOffer(ctx context.Context, id uuid.UUID) (*models.Offer, error) {
	offer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Offer doesn't exist")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup offer")
	}
	return offer, nil
}

// buildDetails keeps the display labels in their fixed order.
func buildDetails(brand, size, condition, color, city string) dbtypes.OfferDetails {
	return dbtypes.OfferDetails{
		{Label: "MARQUE", Value: brand},
		{Label: "TAILLE", Value: size},
		{Label: "ETAT", Value: condition},
		{Label: "COULEUR", Value: color},
		{Label: "EMPLACEMENT", Value: city},
	}
}
