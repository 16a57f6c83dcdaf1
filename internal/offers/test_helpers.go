package offers

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mvasseur/fripe-backend/pkg/db/models"
	dbtypes "github.com/mvasseur/fripe-backend/pkg/db/types"
)

type fakeUploader struct {
	calls []string
	err   error
}

func (f *fakeUploader) Upload(_ context.Context, _, publicID string) (*dbtypes.ImageDescriptor, error) {
	f.calls = append(f.calls, publicID)
	if f.err != nil {
		return nil, f.err
	}
	return &dbtypes.ImageDescriptor{
		PublicID:  publicID,
		SecureURL: "https://res.cloudinary.test/" + publicID + ".jpg",
		Format:    "jpg",
	}, nil
}

type fakeOwnerLoader struct {
	db *gorm.DB
}

func (f *fakeOwnerLoader) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := f.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func mustCreateUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		ID:      uuid.New(),
		Email:   username + "@example.com",
		Account: models.Account{Username: username},
		Token:   "token-" + username,
		Hash:    "hash",
		Salt:    "salt",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func mustCreateOffer(t *testing.T, db *gorm.DB, owner *models.User, name string, price float64) *models.Offer {
	t.Helper()
	offer := &models.Offer{
		ID:                 uuid.New(),
		ProductName:        name,
		ProductDescription: name + " description",
		ProductPrice:       price,
		ProductDetails:     buildDetails("Brand", "M", "Good", "Blue", "Paris"),
		OwnerID:            owner.ID,
	}
	if err := db.Create(offer).Error; err != nil {
		t.Fatalf("failed to create offer: %v", err)
	}
	return offer
}
