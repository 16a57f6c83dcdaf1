package offers

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mvasseur/fripe-backend/pkg/db/models"
)

// Repository provides offer persistence on top of GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new offer row.
func (r *Repository) Create(ctx context.Context, offer *models.Offer) (*models.Offer, error) {
	if err := r.db.WithContext(ctx).Create(offer).Error; err != nil {
		return nil, err
	}
	return offer, nil
}

// FindByID loads an offer with its owner preloaded.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Offer, error) {
	var offer models.Offer
	if err := r.db.WithContext(ctx).
		Preload("Owner").
		First(&offer, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &offer, nil
}

// Save updates an existing offer row.
func (r *Repository) Save(ctx context.Context, offer *models.Offer) (*models.Offer, error) {
	if err := r.db.WithContext(ctx).Save(offer).Error; err != nil {
		return nil, err
	}
	return offer, nil
}

// Delete removes an offer by ID.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Offer{}).Error
}

// List applies the filters, counts the full match set, then returns the
// requested page ordered by price with id as a stable tiebreak.
func (r *Repository) List(ctx context.Context, input ListInput) (int64, []models.Offer, error) {
	var count int64
	countQuery := applyFilters(r.db.WithContext(ctx).Model(&models.Offer{}), input.Filters)
	if err := countQuery.Count(&count).Error; err != nil {
		return 0, nil, err
	}

	direction := "ASC"
	if input.Filters.SortDirection() == SortDesc {
		direction = "DESC"
	}

	params := input.Pagination.Normalize()

	var rows []models.Offer
	err := applyFilters(r.db.WithContext(ctx).Model(&models.Offer{}), input.Filters).
		Preload("Owner").
		Order("product_price " + direction).
		Order("id ASC").
		Offset(params.Offset()).
		Limit(params.Limit).
		Find(&rows).Error
	if err != nil {
		return 0, nil, err
	}
	return count, rows, nil
}

// applyFilters builds the conjunction of the provided filters. LOWER/LIKE
// keeps the title match case-insensitive on both postgres and sqlite.
func applyFilters(query *gorm.DB, filters ListFilters) *gorm.DB {
	if title := strings.TrimSpace(filters.Title); title != "" {
		query = query.Where("LOWER(product_name) LIKE ?", "%"+strings.ToLower(title)+"%")
	}
	if filters.PriceMin != nil {
		query = query.Where("product_price >= ?", *filters.PriceMin)
	}
	if filters.PriceMax != nil {
		query = query.Where("product_price <= ?", *filters.PriceMax)
	}
	return query
}
