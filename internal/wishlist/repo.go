package wishlist

import (
	"context"
	"errors"

	"github.com/angelmondragon/gamewishlist-backend/internal/repo"
	"github.com/angelmondragon/gamewishlist-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository encapsulates wishlist persistence.
type Repository struct {
	repo.Base
}

// NewRepository constructs a wishlist repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx returns a repository that runs its statements on tx.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Base: r.Base.WithTx(tx)}
}

// List returns every entry in insertion order.
func (r *Repository) List(ctx context.Context) ([]models.WishlistItem, error) {
	var rows []models.WishlistItem
	if err := r.DB(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByGameURL returns the entry for gameURL or gorm.ErrRecordNotFound.
func (r *Repository) FindByGameURL(ctx context.Context, gameURL string) (*models.WishlistItem, error) {
	var row models.WishlistItem
	if err := r.DB(ctx).Where("game_url = ?", gameURL).Take(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// ExistsByGameURL reports whether an entry already holds gameURL.
func (r *Repository) ExistsByGameURL(ctx context.Context, gameURL string) (bool, error) {
	_, err := r.FindByGameURL(ctx, gameURL)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, err
}

// Create inserts the entry and populates its generated id.
func (r *Repository) Create(ctx context.Context, item *models.WishlistItem) error {
	return r.DB(ctx).Create(item).Error
}

// DeleteByID removes the entry and reports how many rows were affected.
func (r *Repository) DeleteByID(ctx context.Context, id uint64) (int64, error) {
	res := r.DB(ctx).Where("id = ?", id).Delete(&models.WishlistItem{})
	return res.RowsAffected, res.Error
}

// Count returns the number of stored entries.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.DB(ctx).Model(&models.WishlistItem{}).Count(&count).Error
	return count, err
}
