package wishlist

import (
	"context"

	"github.com/angelmondragon/gamewishlist-backend/pkg/db"
	"github.com/angelmondragon/gamewishlist-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/gamewishlist-backend/pkg/errors"
	"github.com/angelmondragon/gamewishlist-backend/pkg/logger"
	"github.com/angelmondragon/gamewishlist-backend/pkg/validation"
	"gorm.io/gorm"
)

// TxRunner opens a transaction and hands it to fn.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams groups dependencies for the wishlist service.
type ServiceParams struct {
	Repo   *Repository
	Tx     TxRunner
	Logger *logger.Logger
}

// Service exposes business rules for wishlist management.
type Service interface {
	List(ctx context.Context) ([]ItemDTO, error)
	Create(ctx context.Context, input CreateItemInput) (*ItemDTO, error)
	Delete(ctx context.Context, id uint64) error
}

type service struct {
	repo *Repository
	tx   TxRunner
	logg *logger.Logger
}

// NewService builds a wishlist service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "wishlist repo is required")
	}
	if params.Tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction runner is required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{repo: params.Repo, tx: params.Tx, logg: logg}, nil
}

// List returns every entry; never nil.
func (s *service) List(ctx context.Context) ([]ItemDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list wishlist items")
	}
	items := make([]ItemDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, FromModel(row))
	}
	return items, nil
}

// Create validates the candidate and inserts it. The game_url unique
// constraint is authoritative; the lookup beforehand only short-circuits the
// common duplicate case.
func (s *service) Create(ctx context.Context, input CreateItemInput) (*ItemDTO, error) {
	input = input.normalized()
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByGameURL(ctx, input.GameURL)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing wishlist item")
	}
	if exists {
		return nil, duplicateError(input.GameURL, nil)
	}

	row := input.toModel()
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Create(ctx, row)
	})
	if err != nil {
		if db.IsUniqueViolation(err, models.WishlistGameURLConstraint) {
			return nil, duplicateError(input.GameURL, err)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create wishlist item")
	}

	dto := FromModel(*row)
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"wishlist_id": dto.ID,
		"game_url":    dto.GameURL,
	}), "wishlist.created")
	return &dto, nil
}

// Delete removes the entry with id or fails with NOT_FOUND.
func (s *service) Delete(ctx context.Context, id uint64) error {
	var affected int64
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		n, err := s.repo.WithTx(tx).DeleteByID(ctx, id)
		affected = n
		return err
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete wishlist item")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "wishlist item not found")
	}

	s.logg.Info(s.logg.WithField(ctx, "wishlist_id", id), "wishlist.deleted")
	return nil
}

func duplicateError(gameURL string, cause error) error {
	msg := "game already in wishlist"
	if cause == nil {
		return pkgerrors.New(pkgerrors.CodeConflict, msg).WithDetails(map[string]any{"game_url": gameURL})
	}
	return pkgerrors.Wrap(pkgerrors.CodeConflict, cause, msg).WithDetails(map[string]any{"game_url": gameURL})
}

// IsDuplicate reports whether err is a wishlist conflict.
func IsDuplicate(err error) bool {
	return pkgerrors.IsCode(err, pkgerrors.CodeConflict)
}
