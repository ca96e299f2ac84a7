package wishlist

import (
	"strings"

	"github.com/angelmondragon/gamewishlist-backend/pkg/db/models"
)

// ItemDTO is the public shape of a wishlist entry.
type ItemDTO struct {
	ID        uint64 `json:"id"`
	Title     string `json:"title"`
	Platform  string `json:"platform"`
	Thumbnail string `json:"thumbnail"`
	GameURL   string `json:"game_url"`
}

// CreateItemInput carries a candidate entry. Both URLs must be absolute.
type CreateItemInput struct {
	Title     string `json:"title" validate:"required,max=255"`
	Platform  string `json:"platform" validate:"required,max=100"`
	Thumbnail string `json:"thumbnail" validate:"required,http_url"`
	GameURL   string `json:"game_url" validate:"required,http_url"`
}

func (in CreateItemInput) normalized() CreateItemInput {
	return CreateItemInput{
		Title:     strings.TrimSpace(in.Title),
		Platform:  strings.TrimSpace(in.Platform),
		Thumbnail: strings.TrimSpace(in.Thumbnail),
		GameURL:   strings.TrimSpace(in.GameURL),
	}
}

func (in CreateItemInput) toModel() *models.WishlistItem {
	return &models.WishlistItem{
		Title:     in.Title,
		Platform:  in.Platform,
		Thumbnail: in.Thumbnail,
		GameURL:   in.GameURL,
	}
}

// FromModel maps a row into its public DTO.
func FromModel(m models.WishlistItem) ItemDTO {
	return ItemDTO{
		ID:        m.ID,
		Title:     m.Title,
		Platform:  m.Platform,
		Thumbnail: m.Thumbnail,
		GameURL:   m.GameURL,
	}
}
