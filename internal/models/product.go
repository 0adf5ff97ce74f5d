package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func init() {
	// Prices leave the API as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// Category is the closed set of catalog categories.
type Category string

const (
	CategoryAnime        Category = "ANIME"
	CategoryComics       Category = "COMICS"
	CategoryGaming       Category = "GAMING"
	CategoryMerchandise  Category = "MERCHANDISE"
	CategoryCollectibles Category = "COLLECTIBLES"
	CategoryBoardGames   Category = "BOARD_GAMES"
	CategoryManga        Category = "MANGA"
	CategoryMovies       Category = "MOVIES"
	CategoryCosplay      Category = "COSPLAY"
)

// Categories lists every known category in display order.
var Categories = []Category{
	CategoryAnime,
	CategoryComics,
	CategoryGaming,
	CategoryMerchandise,
	CategoryCollectibles,
	CategoryBoardGames,
	CategoryManga,
	CategoryMovies,
	CategoryCosplay,
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory upper-cases s and reports whether the result is a known category.
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	return c, c.Valid()
}

// Product is a catalog entry.
type Product struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	Title       string          `json:"title" gorm:"type:varchar(255);not null"`
	Price       decimal.Decimal `json:"price" gorm:"type:numeric(10,2);not null"`
	Image       string          `json:"image" gorm:"type:text"`
	Category    Category        `json:"category" gorm:"type:varchar(32);index;not null"`
	Description string          `json:"description" gorm:"type:text"`
	// Metadata holds the category-specific attributes. It is stored in MetadataRaw.
	Metadata    Metadata  `json:"metadata,omitempty" gorm:"-"`
	MetadataRaw string    `json:"-" gorm:"column:metadata;type:text"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (p *Product) BeforeSave(tx *gorm.DB) error {
	raw, err := EncodeMetadata(p.Metadata)
	if err != nil {
		return err
	}
	p.MetadataRaw = string(raw)
	return nil
}

func (p *Product) AfterFind(tx *gorm.DB) error {
	md, err := decodeMetadata(p.Category, []byte(p.MetadataRaw), false)
	if err != nil {
		tx.Logger.Warn(tx.Statement.Context, "product %d: unreadable metadata: %v", p.ID, err)
		return nil
	}
	p.Metadata = md
	return nil
}

// UnmarshalJSON picks the metadata variant from the product's category.
func (p *Product) UnmarshalJSON(data []byte) error {
	type plain Product
	aux := struct {
		*plain
		Metadata json.RawMessage `json:"metadata"`
	}{plain: (*plain)(p)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	md, err := decodeMetadata(p.Category, aux.Metadata, false)
	if err != nil {
		return err
	}
	p.Metadata = md
	return nil
}
