package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Metadata is the category-specific attribute set of a product. Each
// category has exactly one variant.
type Metadata interface {
	Category() Category
}

type AnimeMetadata struct {
	RegionCode string `json:"regionCode,omitempty"`
	Episodes   *int   `json:"episodes,omitempty"`
}

type ComicsMetadata struct {
	IssueNumber *int   `json:"issueNumber,omitempty"`
	Publisher   string `json:"publisher,omitempty"`
}

type GamingMetadata struct {
	Platform string `json:"platform,omitempty"`
	Edition  string `json:"edition,omitempty"`
}

type MerchandiseMetadata struct {
	Size     string `json:"size,omitempty"`
	Material string `json:"material,omitempty"`
	Brand    string `json:"brand,omitempty"`
}

type CollectiblesMetadata struct {
	Rarity      string `json:"rarity,omitempty"`
	Condition   string `json:"condition,omitempty"`
	ReleaseYear *int   `json:"releaseYear,omitempty"`
}

type BoardGamesMetadata struct {
	Players    string `json:"players,omitempty"`
	PlayTime   string `json:"playTime,omitempty"`
	Complexity string `json:"complexity,omitempty"`
}

type MangaMetadata struct {
	Volume    *int   `json:"volume,omitempty"`
	Author    string `json:"author,omitempty"`
	Publisher string `json:"publisher,omitempty"`
}

type MoviesMetadata struct {
	Duration    *int   `json:"duration,omitempty"`
	Director    string `json:"director,omitempty"`
	ReleaseYear *int   `json:"releaseYear,omitempty"`
}

type CosplayMetadata struct {
	Size      string `json:"size,omitempty"`
	Character string `json:"character,omitempty"`
	Franchise string `json:"franchise,omitempty"`
}

func (AnimeMetadata) Category() Category        { return CategoryAnime }
func (ComicsMetadata) Category() Category       { return CategoryComics }
func (GamingMetadata) Category() Category       { return CategoryGaming }
func (MerchandiseMetadata) Category() Category  { return CategoryMerchandise }
func (CollectiblesMetadata) Category() Category { return CategoryCollectibles }
func (BoardGamesMetadata) Category() Category   { return CategoryBoardGames }
func (MangaMetadata) Category() Category        { return CategoryManga }
func (MoviesMetadata) Category() Category       { return CategoryMovies }
func (CosplayMetadata) Category() Category      { return CategoryCosplay }

func newMetadata(c Category) (Metadata, error) {
	switch c {
	case CategoryAnime:
		return &AnimeMetadata{}, nil
	case CategoryComics:
		return &ComicsMetadata{}, nil
	case CategoryGaming:
		return &GamingMetadata{}, nil
	case CategoryMerchandise:
		return &MerchandiseMetadata{}, nil
	case CategoryCollectibles:
		return &CollectiblesMetadata{}, nil
	case CategoryBoardGames:
		return &BoardGamesMetadata{}, nil
	case CategoryManga:
		return &MangaMetadata{}, nil
	case CategoryMovies:
		return &MoviesMetadata{}, nil
	case CategoryCosplay:
		return &CosplayMetadata{}, nil
	}
	return nil, fmt.Errorf("unknown category %q", c)
}

// DecodeMetadata parses raw into the variant belonging to category c.
// Fields that do not belong to the variant are rejected. Empty input and
// JSON null decode to nil.
func DecodeMetadata(c Category, raw []byte) (Metadata, error) {
	return decodeMetadata(c, raw, true)
}

func decodeMetadata(c Category, raw []byte, strict bool) (Metadata, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	md, err := newMetadata(c)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	if strict {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(md); err != nil {
		return nil, fmt.Errorf("%s metadata: %w", c, err)
	}
	return md, nil
}

// EncodeMetadata serializes md for storage. A nil value is stored as "{}".
func EncodeMetadata(md Metadata) ([]byte, error) {
	if md == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(md)
}
