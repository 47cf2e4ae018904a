package handlers

import (
	"time"

	"sklep/internal/models"
	"sklep/internal/services"

	"github.com/shopspring/decimal"
)

// ProductView is the product representation of the v1 API.
type ProductView struct {
	ID             uint                 `json:"id"`
	Name           string               `json:"name"`
	Title          string               `json:"tytul"`
	Slug           string               `json:"slug"`
	Description    string               `json:"description"`
	Opis           string               `json:"opis"`
	Price          string               `json:"price"`
	PromoPrice     *string              `json:"cena"`
	Status         models.ProductStatus `json:"status"`
	SoldAt         *time.Time           `json:"sold_at"`
	ImageURL       *string              `json:"image_url"`
	IsBuyable      bool                 `json:"is_buyable"`
	Featured       bool                 `json:"featured"`
	CatalogNumber  string               `json:"nr_w_katalogu_zdjec"`
	Purpose        string               `json:"przeznaczenie_ogolne"`
	ForWhom        []string             `json:"dla_kogo"`
	LengthCategory string               `json:"dlugosc_kategoria"`
	LengthCM       *string              `json:"dlugosc_w_cm"`
	FeatherColors  []string             `json:"kolor_pior"`
	BirdSpecies    []string             `json:"gatunek_ptakow"`
	MetalColor     string               `json:"kolor_elementow_metalowych"`
	ClaspTypes     []string             `json:"rodzaj_zapiecia"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

func fixed(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.StringFixed(2)
	return &s
}

func orEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func newProductView(p *models.Product, publicURL string) ProductView {
	v := ProductView{
		ID:             p.ID,
		Name:           p.Name,
		Title:          p.Title,
		Slug:           p.Slug,
		Description:    p.Description,
		Opis:           p.Opis,
		Price:          p.Price.StringFixed(2),
		PromoPrice:     fixed(p.PromoPrice),
		Status:         p.Status,
		SoldAt:         p.SoldAt,
		IsBuyable:      p.IsBuyable(),
		Featured:       p.Featured,
		CatalogNumber:  p.CatalogNumber,
		Purpose:        p.Purpose,
		ForWhom:        orEmpty(p.ForWhom),
		LengthCategory: p.LengthCategory,
		LengthCM:       fixed(p.LengthCM),
		FeatherColors:  orEmpty(p.FeatherColors),
		BirdSpecies:    orEmpty(p.BirdSpecies),
		MetalColor:     p.MetalColor,
		ClaspTypes:     orEmpty(p.ClaspTypes),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
	if img := p.PrimaryImage(); img != nil {
		u := services.AbsoluteURL(publicURL, img.File)
		v.ImageURL = &u
	}
	return v
}

// ImageRef is an image embedded in legacy product and event payloads.
type ImageRef struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// LegacyProductView is the product representation of /api/products/.
type LegacyProductView struct {
	ID             uint       `json:"id"`
	Slug           string     `json:"slug"`
	Name           string     `json:"name"`
	Title          string     `json:"tytul"`
	Description    string     `json:"description"`
	Opis           string     `json:"opis"`
	Price          float64    `json:"price"`
	PromoPrice     *float64   `json:"cena"`
	Featured       bool       `json:"featured"`
	CatalogNumber  string     `json:"nr_w_katalogu_zdjec"`
	Purpose        string     `json:"przeznaczenie_ogolne"`
	ForWhom        []string   `json:"dla_kogo"`
	LengthCategory string     `json:"dlugosc_kategoria"`
	LengthCM       *float64   `json:"dlugosc_w_cm"`
	FeatherColors  []string   `json:"kolor_pior"`
	BirdSpecies    []string   `json:"gatunek_ptakow"`
	MetalColor     string     `json:"kolor_elementow_metalowych"`
	ClaspTypes     []string   `json:"rodzaj_zapiecia"`
	Images         []ImageRef `json:"images"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func asFloat(d *decimal.Decimal) *float64 {
	if d == nil || d.IsZero() {
		return nil
	}
	f := d.InexactFloat64()
	return &f
}

func newLegacyProductView(p *models.Product, publicURL string) LegacyProductView {
	images := make([]ImageRef, 0, len(p.Images))
	for _, pi := range p.Images {
		if pi.Image.ID == 0 {
			continue
		}
		images = append(images, ImageRef{
			URL:    services.AbsoluteURL(publicURL, pi.Image.File),
			Width:  pi.Image.Width,
			Height: pi.Image.Height,
		})
	}
	return LegacyProductView{
		ID:             p.ID,
		Slug:           p.Slug,
		Name:           p.Name,
		Title:          p.Title,
		Description:    p.Description,
		Opis:           p.Opis,
		Price:          p.Price.InexactFloat64(),
		PromoPrice:     asFloat(p.PromoPrice),
		Featured:       p.Featured,
		CatalogNumber:  p.CatalogNumber,
		Purpose:        p.Purpose,
		ForWhom:        orEmpty(p.ForWhom),
		LengthCategory: p.LengthCategory,
		LengthCM:       asFloat(p.LengthCM),
		FeatherColors:  orEmpty(p.FeatherColors),
		BirdSpecies:    orEmpty(p.BirdSpecies),
		MetalColor:     p.MetalColor,
		ClaspTypes:     orEmpty(p.ClaspTypes),
		Images:         images,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

// EventView is the event representation of /api/events/.
type EventView struct {
	ID          uint       `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     time.Time  `json:"end_date"`
	ExternalURL string     `json:"external_url"`
	Images      []ImageRef `json:"images"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func newEventView(e *models.Event, publicURL string) EventView {
	images := make([]ImageRef, 0, len(e.Images))
	for _, ei := range e.Images {
		if ei.Image.ID == 0 {
			continue
		}
		images = append(images, ImageRef{
			URL:    services.AbsoluteURL(publicURL, ei.Image.File),
			Width:  ei.Image.Width,
			Height: ei.Image.Height,
		})
	}
	return EventView{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Location:    e.Location,
		StartDate:   e.StartDate,
		EndDate:     e.EndDate,
		ExternalURL: e.ExternalURL,
		Images:      images,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

// ImageView is the image representation of /api/images/.
type ImageView struct {
	ID     uint     `json:"id"`
	Title  string   `json:"title"`
	URL    string   `json:"url"`
	Width  int      `json:"width"`
	Height int      `json:"height"`
	Tags   []string `json:"tags"`
}

func newImageView(i *models.ImageAsset, publicURL string) ImageView {
	return ImageView{
		ID:     i.ID,
		Title:  i.Title,
		URL:    services.AbsoluteURL(publicURL, i.File),
		Width:  i.Width,
		Height: i.Height,
		Tags:   i.TagNames(),
	}
}
