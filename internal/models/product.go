package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// ProductStatus is the lifecycle state of a product in the shop.
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
	ProductStatusSold     ProductStatus = "sold"
)

// Valid reports whether s is one of the known statuses.
func (s ProductStatus) Valid() bool {
	switch s {
	case ProductStatusActive, ProductStatusInactive, ProductStatusSold:
		return true
	}
	return false
}

// Product represents a piece of jewellery offered in the shop.
// JSON keys follow the public catalog API consumed by the storefront.
type Product struct {
	ID            uint             `json:"id" gorm:"primaryKey;autoIncrement"`
	Name          string           `json:"name" gorm:"type:varchar(255);not null" validate:"required,max=255"`
	Title         string           `json:"tytul" gorm:"type:varchar(255)" validate:"max=255"`
	Slug          string           `json:"slug" gorm:"type:varchar(255);uniqueIndex" validate:"max=255"`
	Description   string           `json:"description" gorm:"type:text"`
	Opis          string           `json:"opis" gorm:"type:text"`
	Price         decimal.Decimal  `json:"price" gorm:"type:decimal(10,2);not null"`
	PromoPrice    *decimal.Decimal `json:"cena" gorm:"type:decimal(10,2)"`
	Status        ProductStatus    `json:"status" gorm:"type:varchar(20);not null;default:'active';index"`
	Active        bool             `json:"active" gorm:"not null;index"`
	SoldAt        *time.Time       `json:"sold_at"`
	Featured      bool             `json:"featured" gorm:"not null;default:false"`
	CatalogNumber string           `json:"nr_w_katalogu_zdjec" gorm:"type:varchar(255);not null;default:''"`

	StripeProductID string `json:"-" gorm:"type:varchar(255);not null;default:''"`
	StripePriceID   string `json:"-" gorm:"type:varchar(255);not null;default:''"`

	Purpose        string                     `json:"przeznaczenie_ogolne" gorm:"type:varchar(255);not null;default:''" validate:"omitempty,choice=purpose"`
	ForWhom        datatypes.JSONSlice[string] `json:"dla_kogo" validate:"dive,choice=for_whom"`
	LengthCategory string                     `json:"dlugosc_kategoria" gorm:"type:varchar(255);not null;default:''" validate:"omitempty,choice=length_category"`
	LengthCM       *decimal.Decimal           `json:"dlugosc_w_cm" gorm:"type:decimal(5,2)"`
	FeatherColors  datatypes.JSONSlice[string] `json:"kolor_pior" validate:"dive,choice=feather_color"`
	BirdSpecies    datatypes.JSONSlice[string] `json:"gatunek_ptakow" validate:"dive,choice=bird_species"`
	MetalColor     string                     `json:"kolor_elementow_metalowych" gorm:"type:varchar(255);not null;default:''" validate:"omitempty,choice=metal_color"`
	ClaspTypes     datatypes.JSONSlice[string] `json:"rodzaj_zapiecia" validate:"dive,choice=clasp_type"`

	Images []ProductImage `json:"-" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProductImage orders shared image assets under a product. The first one is the primary image.
type ProductImage struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	ProductID uint       `json:"product_id" gorm:"not null;index"`
	ImageID   uint       `json:"image_id" gorm:"not null"`
	Image     ImageAsset `json:"image" gorm:"foreignKey:ImageID"`
	SortOrder int        `json:"sort_order" gorm:"not null;default:0"`
}

// IsBuyable reports whether the product can be sold through checkout.
func (p *Product) IsBuyable() bool {
	return p.Status == ProductStatusActive && p.StripePriceID != ""
}

// DisplayName is the name shown to buyers: the Polish title when present.
func (p *Product) DisplayName() string {
	if p.Title != "" {
		return p.Title
	}
	return p.Name
}

// PrimaryImage returns the first image by sort order, or nil.
func (p *Product) PrimaryImage() *ImageAsset {
	var primary *ProductImage
	for i := range p.Images {
		if primary == nil || p.Images[i].SortOrder < primary.SortOrder {
			primary = &p.Images[i]
		}
	}
	if primary == nil || primary.Image.ID == 0 {
		return nil
	}
	return &primary.Image
}

// Normalize keeps the multi-valued attributes as lists and the legacy active flag in
// step with the status.
func (p *Product) Normalize() {
	if p.Status == "" {
		p.Status = ProductStatusActive
	}
	if p.ForWhom == nil {
		p.ForWhom = datatypes.JSONSlice[string]{}
	}
	if p.FeatherColors == nil {
		p.FeatherColors = datatypes.JSONSlice[string]{}
	}
	if p.BirdSpecies == nil {
		p.BirdSpecies = datatypes.JSONSlice[string]{}
	}
	if p.ClaspTypes == nil {
		p.ClaspTypes = datatypes.JSONSlice[string]{}
	}
	p.Active = p.Status == ProductStatusActive
}

// PriceMinorUnits converts the base price to grosze. The conversion goes through
// float64 and truncates, matching the amounts already stored at Stripe.
func (p *Product) PriceMinorUnits() int64 {
	return ToMinorUnits(p.Price)
}

// ToMinorUnits converts an amount in PLN to grosze.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return int64(amount.InexactFloat64() * 100)
}
