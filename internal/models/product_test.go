package models_test

import (
	"errors"
	"testing"

	"sklep/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Złoty Pierścionek":        "zloty-pierscionek",
		"Kolczyki z piór bażanta":  "kolczyki-z-pior-bazanta",
		"  ŁĄCZNIK -- Żółty!  ":    "lacznik-zolty",
		"Feather Earrings #2":      "feather-earrings-2",
		"???":                      "",
	}
	for in, want := range cases {
		assert.Equal(t, want, models.Slugify(in), in)
	}
}

func TestToMinorUnits_Truncates(t *testing.T) {
	assert.Equal(t, int64(15000), models.ToMinorUnits(decimal.RequireFromString("150.00")))
	assert.Equal(t, int64(19950), models.ToMinorUnits(decimal.RequireFromString("199.50")))
	// 19.99 * 100 is 1998.9999999999998 in float64
	assert.Equal(t, int64(1998), models.ToMinorUnits(decimal.RequireFromString("19.99")))
}

func TestProduct_IsBuyable(t *testing.T) {
	p := models.Product{Status: models.ProductStatusActive}
	assert.False(t, p.IsBuyable())

	p.StripePriceID = "price_1"
	assert.True(t, p.IsBuyable())

	p.Status = models.ProductStatusSold
	assert.False(t, p.IsBuyable())
}

func TestProduct_DisplayNameAndPrimaryImage(t *testing.T) {
	p := models.Product{Name: "Earrings"}
	assert.Equal(t, "Earrings", p.DisplayName())
	p.Title = "Kolczyki"
	assert.Equal(t, "Kolczyki", p.DisplayName())

	assert.Nil(t, p.PrimaryImage())
	p.Images = []models.ProductImage{
		{SortOrder: 2, Image: models.ImageAsset{ID: 2, File: "/b.jpg"}},
		{SortOrder: 0, Image: models.ImageAsset{ID: 1, File: "/a.jpg"}},
	}
	require.NotNil(t, p.PrimaryImage())
	assert.Equal(t, "/a.jpg", p.PrimaryImage().File)
}

func TestProduct_Normalize(t *testing.T) {
	p := models.Product{Status: models.ProductStatusSold, Active: true}
	p.Normalize()

	assert.False(t, p.Active)
	assert.Equal(t, datatypes.JSONSlice[string]{}, p.ForWhom)
	assert.Equal(t, datatypes.JSONSlice[string]{}, p.FeatherColors)
	assert.Equal(t, datatypes.JSONSlice[string]{}, p.BirdSpecies)
	assert.Equal(t, datatypes.JSONSlice[string]{}, p.ClaspTypes)

	p = models.Product{}
	p.Normalize()
	assert.Equal(t, models.ProductStatusActive, p.Status)
	assert.True(t, p.Active)
}

func TestProduct_Validate(t *testing.T) {
	v := models.NewValidator()
	promo := decimal.RequireFromString("-1")
	p := models.Product{
		Name:       "Earrings",
		Price:      decimal.RequireFromString("10.00"),
		PromoPrice: &promo,
		Status:     "lost",
		ClaspTypes: datatypes.JSONSlice[string]{"sztyft", "magnes"},
		MetalColor: "srebrny",
	}

	err := p.Validate(v)

	var verrs models.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Contains(t, verrs, "PromoPrice")
	assert.Contains(t, verrs, "Status")
	assert.Contains(t, verrs, "ClaspTypes[1]")
	assert.NotContains(t, verrs, "MetalColor")
	assert.NotContains(t, verrs, "Price")
}

func TestChoices(t *testing.T) {
	assert.True(t, models.IsChoice(models.ChoicesBirdSpecies, "paw"))
	assert.False(t, models.IsChoice(models.ChoicesBirdSpecies, "orzel"))
	assert.False(t, models.IsChoice("unknown", "paw"))
	assert.NotEmpty(t, models.Choices(models.ChoicesPurpose))
}
