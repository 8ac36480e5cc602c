package models

import (
	"encoding/json"
	"math"
	"time"
)

const (
	CategoryHomeDecor       = "Home Decor"
	CategoryHairAccessories = "Hair Accessories"
	CategoryGiftArticles    = "Gift Articles"
	CategoryOthers          = "Others"
)

// ProductCategories is the closed set of catalog categories, in display order.
var ProductCategories = []string{
	CategoryHomeDecor,
	CategoryHairAccessories,
	CategoryGiftArticles,
	CategoryOthers,
}

func IsValidCategory(category string) bool {
	for _, c := range ProductCategories {
		if c == category {
			return true
		}
	}
	return false
}

type Product struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Offer       float64   `json:"offer"`
	Category    string    `json:"category"`
	Images      []string  `json:"images"`
	Version     int64     `json:"version"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// FinalPrice applies the offer percentage. It is a display value and is never stored.
func (p Product) FinalPrice() float64 {
	final := p.Price * (1 - p.Offer/100)
	return math.Round(final*100) / 100
}

func (p Product) MarshalJSON() ([]byte, error) {
	type product Product
	return json.Marshal(struct {
		product
		FinalPrice float64 `json:"finalPrice"`
	}{
		product:    product(p),
		FinalPrice: p.FinalPrice(),
	})
}
