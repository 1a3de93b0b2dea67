package model

import "time"

// Product represents a catalogue product together with its current
// flash-sale state, as supplied by the catalog source.
type Product struct {
	ID            string     `json:"id" db:"id"`
	Name          string     `json:"name" db:"name"`
	Brand         string     `json:"brand" db:"brand"`
	Thumbnail     string     `json:"thumbnail" db:"thumbnail"`
	Specs         string     `json:"specs" db:"specs"`
	Price         int64      `json:"price" db:"price"`
	Stock         int        `json:"stock" db:"stock"`
	FlashPrice    *int64     `json:"flashPrice,omitempty" db:"flash_price"`
	FlashStartsAt *time.Time `json:"flashStartsAt,omitempty" db:"flash_starts_at"`
	FlashEndsAt   *time.Time `json:"flashEndsAt,omitempty" db:"flash_ends_at"`
	CreatedAt     time.Time  `json:"createdAt" db:"created_at"`
}

// FlashSaleActive reports whether the product has a flash-sale price in
// effect at the given instant.
func (p *Product) FlashSaleActive(now time.Time) bool {
	if p.FlashPrice == nil || p.FlashStartsAt == nil || p.FlashEndsAt == nil {
		return false
	}
	return !now.Before(*p.FlashStartsAt) && now.Before(*p.FlashEndsAt)
}

// EffectivePrice returns the price actually charged at the given
// instant: the flash-sale price while a flash sale is active, the list
// price otherwise.
func (p *Product) EffectivePrice(now time.Time) int64 {
	if p.FlashSaleActive(now) {
		return *p.FlashPrice
	}
	return p.Price
}

// ProductSnapshot is the immutable copy of product data captured on an
// order line at purchase time.
type ProductSnapshot struct {
	Name      string `json:"name"`
	Brand     string `json:"brand"`
	Thumbnail string `json:"thumbnail"`
	Specs     string `json:"specs"`
}

// Snapshot captures the product fields that order lines preserve.
func (p *Product) Snapshot() ProductSnapshot {
	return ProductSnapshot{
		Name:      p.Name,
		Brand:     p.Brand,
		Thumbnail: p.Thumbnail,
		Specs:     p.Specs,
	}
}
