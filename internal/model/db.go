package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type Product struct {
	ID         string    `gorm:"primaryKey;size:64;not null" json:"_id"`
	Name       string    `gorm:"size:255;not null" json:"name"`
	Category   string    `gorm:"size:64;index" json:"category"`
	Price      int64     `gorm:"not null" json:"price"`
	OfferPrice int64     `gorm:"not null" json:"offerPrice"`
	InStock    bool      `gorm:"not null" json:"inStock"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type Address struct {
	ID        string    `gorm:"primaryKey;size:64;not null" json:"_id"`
	UserID    string    `gorm:"size:64;index;not null" json:"userId"`
	FirstName string    `gorm:"size:64" json:"firstName"`
	LastName  string    `gorm:"size:64" json:"lastName"`
	Email     string    `gorm:"size:128" json:"email"`
	Street    string    `gorm:"size:255" json:"street"`
	City      string    `gorm:"size:64" json:"city"`
	State     string    `gorm:"size:64" json:"state"`
	Zipcode   string    `gorm:"size:16" json:"zipcode"`
	Country   string    `gorm:"size:64" json:"country"`
	Phone     string    `gorm:"size:32" json:"phone"`
	CreatedAt time.Time `json:"createdAt"`
}

type User struct {
	ID        string    `gorm:"primaryKey;size:64;not null" json:"_id"`
	Name      string    `gorm:"size:128" json:"name"`
	Email     string    `gorm:"size:128;uniqueIndex" json:"email"`
	CartItems CartItems `gorm:"type:text" json:"cartItems"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CartItems maps product id to quantity and is stored as a JSON column.
type CartItems map[string]int64

func (c CartItems) Value() (driver.Value, error) {
	if c == nil {
		return "{}", nil
	}
	b, err := json.Marshal(map[string]int64(c))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (c *CartItems) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*c = CartItems{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("scan cart items: unsupported type %T", value)
	}

	items := CartItems{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &items); err != nil {
			return fmt.Errorf("scan cart items: %w", err)
		}
	}
	*c = items
	return nil
}

type WebhookEvent struct {
	EventID     string `gorm:"primaryKey;size:128;uniqueIndex;not null"`
	EventType   string `gorm:"size:64;index"`
	ProcessedAt time.Time
	CreatedAt   time.Time
}
