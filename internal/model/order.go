package model

import "time"

type PaymentType string

const (
	PaymentTypeCOD    PaymentType = "COD"
	PaymentTypeOnline PaymentType = "Online"
)

type Order struct {
	ID          string      `gorm:"primaryKey;size:64;not null" json:"_id"`
	UserID      string      `gorm:"size:64;index;not null" json:"userId"`
	Items       []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
	AddressID   string      `gorm:"size:64;not null" json:"-"`
	Address     *Address    `gorm:"foreignKey:AddressID" json:"address"`
	Amount      int64       `gorm:"not null" json:"amount"`
	PaymentType PaymentType `gorm:"size:16;index;not null" json:"paymentType"`
	IsPaid      bool        `gorm:"not null;default:false;index" json:"isPaid"`
	CreatedAt   time.Time   `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

type OrderItem struct {
	ID        uint     `gorm:"primaryKey" json:"-"`
	OrderID   string   `gorm:"size:64;index;not null" json:"-"`
	ProductID string   `gorm:"size:64;index;not null" json:"-"`
	Product   *Product `gorm:"foreignKey:ProductID" json:"product"`
	Quantity  int64    `gorm:"not null" json:"quantity"`
}
