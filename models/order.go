package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// OrderStatuses is the ordered lifecycle of an order. "Placed" is the
// initial state and "Delivered" is terminal.
var OrderStatuses = []string{"Placed", "Accepted", "Out for Delivery", "Delivered"}

var (
	// ErrUnknownStatus is returned for a status outside OrderStatuses.
	ErrUnknownStatus = errors.New("invalid status")
	// ErrInvalidTransition is returned for any move that is not the single
	// forward step in the lifecycle.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// StatusIndex returns the position of status in the lifecycle, or -1 if it
// is not a known status.
func StatusIndex(status string) int {
	for i, s := range OrderStatuses {
		if s == status {
			return i
		}
	}
	return -1
}

// ValidateStatusTransition checks that next is exactly one step forward
// from current. No skipping, no regression, no self-transition.
func ValidateStatusTransition(current, next string) error {
	nextIdx := StatusIndex(next)
	if nextIdx == -1 {
		return ErrUnknownStatus
	}
	if nextIdx != StatusIndex(current)+1 {
		return ErrInvalidTransition
	}
	return nil
}

// StatusTimestamps maps a status name to the time the order entered it.
// Keys are only ever added, never removed. It is stored as a JSON column.
type StatusTimestamps map[string]string

// Value implements driver.Valuer
func (st StatusTimestamps) Value() (driver.Value, error) {
	if st == nil {
		return "{}", nil
	}
	b, err := json.Marshal(st)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (st *StatusTimestamps) Scan(value interface{}) error {
	if value == nil {
		*st = StatusTimestamps{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, st)
	case string:
		return json.Unmarshal([]byte(v), st)
	default:
		return fmt.Errorf("cannot scan %T into StatusTimestamps", value)
	}
}

// Order represents an order between a buyer and a seller. Only the seller
// may move it through the status lifecycle.
type Order struct {
	ID               uint             `gorm:"primaryKey" json:"id"`
	BuyerID          string           `gorm:"not null;index" json:"buyer_id"`
	SellerID         string           `gorm:"not null;index" json:"seller_id"`
	Status           string           `gorm:"not null;default:'Placed'" json:"status"`
	StatusTimestamps StatusTimestamps `gorm:"type:jsonb;default:'{}'" json:"status_timestamps"`
	CreatedAt        time.Time        `json:"created_at"`
	Items            []OrderItem      `gorm:"foreignKey:OrderID" json:"items"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// OrderItem represents a line item attached to an order at creation.
type OrderItem struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	OrderID  uint    `gorm:"not null;index" json:"order_id"`
	ItemName string  `gorm:"not null" json:"item_name"`
	Quantity int     `gorm:"not null" json:"quantity"`
	Price    float64 `gorm:"not null" json:"price"`
}

// TableName specifies the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}
