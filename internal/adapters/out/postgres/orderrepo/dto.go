// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"time"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
// The six-digit public code is the primary key; lines live in their own
// table and are loaded eagerly with every order.
type OrderDTO struct {
	ID             string    `gorm:"type:char(6);primaryKey"`
	BuyerID        uuid.UUID `gorm:"type:uuid;index"`
	Status         string    `gorm:"type:varchar(16);index"`
	Total          int64
	Discount       int64
	AddressKind    string `gorm:"type:varchar(16)"`
	City           string
	Street         string
	Building       string
	Apartment      string
	Carrier        string
	Branch         int
	CustomerName   string
	CustomerPhone  string
	CustomerEmail  string
	Notes          string
	TrackingNumber *string `gorm:"type:char(14)"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Lines []LineDTO `gorm:"foreignKey:OrderID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for order entities.
// Overrides GORM's default naming convention to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// LineDTO represents one cart line row belonging to an order.
// The line total is stored as written at creation, never recomputed.
type LineDTO struct {
	ID         uint   `gorm:"primaryKey;autoIncrement"`
	OrderID    string `gorm:"type:char(6);index"`
	ProductRef string
	Name       string
	Qty        int
	UnitPrice  int64
	LineTotal  int64
}

// TableName specifies the database table name for order lines.
func (LineDTO) TableName() string {
	return "order_lines"
}

// fromDomain converts an order domain aggregate to its database representation.
func fromDomain(aggregate *order.Order) OrderDTO {
	id := aggregate.ID()
	address := aggregate.Address()

	var tracking *string
	if tn := aggregate.Tracking(); tn != nil {
		raw := tn.String()
		tracking = &raw
	}

	lines := make([]LineDTO, 0, len(aggregate.Lines()))
	for _, line := range aggregate.Lines() {
		lines = append(lines, LineDTO{
			OrderID:    id.String(),
			ProductRef: line.ProductRef(),
			Name:       line.Name(),
			Qty:        line.Qty(),
			UnitPrice:  line.UnitPrice().Amount(),
			LineTotal:  line.LineTotal().Amount(),
		})
	}

	return OrderDTO{
		ID:             id.String(),
		BuyerID:        aggregate.BuyerID().Bytes(),
		Status:         aggregate.Status().String(),
		Total:          aggregate.Total().Amount(),
		Discount:       aggregate.Discount().Amount(),
		AddressKind:    address.Kind().String(),
		City:           address.City(),
		Street:         address.Street(),
		Building:       address.Building(),
		Apartment:      address.Apartment(),
		Carrier:        address.Carrier(),
		Branch:         address.Branch(),
		CustomerName:   aggregate.CustomerName(),
		CustomerPhone:  aggregate.CustomerPhone(),
		CustomerEmail:  aggregate.CustomerEmail(),
		Notes:          aggregate.Notes(),
		TrackingNumber: tracking,
		CreatedAt:      aggregate.CreatedAt(),
		UpdatedAt:      aggregate.UpdatedAt(),
		Lines:          lines,
	}
}

// toDomain converts a database DTO to an order domain aggregate.
// Reconstructs the complete aggregate including lines and tracking using RestoreOrder.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.OrderIDFromString(dto.ID)
	if err != nil {
		return nil, err
	}

	buyerID, err := kernel.UUIDFromBytes(dto.BuyerID[:])
	if err != nil {
		return nil, err
	}

	status, err := order.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	total, err := kernel.NewMoney(dto.Total)
	if err != nil {
		return nil, err
	}

	discount, err := kernel.NewMoney(dto.Discount)
	if err != nil {
		return nil, err
	}

	address, err := addressFromDTO(dto)
	if err != nil {
		return nil, err
	}

	lines := make([]order.Line, 0, len(dto.Lines))
	for _, lineDTO := range dto.Lines {
		unitPrice, priceErr := kernel.NewMoney(lineDTO.UnitPrice)
		if priceErr != nil {
			return nil, priceErr
		}
		line, lineErr := order.NewLine(lineDTO.ProductRef, lineDTO.Name, lineDTO.Qty, unitPrice)
		if lineErr != nil {
			return nil, lineErr
		}
		lines = append(lines, line)
	}

	var tracking *kernel.TrackingNumber
	if dto.TrackingNumber != nil {
		tn, tnErr := kernel.TrackingNumberFromString(*dto.TrackingNumber)
		if tnErr != nil {
			return nil, tnErr
		}
		tracking = &tn
	}

	return order.RestoreOrder(
		id,
		buyerID,
		lines,
		total,
		discount,
		status,
		address,
		dto.CustomerName,
		dto.CustomerPhone,
		dto.CustomerEmail,
		dto.Notes,
		tracking,
		dto.CreatedAt,
		dto.UpdatedAt,
	)
}

func addressFromDTO(dto OrderDTO) (kernel.Address, error) {
	kind, err := kernel.AddressKindFromString(dto.AddressKind)
	if err != nil {
		return kernel.Address{}, err
	}

	if kind == kernel.AddressPickupPoint {
		return kernel.NewPickupPointAddress(dto.Carrier, dto.Branch)
	}
	return kernel.NewStreetAddress(dto.City, dto.Street, dto.Building, dto.Apartment)
}
