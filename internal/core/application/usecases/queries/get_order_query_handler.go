package queries

import (
	"context"
	"database/sql"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/errs"

	"gorm.io/gorm"
)

// GetOrderQueryHandler reads a single order row and its lines.
//
// Example:
//
//	handler := NewGetOrderQueryHandler(db)
//	query, _ := NewGetOrderQuery(orderID)
//
//	resp, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return err
//	}
type GetOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderQueryHandler creates a handler for single-order lookups.
// Requires a GORM database connection for query execution.
func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle executes the lookup. A missing order surfaces as an
// object-not-found error carrying the six-digit code.
func (h GetOrderQueryHandler) Handle(
	ctx context.Context,
	query GetOrderQuery,
) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	id := query.OrderID()

	var resp GetOrderQueryResponse
	var addressKind string
	var city, street, building, apartment, carrier sql.NullString
	var branch sql.NullInt64
	var tracking sql.NullString

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			buyer_id,
			status,
			total,
			discount,
			address_kind,
			city,
			street,
			building,
			apartment,
			carrier,
			branch,
			customer_name,
			customer_phone,
			customer_email,
			notes,
			tracking_number,
			created_at,
			updated_at
		FROM orders
		WHERE id = ?
	`, id.String()).Row()

	err := row.Scan(
		&resp.ID,
		&resp.BuyerID,
		&resp.Status,
		&resp.Total,
		&resp.Discount,
		&addressKind,
		&city,
		&street,
		&building,
		&apartment,
		&carrier,
		&branch,
		&resp.CustomerName,
		&resp.CustomerPhone,
		&resp.CustomerEmail,
		&resp.Notes,
		&tracking,
		&resp.CreatedAt,
		&resp.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("orderID", id.String())
		}
		return GetOrderQueryResponse{}, err
	}

	resp.Address, err = renderAddress(addressKind, city, street, building, apartment, carrier, branch)
	if err != nil {
		return GetOrderQueryResponse{}, err
	}
	if tracking.Valid {
		resp.Tracking = tracking.String
	}

	resp.Lines, err = h.loadLines(ctx, id.String())
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	return resp, nil
}

func (h GetOrderQueryHandler) loadLines(ctx context.Context, orderID string) ([]OrderLineResponse, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			product_ref,
			name,
			qty,
			unit_price,
			line_total
		FROM order_lines
		WHERE order_id = ?
		ORDER BY id
	`, orderID).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := make([]OrderLineResponse, 0)
	for rows.Next() {
		var line OrderLineResponse
		if err = rows.Scan(
			&line.ProductRef,
			&line.Name,
			&line.Qty,
			&line.UnitPrice,
			&line.LineTotal,
		); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return lines, nil
}

// renderAddress rebuilds the address value object from its columns so the
// read model shows the same human-readable form the mirror and chat use.
func renderAddress(
	kind string,
	city, street, building, apartment, carrier sql.NullString,
	branch sql.NullInt64,
) (string, error) {
	switch kind {
	case kernel.AddressPickupPoint.String():
		addr, err := kernel.NewPickupPointAddress(carrier.String, int(branch.Int64))
		if err != nil {
			return "", err
		}
		return addr.String(), nil
	default:
		addr, err := kernel.NewStreetAddress(city.String, street.String, building.String, apartment.String)
		if err != nil {
			return "", err
		}
		return addr.String(), nil
	}
}
