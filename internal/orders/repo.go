package orders

import (
	"context"

	"github.com/ariefcatur/go-storefront/internal/apperr"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) ListAll(ctx context.Context) ([]Order, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, product_name, quantity, total, phone, address, status, created_at
		FROM orders ORDER BY created_at DESC`)
	if err != nil {
		return nil, apperr.Query(Collection, err)
	}
	defer rows.Close()

	out := []Order{}
	for rows.Next() {
		var o Order
		var s string
		if err := rows.Scan(&o.ID, &o.ProductName, &o.Quantity, &o.Total, &o.Phone, &o.Address, &s, &o.CreatedAt); err != nil {
			return nil, apperr.Query(Collection, err)
		}
		o.Status = Status(s)
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Query(Collection, err)
	}
	return out, nil
}

// Create inserts one pending order row for a single line item. Total is
// computed here from the unit price captured in the cart.
func (r *Repo) Create(ctx context.Context, li LineItem) (Order, error) {
	if li.Quantity <= 0 {
		return Order{}, apperr.Invalid("quantity", "harus lebih dari 0")
	}
	o := Order{
		ID:          uuid.NewString(),
		ProductName: li.ProductName,
		Quantity:    li.Quantity,
		Total:       li.Total(),
		Phone:       li.Phone,
		Address:     li.Address,
		Status:      StatusPending,
	}
	err := r.DB.QueryRow(ctx, `
		INSERT INTO orders(id, product_name, quantity, total, phone, address, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`,
		o.ID, o.ProductName, o.Quantity, o.Total, o.Phone, o.Address, string(o.Status),
	).Scan(&o.CreatedAt)
	if err != nil {
		return Order{}, apperr.Mutation(Collection, "insert", err)
	}
	return o, nil
}

func (r *Repo) UpdateStatus(ctx context.Context, id string, s Status) error {
	if !s.Valid() {
		return apperr.Invalid("status", "harus salah satu dari pending, done, batal")
	}
	if _, err := uuid.Parse(id); err != nil {
		return apperr.NotFound(Collection, id)
	}
	ct, err := r.DB.Exec(ctx, `UPDATE orders SET status=$2 WHERE id=$1`, id, string(s))
	if err != nil {
		return apperr.Mutation(Collection, "update", err)
	}
	if ct.RowsAffected() != 1 {
		return apperr.NotFound(Collection, id)
	}
	return nil
}
