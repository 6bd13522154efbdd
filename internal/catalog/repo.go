package catalog

import (
	"context"
	"errors"

	"github.com/ariefcatur/go-storefront/internal/apperr"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ DB *pgxpool.Pool }

const selectCols = `SELECT id, name, price, image, COALESCE(description, ''), created_at FROM products`

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.Price, &p.Image, &p.Description, &p.CreatedAt)
	return p, err
}

// List returns every product, newest first.
func (r *Repo) List(ctx context.Context) ([]Product, error) {
	rows, err := r.DB.Query(ctx, selectCols+` ORDER BY created_at DESC`)
	if err != nil {
		return nil, apperr.Query(Collection, err)
	}
	defer rows.Close()

	out := []Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, apperr.Query(Collection, err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Query(Collection, err)
	}
	return out, nil
}

func (r *Repo) Get(ctx context.Context, id string) (Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Product{}, apperr.NotFound(Collection, id)
	}
	p, err := scanProduct(r.DB.QueryRow(ctx, selectCols+` WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, apperr.NotFound(Collection, id)
	}
	if err != nil {
		return Product{}, apperr.Query(Collection, err)
	}
	return p, nil
}

func (r *Repo) Create(ctx context.Context, in ProductInput) (Product, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return Product{}, err
	}
	p := Product{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Price:       in.Price,
		Image:       in.Image,
		Description: in.Description,
	}
	err := r.DB.QueryRow(ctx, `
		INSERT INTO products(id, name, price, image, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`,
		p.ID, p.Name, p.Price, p.Image, p.Description,
	).Scan(&p.CreatedAt)
	if err != nil {
		return Product{}, apperr.Mutation(Collection, "insert", err)
	}
	return p, nil
}

func (r *Repo) Update(ctx context.Context, id string, in ProductInput) error {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return err
	}
	if _, err := uuid.Parse(id); err != nil {
		return apperr.NotFound(Collection, id)
	}
	ct, err := r.DB.Exec(ctx, `
		UPDATE products SET name=$2, price=$3, image=$4, description=$5
		WHERE id=$1`,
		id, in.Name, in.Price, in.Image, in.Description,
	)
	if err != nil {
		return apperr.Mutation(Collection, "update", err)
	}
	if ct.RowsAffected() != 1 {
		return apperr.NotFound(Collection, id)
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperr.NotFound(Collection, id)
	}
	ct, err := r.DB.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return apperr.Mutation(Collection, "delete", err)
	}
	if ct.RowsAffected() != 1 {
		return apperr.NotFound(Collection, id)
	}
	return nil
}
