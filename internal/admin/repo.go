package admin

import (
	"context"
	"errors"

	"github.com/ariefcatur/go-storefront/internal/apperr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

const Collection = "admins"

// hashCost dipakai juga untuk dummyHash agar waktu respon login seragam.
const hashCost = bcrypt.DefaultCost

type Account struct {
	Username     string
	PasswordHash []byte
}

type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) FindByUsername(ctx context.Context, username string) (Account, error) {
	var a Account
	err := r.DB.QueryRow(ctx, `SELECT username, password_hash FROM admins WHERE username=$1`, username).
		Scan(&a.Username, &a.PasswordHash)
	if errors.Is(err, pgx.ErrNoRows) {
		return Account{}, apperr.NotFound(Collection, username)
	}
	if err != nil {
		return Account{}, apperr.Query(Collection, err)
	}
	return a, nil
}

// Upsert stores username with a bcrypt hash of password.
func (r *Repo) Upsert(ctx context.Context, username, password string) error {
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	_, err = r.DB.Exec(ctx, `
		INSERT INTO admins(username, password_hash) VALUES ($1, $2)
		ON CONFLICT (username) DO UPDATE SET password_hash = EXCLUDED.password_hash`,
		username, hash)
	if err != nil {
		return apperr.Mutation(Collection, "upsert", err)
	}
	return nil
}

func HashPassword(password string) ([]byte, error) {
	if len(password) < 8 {
		return nil, apperr.Invalid("password", "minimal 8 karakter")
	}
	return bcrypt.GenerateFromPassword([]byte(password), hashCost)
}
