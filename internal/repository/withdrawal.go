package repository

import (
	"context"

	"github.com/Okpara007/buzz4less/internal/model"
)

func (r *Repository) CreateWithdrawal(ctx context.Context, w *model.Withdrawal) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO withdrawals (user_id, name, email, phone, method, amount, paypal_username, crypto_coin, crypto_wallet_address)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`,
		w.UserID,
		w.Name,
		w.Email,
		w.Phone,
		w.Method,
		w.Amount,
		w.PayPalUsername,
		w.CryptoCoin,
		w.CryptoWalletAddress,
	).Scan(&w.ID, &w.CreatedAt)
}

func (r *Repository) CreateContact(ctx context.Context, c *model.Contact) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO contacts (name, email, phone, message, user_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		c.Name,
		c.Email,
		c.Phone,
		c.Message,
		c.UserID,
	).Scan(&c.ID, &c.CreatedAt)
}
