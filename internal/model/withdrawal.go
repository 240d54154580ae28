package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type WithdrawalMethod string

const (
	WithdrawalMethodPayPal WithdrawalMethod = "paypal"
	WithdrawalMethodCrypto WithdrawalMethod = "crypto"
)

// MinWithdrawalAmount is the smallest payout a user may request, in USD.
var MinWithdrawalAmount = decimal.NewFromInt(10)

// Withdrawal is a user-submitted payout instruction. Rows are immutable
// after creation; processing happens off-system.
type Withdrawal struct {
	ID                  int64            `json:"id" db:"id"`
	UserID              int64            `json:"user_id" db:"user_id"`
	Name                string           `json:"name" db:"name"`
	Email               string           `json:"email" db:"email"`
	Phone               *string          `json:"phone,omitempty" db:"phone"`
	Method              WithdrawalMethod `json:"method" db:"method"`
	Amount              decimal.Decimal  `json:"amount" db:"amount"`
	PayPalUsername      *string          `json:"paypal_username,omitempty" db:"paypal_username"`
	CryptoCoin          *string          `json:"crypto_coin,omitempty" db:"crypto_coin"`
	CryptoWalletAddress *string          `json:"crypto_wallet_address,omitempty" db:"crypto_wallet_address"`
	CreatedAt           time.Time        `json:"created_at" db:"created_at"`
}
