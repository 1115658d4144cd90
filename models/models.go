package models

import "time"

// Transaction is a manual ledger entry. Rows are only ever created and
// deleted, never updated.
type Transaction struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Type        string  `gorm:"not null" json:"type"` // income/expense
	Amount      float64 `gorm:"not null" json:"amount"`
	Description string  `json:"description"`
}

// BlockchainTx records an on-chain transfer reported by the frontend.
// TxHash uniquely identifies a transfer; addresses are stored lower-cased.
type BlockchainTx struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	FromAddress string    `gorm:"not null" json:"from_address"`
	ToAddress   string    `gorm:"not null" json:"to_address"`
	Amount      float64   `gorm:"not null" json:"amount"`
	TxHash      string    `gorm:"uniqueIndex;not null" json:"tx_hash"`
	Timestamp   time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"timestamp"`
}

// User holds the bcrypt hash in Password, never the plaintext.
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Username string `gorm:"uniqueIndex;not null" json:"username"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`
}
