package database

import (
	"fmt"

	"finance-tracker/config"
	"finance-tracker/models"
)

// Migrate creates the three tables if they do not exist yet.
func Migrate() error {
	if err := config.DB.AutoMigrate(
		&models.User{},
		&models.Transaction{},
		&models.BlockchainTx{},
	); err != nil {
		return fmt.Errorf("migrate models: %w", err)
	}
	return nil
}

// AllTransactions returns every ledger entry in insertion order.
func AllTransactions() ([]models.Transaction, error) {
	var txns []models.Transaction
	if err := config.DB.Order("id").Find(&txns).Error; err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txns, nil
}
