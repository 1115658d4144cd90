package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"finance-tracker/config"
	"finance-tracker/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type blockchainTxInput struct {
	FromAddress string   `json:"from_address" binding:"required"`
	ToAddress   string   `json:"to_address" binding:"required"`
	Amount      *float64 `json:"amount" binding:"required"`
	TxHash      string   `json:"tx_hash" binding:"required"`
}

// SaveBlockchainTransaction stores a transfer reported by the frontend.
// Re-submitting a known tx_hash is idempotent success. Addresses are
// canonicalized to lower case at write time so reads never have to fold.
func SaveBlockchainTransaction(c *gin.Context) {
	var input blockchainTxInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "Missing data")
		return
	}

	var existing models.BlockchainTx
	err := config.DB.Where("tx_hash = ?", input.TxHash).First(&existing).Error
	if err == nil {
		respondMessage(c, http.StatusOK, "Transaction already exists")
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Error saving transaction: %v", err)
		respondError(c, http.StatusInternalServerError, "Server error")
		return
	}

	txn := models.BlockchainTx{
		FromAddress: strings.ToLower(input.FromAddress),
		ToAddress:   strings.ToLower(input.ToAddress),
		Amount:      *input.Amount,
		TxHash:      input.TxHash,
	}
	if err := config.DB.Create(&txn).Error; err != nil {
		if isUniqueViolation(err) {
			respondMessage(c, http.StatusOK, "Transaction already exists")
			return
		}
		log.Printf("Error saving transaction: %v", err)
		respondError(c, http.StatusInternalServerError, "Server error")
		return
	}

	respondMessage(c, http.StatusOK, "Transaction saved")
}

// GetBlockchainTransactions lists every transfer involving an address,
// newest first.
func GetBlockchainTransactions(c *gin.Context) {
	address := strings.ToLower(c.Param("address"))

	var txns []models.BlockchainTx
	err := config.DB.
		Where("from_address = ? OR to_address = ?", address, address).
		Order("timestamp desc").
		Find(&txns).Error
	if err != nil {
		log.Printf("Error fetching transactions for %s: %v", address, err)
		respondError(c, http.StatusInternalServerError, "Could not fetch history")
		return
	}

	respondData(c, http.StatusOK, txns)
}

func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(err.Error(), "UNIQUE constraint failed")
}
