package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"finance-tracker/config"
	"finance-tracker/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func blockchainRouter(t *testing.T) *gin.Engine {
	t.Helper()
	setupDB(t)
	r := gin.New()
	r.POST("/api/transaction", SaveBlockchainTransaction)
	r.GET("/api/transactions/:address", GetBlockchainTransactions)
	return r
}

func TestSaveBlockchainTransactionIdempotent(t *testing.T) {
	r := blockchainRouter(t)
	body := `{"from_address":"0xAbC1","to_address":"0xDeF2","amount":1.25,"tx_hash":"0xhash1"}`

	first := doJSON(r, http.MethodPost, "/api/transaction", body)
	assert.Equal(t, http.StatusOK, first.Code)

	second := doJSON(r, http.MethodPost, "/api/transaction", body)
	assert.Equal(t, http.StatusOK, second.Code)

	var resp struct {
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)

	var count int64
	config.DB.Model(&models.BlockchainTx{}).Where("tx_hash = ?", "0xhash1").Count(&count)
	assert.Equal(t, int64(1), count, "re-submission must not create a second row")
}

func TestSaveBlockchainTransactionMissingField(t *testing.T) {
	r := blockchainRouter(t)

	w := doJSON(r, http.MethodPost, "/api/transaction",
		`{"from_address":"0xabc","to_address":"0xdef","amount":2}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, "Missing data", resp.Message)
}

func TestBlockchainAddressesCanonicalized(t *testing.T) {
	r := blockchainRouter(t)

	w := doJSON(r, http.MethodPost, "/api/transaction",
		`{"from_address":"0xABCD","to_address":"0xEF01","amount":3.5,"tx_hash":"0xhash2"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var stored models.BlockchainTx
	require.NoError(t, config.DB.Where("tx_hash = ?", "0xhash2").First(&stored).Error)
	assert.Equal(t, "0xabcd", stored.FromAddress)
	assert.Equal(t, "0xef01", stored.ToAddress)

	// A mixed-case query still finds the transfer.
	get := doGet(r, "/api/transactions/0xAbCd")
	require.Equal(t, http.StatusOK, get.Code)

	var resp struct {
		Status string                `json:"status"`
		Data   []models.BlockchainTx `json:"data"`
	}
	require.NoError(t, json.Unmarshal(get.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "0xhash2", resp.Data[0].TxHash)
}

func TestBlockchainTransactionsEmptyHistory(t *testing.T) {
	r := blockchainRouter(t)

	w := doGet(r, "/api/transactions/0xnobody")
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []models.BlockchainTx `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Data)
}
