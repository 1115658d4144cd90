package handlers

import (
	"net/http"
	"strconv"

	"finance-tracker/config"
	"finance-tracker/database"
	"finance-tracker/models"

	"github.com/gin-gonic/gin"
)

// Index renders the dashboard with the full ledger.
func Index(c *gin.Context) {
	txns, err := database.AllTransactions()
	if err != nil {
		c.String(http.StatusInternalServerError, "could not load transactions")
		return
	}
	c.HTML(http.StatusOK, "index.html", gin.H{
		"Transactions": txns,
		"Username":     c.GetString("username"),
	})
}

func ShowAddTransaction(c *gin.Context) {
	c.HTML(http.StatusOK, "add_transaction.html", gin.H{})
}

func AddTransaction(c *gin.Context) {
	txnType := c.PostForm("type")
	amount, err := strconv.ParseFloat(c.PostForm("amount"), 64)
	if txnType == "" || err != nil {
		c.HTML(http.StatusBadRequest, "add_transaction.html", gin.H{
			"Error": "A type and a numeric amount are required",
		})
		return
	}

	txn := models.Transaction{
		Type:        txnType,
		Amount:      amount,
		Description: c.PostForm("description"),
	}
	if err := config.DB.Create(&txn).Error; err != nil {
		c.HTML(http.StatusInternalServerError, "add_transaction.html", gin.H{
			"Error": "Could not save the transaction",
		})
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// DeleteTransaction removes a ledger entry by id. Deleting an id that does
// not exist is a no-op.
func DeleteTransaction(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err == nil {
		config.DB.Delete(&models.Transaction{}, id)
	}
	c.Redirect(http.StatusFound, "/")
}

func TransactionHistory(c *gin.Context) {
	txns, err := database.AllTransactions()
	if err != nil {
		c.String(http.StatusInternalServerError, "could not load transactions")
		return
	}
	c.HTML(http.StatusOK, "transaction_history.html", gin.H{
		"Transactions": txns,
	})
}

// StaticPage serves one of the standalone tool pages.
func StaticPage(template string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.HTML(http.StatusOK, template, gin.H{})
	}
}
