package main

import (
	"log"
	"os"
	"time"

	"finance-tracker/cache"
	"finance-tracker/config"
	"finance-tracker/database"
	"finance-tracker/handlers"
	"finance-tracker/market"
	"finance-tracker/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; env vars may come from the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file loaded:", err)
	}

	config.InitDB()
	config.InitRedis()

	if err := database.Migrate(); err != nil {
		log.Fatal("Failed to migrate models:", err)
	}

	h := handlers.New(market.NewYahoo(), cache.New(config.Rdb))

	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	router.LoadHTMLGlob("templates/*.html")

	// Public routes
	router.GET("/login", handlers.ShowLogin)
	router.POST("/login", handlers.Login)
	router.GET("/register", handlers.ShowRegister)
	router.POST("/register", handlers.Register)
	router.GET("/logout", handlers.Logout)

	// Standalone tool pages
	router.GET("/yf", handlers.StaticPage("YF.html"))
	router.GET("/gst", handlers.StaticPage("gst_calculator.html"))
	router.GET("/emi", handlers.StaticPage("EMI.html"))
	router.GET("/SIP_ca", handlers.StaticPage("SIP_ca.html"))
	router.GET("/ai_commander", handlers.StaticPage("ai_commander.html"))
	router.GET("/transaction", handlers.StaticPage("transaction.html"))

	// Market + blockchain API
	api := router.Group("/api")
	{
		api.GET("/stocks", h.Stocks)
		api.GET("/stock/:symbol", h.Stock)
		api.GET("/volume-shockers", h.VolumeShockers)
		api.GET("/portfolio", h.Portfolio)
		api.GET("/search", h.Search)
		api.GET("/intraday/:symbol", h.Intraday)
		api.POST("/transaction", handlers.SaveBlockchainTransaction)
		api.GET("/transactions/:address", handlers.GetBlockchainTransactions)
	}

	// Session-protected pages
	pages := router.Group("/")
	pages.Use(middleware.RequireSession())
	{
		pages.GET("/", handlers.Index)
		pages.GET("/add", handlers.ShowAddTransaction)
		pages.POST("/add", handlers.AddTransaction)
		pages.GET("/delete/:id", handlers.DeleteTransaction)
		pages.GET("/transaction-history", handlers.TransactionHistory)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "5000"
	}
	if err := router.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
