package main

import (
	"log"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/EtomCoda/bobchi-backend/internal/checkout"
	"github.com/EtomCoda/bobchi-backend/internal/config"
	"github.com/EtomCoda/bobchi-backend/internal/database"
	"github.com/EtomCoda/bobchi-backend/internal/handlers"
	"github.com/EtomCoda/bobchi-backend/internal/middleware"
	"github.com/EtomCoda/bobchi-backend/internal/orders"
)

func main() {
	config.Load()

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(config.AppEnv.DBName)

	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureUserIndexes(db); err != nil {
		log.Printf("user index warning: %v", err)
	}
	if err := database.EnsureOrderIndexes(db); err != nil {
		log.Printf("order index warning: %v", err)
	}
	if err := database.EnsureOrderItemIndexes(db); err != nil {
		log.Printf("order item index warning: %v", err)
	}
	if err := database.EnsureRefreshTokenIndexes(db); err != nil {
		log.Printf("refresh token index warning: %v", err)
	}

	sessions := checkout.NewStore()
	orderSvc := orders.NewService(orders.NewMongoRepository(db))

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: false,
	}))

	r.POST("/auth/register", handlers.Register(
		db,
		config.AppEnv.JWTSecret,
		config.AppEnv.AccessTokenTTL,
		config.AppEnv.RefreshTokenTTL,
	))
	r.POST("/auth/login", handlers.Login(
		db,
		config.AppEnv.JWTSecret,
		config.AppEnv.AccessTokenTTL,
		config.AppEnv.RefreshTokenTTL,
	))
	r.POST("/auth/refresh", handlers.Refresh(
		db,
		config.AppEnv.JWTSecret,
		config.AppEnv.AccessTokenTTL,
		config.AppEnv.RefreshTokenTTL,
	))
	r.POST("/auth/logout", handlers.Logout(db, sessions))
	r.GET("/auth/me", middleware.UserAuth(config.AppEnv.JWTSecret), handlers.GetMe(db))

	user := r.Group("/")
	user.Use(middleware.UserAuth(config.AppEnv.JWTSecret))
	{
		user.GET("/profile", handlers.GetProfile(db))
		user.PUT("/profile", handlers.UpdateProfile(db))

		user.GET("/cart", handlers.GetCart(sessions))
		user.POST("/cart/items", handlers.AddCartItem(sessions))
		user.PUT("/cart/items/:id", handlers.UpdateCartItem(sessions))
		user.DELETE("/cart/items/:id", handlers.RemoveCartItem(sessions))

		user.GET("/checkout", handlers.GetCheckout(sessions))
		user.POST("/checkout/advance", handlers.AdvanceCheckout(sessions, orderSvc))
		user.POST("/checkout/back", handlers.BackCheckout(sessions))
		user.POST("/checkout/reset", handlers.ResetCheckout(sessions))

		user.GET("/orders", handlers.ListOrders(orderSvc))
		user.GET("/orders/:id", handlers.GetOrder(orderSvc))
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r.Run(":" + port)
}
