package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/nafood/nafood-backend-go/config"
	"github.com/nafood/nafood-backend-go/database"
	"github.com/nafood/nafood-backend-go/handlers"
	customMiddleware "github.com/nafood/nafood-backend-go/middleware"
	"github.com/nafood/nafood-backend-go/repository"
	"github.com/nafood/nafood-backend-go/routes"
)

func main() {
	config.LoadEnv()

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(customMiddleware.Metrics())

	db, err := database.Connect(
		context.Background(),
		config.GetEnv("MONGODB_URI", "mongodb://localhost:27017"),
		config.GetEnv("MONGODB_DB", "nafood"),
	)
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}
	if err := db.EnsureIndexes(context.Background()); err != nil {
		log.Fatal("Failed to create indexes: ", err)
	}

	counters := repository.NewCounters(db.DB)
	userRepo := repository.NewUsers(db.DB, counters)
	productRepo := repository.NewProducts(db.DB, counters)
	orderRepo := repository.NewOrders(db.DB, counters)
	reviewRepo := repository.NewReviews(db.DB, counters)
	bannerRepo := repository.NewBanners(db.DB, counters)

	uploadDir := config.GetEnv("UPLOAD_DIR", "uploads")

	routes.SetupRoutes(e, routes.Handlers{
		Auth:      handlers.NewAuthHandler(userRepo),
		Users:     handlers.NewUserHandler(userRepo),
		Products:  handlers.NewProductHandler(productRepo),
		Orders:    handlers.NewOrderHandler(orderRepo, productRepo),
		Reviews:   handlers.NewReviewHandler(reviewRepo, orderRepo),
		Banners:   handlers.NewBannerHandler(bannerRepo),
		Upload:    handlers.NewUploadHandler(uploadDir),
		UploadDir: uploadDir,
	})

	port := config.GetEnv("PORT", "3000")
	go func() {
		if err := e.Start(":" + port); err != nil {
			log.Println("Server stopped: ", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Println("Server shutdown: ", err)
	}
	if err := db.Disconnect(ctx); err != nil {
		log.Println("Database disconnect: ", err)
	}
	log.Println("Shutdown complete")
}
