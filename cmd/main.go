package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"home-services-server/internal/config"
	"home-services-server/internal/handler"
	"home-services-server/internal/repository"
	"home-services-server/internal/services"
	"home-services-server/internal/utils"
)

func main() {
	// 1. Logger, base context, shutdown manager
	utils.InitLogger()
	logger := utils.GetLogger()
	defer logger.Sync()

	baseCtx := context.Background()
	ctx, shutdownManager := utils.NewShutdownManager(baseCtx)
	shutdownManager.StartListening()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	// 2. MongoDB
	mongoClient, err := utils.NewMongoDBConnection(cfg.Mongo)
	if err != nil {
		logger.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	db := mongoClient.Database(cfg.MongoDBName)

	shutdownManager.Register(func(ctx context.Context) error {
		logger.Info("closing MongoDB connection")
		return mongoClient.Disconnect(ctx)
	})

	// 3. Redis
	cache, err := utils.NewRedisClient(cfg.RedisURL)
	if err != nil {
		logger.Fatal("failed to connect to Redis", zap.Error(err))
	}

	shutdownManager.Register(func(ctx context.Context) error {
		logger.Info("closing Redis connection")
		return cache.Close()
	})

	// 4. Repositories, services, handlers
	serviceRepo := repository.NewServiceRepository(db)
	bookingRepo := repository.NewBookingRepository(db)

	if err := bookingRepo.EnsureIndexes(ctx); err != nil {
		logger.Fatal("failed to ensure indexes", zap.Error(err))
	}

	catalogService := services.NewCatalogService(serviceRepo, bookingRepo, cache, cfg.CacheTTL)
	bookingService := services.NewBookingService(bookingRepo, serviceRepo, cache)

	jwtUtil := utils.NewJWTUtil(cfg.JWTSecret)

	authHandler := handler.NewAuthHandler(jwtUtil)
	serviceHandler := handler.NewServiceHandler(catalogService)
	bookingHandler := handler.NewBookingHandler(bookingService)

	// 5. Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.RequestLogger())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/", authHandler.Health)
	router.POST("/jwt", authHandler.IssueToken)
	router.GET("/services", serviceHandler.ListServices)
	router.GET("/services/:id", serviceHandler.GetService)
	router.GET("/top-rated-services", serviceHandler.TopRatedServices)
	router.GET("/categories", serviceHandler.Categories)

	protected := router.Group("/")
	protected.Use(utils.AuthMiddleware(jwtUtil))
	{
		protected.GET("/my-services", serviceHandler.MyServices)
		protected.POST("/services", serviceHandler.CreateService)
		protected.PATCH("/services/:id", serviceHandler.UpdateService)
		protected.DELETE("/services/:id", serviceHandler.DeleteService)

		protected.GET("/bookings", bookingHandler.MyBookings)
		protected.POST("/bookings", bookingHandler.CreateBooking)
		protected.DELETE("/bookings/:id", bookingHandler.CancelBooking)
		protected.POST("/services/:id/review", bookingHandler.AddReview)
	}

	// 6. HTTP server
	server := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	go func() {
		logger.Info("home services server running", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	shutdownManager.Register(func(ctx context.Context) error {
		logger.Info("shutting down HTTP server")
		return server.Shutdown(ctx)
	})

	// The shutdown manager owns process exit.
	select {}
}
