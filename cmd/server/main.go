package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/yigtkaya/kapsam-erp-sub000/internal/config"
	"github.com/yigtkaya/kapsam-erp-sub000/internal/erp/entity"
	"github.com/yigtkaya/kapsam-erp-sub000/internal/erp/handler"
	"github.com/yigtkaya/kapsam-erp-sub000/internal/erp/repository"
	"github.com/yigtkaya/kapsam-erp-sub000/internal/erp/service"
	"github.com/yigtkaya/kapsam-erp-sub000/internal/middleware"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := initLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting kapsam-erp service",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
	)

	db, err := initDatabase(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := entity.AutoMigrate(db); err != nil {
		zapLogger.Fatal("Failed to migrate database", zap.Error(err))
	}

	rdb := initRedis(cfg.Redis)

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, db, rdb)
	handlers := handler.NewHandlers(services)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(zapLogger))
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())

	registerRoutes(router, handlers, cfg)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		zapLogger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exited")
}

func initLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config

	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	switch cfg.Level {
	case "debug":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}

	return zapCfg.Build()
}

func initDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	}

	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return db, nil
}

func initRedis(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

func registerRoutes(r *gin.Engine, h *handler.Handlers, cfg *config.Config) {
	r.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/health/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"build_time": BuildTime,
		})
	})

	v1 := r.Group("/api/v1/erp")
	{
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(cfg.JWT.Secret))
		{
			customers := authorized.Group("/customers")
			{
				customers.GET("", h.Sales.ListCustomers)
				customers.POST("", h.Sales.CreateCustomer)
				customers.GET("/:id", h.Sales.GetCustomer)
				customers.PUT("/:id", h.Sales.UpdateCustomer)
				customers.DELETE("/:id", h.Sales.DeleteCustomer)
			}

			orders := authorized.Group("/sales-orders")
			{
				orders.GET("", h.Sales.ListOrders)
				orders.POST("", h.Sales.CreateOrder)
				orders.GET("/:id", h.Sales.GetOrder)
				orders.PUT("/:id", h.Sales.UpdateOrder)
				orders.DELETE("/:id", h.Sales.DeleteOrder)
				orders.POST("/:id/submit", h.Sales.SubmitOrder)
				orders.POST("/:id/approve", h.Sales.ApproveOrder)
				orders.POST("/:id/cancel", h.Sales.CancelOrder)

				orders.POST("/:id/items", h.Sales.AddItem)
				orders.PUT("/:id/items/:itemId", h.Sales.UpdateItem)
				orders.DELETE("/:id/items/:itemId", h.Sales.DeleteItem)
			}

			shipments := authorized.Group("/shipments")
			{
				shipments.GET("", h.Shipment.List)
				shipments.POST("", h.Shipment.Create)
				shipments.GET("/:id", h.Shipment.Get)
				shipments.PUT("/:id", h.Shipment.Update)
				shipments.DELETE("/:id", h.Shipment.Delete)
			}

			products := authorized.Group("/products")
			{
				products.GET("", h.Product.List)
				products.POST("", h.Product.Create)
				products.GET("/:id", h.Product.Get)
				products.PUT("/:id", h.Product.Update)
				products.DELETE("/:id", h.Product.Delete)
				products.POST("/:id/stock-adjustments", h.Product.AdjustStock)
				products.GET("/:id/stock-transactions", h.Product.ListStockTransactions)
			}

			boms := authorized.Group("/boms")
			{
				boms.GET("", h.BOM.List)
				boms.POST("", h.BOM.Create)
				boms.GET("/:id", h.BOM.Get)
				boms.DELETE("/:id", h.BOM.Delete)
				boms.POST("/:id/activate", h.BOM.Activate)
				boms.POST("/:id/components", h.BOM.AddComponent)
				boms.PUT("/:id/components/:componentId", h.BOM.UpdateComponent)
				boms.DELETE("/:id/components/:componentId", h.BOM.DeleteComponent)
			}

			machines := authorized.Group("/machines")
			{
				machines.GET("", h.Machine.List)
				machines.POST("", h.Machine.Create)
				machines.GET("/:id", h.Machine.Get)
				machines.PUT("/:id", h.Machine.Update)
				machines.DELETE("/:id", h.Machine.Delete)
				machines.POST("/:id/maintenance", h.Machine.OpenMaintenance)
				machines.GET("/:id/maintenance", h.Machine.ListMaintenance)
				machines.POST("/:id/maintenance/:logId/resolve", h.Machine.ResolveMaintenance)
			}

			dashboard := authorized.Group("/dashboard")
			{
				dashboard.GET("/deadlines", h.Dashboard.Deadlines)
				dashboard.GET("/order-summary", h.Dashboard.OrderSummary)
				dashboard.GET("/pending-demand", h.Dashboard.PendingDemand)
				dashboard.GET("/stock-sufficiency", h.Dashboard.StockSufficiency)
				dashboard.GET("/monthly-shipped", h.Dashboard.MonthlyShipped)
				dashboard.GET("/monthly-shipped/export", h.Dashboard.ExportMonthlyShipped)
			}
		}
	}
}
