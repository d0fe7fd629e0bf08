package main

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"quisine/config"
	"quisine/controllers"
	"quisine/handlers"
	"quisine/middleware"
	"quisine/repository"
	"quisine/routes"
	"quisine/services"
	"quisine/storage"
	"quisine/utils"
)

func main() {
	settings := config.Load()
	utils.InitLogger(settings.Production, settings.LogLevel)

	gin.SetMode(settings.GinMode)
	log.Info().Str("mode", gin.Mode()).Str("store", settings.StoreDriver).Msg("starting quisine")

	store, closeStore := openStore(settings)
	defer closeStore()

	images, disk := openImageStore(settings)

	r := gin.New()
	r.Use(middleware.Recovery(settings.Production))
	r.Use(middleware.GinLogger())

	registry := prometheus.NewRegistry()
	middleware.InitMetrics(registry)
	r.Use(middleware.PrometheusMiddleware())
	r.GET("/metrics", middleware.MetricsHandler(registry, settings.MetricsAllowedIPs))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     settings.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: !containsWildcard(settings.CORSAllowedOrigins),
	}))
	r.Use(middleware.RequestTimeout(settings.RequestTimeout))

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "quisine"})
	})
	if disk != nil {
		r.Static(storage.PublicPrefix, disk.Root())
	}

	tokens := utils.NewTokenManager(settings.JWTSecret, settings.JWTTTL)
	mailer := utils.NewMailer(settings.SMTPHost, settings.SMTPPort, settings.SMTPUser, settings.SMTPPassword, settings.MailFrom)

	shopService := services.NewShopService(store, images, tokens, mailer)
	menuService := services.NewMenuService(store.Menus, images)
	orderService := services.NewOrderService(store.Orders)
	statsService := services.NewStatsService(store.Orders, store.Expenses, settings.ShopTimezone)

	routes.InitializeRoutes(r, routes.Deps{
		Auth:       controllers.NewAuthController(shopService),
		Admin:      controllers.NewAdminController(shopService, menuService, orderService, statsService),
		Storefront: handlers.NewStorefrontHandler(shopService, orderService),
		Tokens:     tokens,
	})

	scheduler, err := utils.StartOrderGauge(store.Orders, settings.GaugeInterval, settings.ShopTimezone)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start order gauge")
	}
	defer scheduler.Stop()

	if err := r.Run(":" + settings.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func openStore(settings config.Settings) (*repository.Store, func()) {
	if settings.StoreDriver == "memory" {
		log.Warn().Msg("using the in-memory store, data is lost on restart")
		return repository.NewMemoryStore(), func() {}
	}
	db, err := config.ConnectDatabase(settings.MongoURI, settings.MongoDB)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	return repository.NewMongoStore(db), db.Disconnect
}

// openImageStore prefers object storage and falls back to the local upload directory.
func openImageStore(settings config.Settings) (storage.ImageStore, *storage.DiskStore) {
	if settings.S3Enabled() {
		s3, err := storage.NewS3Store(settings.S3Endpoint, settings.S3AccessKey, settings.S3SecretKey,
			settings.S3Bucket, settings.CDNDomain, settings.S3UseSSL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize image storage")
		}
		return s3, nil
	}
	disk, err := storage.NewDiskStore(settings.UploadDir, settings.PublicBaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize upload directory")
	}
	return disk, disk
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
