package routes

import (
	"net/http"

	"medical-records-server/internal/config"
	"medical-records-server/internal/handlers"
	"medical-records-server/internal/middleware"
	"medical-records-server/internal/prediction"
	"medical-records-server/internal/repository"
	"medical-records-server/internal/services"
	"medical-records-server/internal/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Options carries the pluggable collaborators of the router.
type Options struct {
	Store  storage.FileStore
	Scorer prediction.Scorer
	Logger zerolog.Logger
}

// NewRouter builds the gin engine with the middleware chain and every route.
func NewRouter(db *gorm.DB, cfg *config.Config, opts Options) *gin.Engine {
	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.Logger(opts.Logger),
		middleware.Recovery(opts.Logger),
	)

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Origin}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader}
	corsConfig.ExposeHeaders = []string{middleware.RequestIDHeader}
	router.Use(cors.New(corsConfig))

	router.Use(middleware.RateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst, opts.Logger))

	SetupRoutes(router, db, cfg, opts)
	return router
}

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config, opts Options) {
	if opts.Scorer == nil {
		opts.Scorer = prediction.NewRandomScorer()
	}

	doctorRepo := repository.NewDoctorRepository(db)
	patientRepo := repository.NewPatientRepository(db)
	imageRepo := repository.NewImageRepository(db)
	reportRepo := repository.NewReportRepository(db)

	doctorHandler := handlers.NewDoctorHandler(services.NewDoctorService(doctorRepo, patientRepo), opts.Logger)
	patientHandler := handlers.NewPatientHandler(services.NewPatientService(patientRepo, doctorRepo, imageRepo), opts.Logger)
	imageHandler := handlers.NewImageHandler(
		services.NewImageService(imageRepo, patientRepo, reportRepo, opts.Store, opts.Scorer, opts.Logger),
		cfg.MaxUploadBytes(),
		opts.Logger,
	)
	reportHandler := handlers.NewReportHandler(services.NewReportService(reportRepo, imageRepo), opts.Logger)

	api := router.Group("")
	if cfg.AuthEnabled() {
		api.Use(middleware.AuthMiddleware(cfg))
	}

	doctorRoutes := api.Group("/medico")
	{
		doctorRoutes.POST("", doctorHandler.CreateDoctor)
		doctorRoutes.PUT("", doctorHandler.UpdateDoctor)
		doctorRoutes.GET("/:id", doctorHandler.GetDoctorByID)
		doctorRoutes.GET("/dni/:dni", doctorHandler.GetDoctorByDNI)
		doctorRoutes.DELETE("/:id", doctorHandler.DeleteDoctor)
	}

	patientRoutes := api.Group("/paciente")
	{
		patientRoutes.POST("", patientHandler.CreatePatient)
		patientRoutes.PUT("", patientHandler.UpdatePatient)
		patientRoutes.GET("/:id", patientHandler.GetPatientByID)
		patientRoutes.GET("/medico/:medicoId", patientHandler.GetPatientsByDoctor)
		patientRoutes.DELETE("/:id", patientHandler.DeletePatient)
	}

	imageRoutes := api.Group("/imagen")
	{
		imageRoutes.POST("", imageHandler.UploadImage)
		imageRoutes.GET("/:id", imageHandler.GetImageByID)
		imageRoutes.GET("/:id/archivo", imageHandler.DownloadImage)
		imageRoutes.GET("/paciente/:pacienteId", imageHandler.GetImagesByPatient)
		imageRoutes.GET("/predict/:pacienteId", imageHandler.Predict)
		imageRoutes.DELETE("/:id", imageHandler.DeleteImage)
	}

	reportRoutes := api.Group("/informe")
	{
		reportRoutes.POST("", reportHandler.CreateReport)
		reportRoutes.GET("/:id", reportHandler.GetReportByID)
		reportRoutes.GET("/imagen/:imagenId", reportHandler.GetReportsByImage)
		reportRoutes.DELETE("/:id", reportHandler.DeleteReport)
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		status := "UP"
		code := http.StatusOK
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			status = "DOWN"
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{"status": status})
	})
}
