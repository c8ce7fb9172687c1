package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/cmlabs-hris/timecard-backend-go/internal/config"
	appHTTP "github.com/cmlabs-hris/timecard-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/timecard-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/timecard-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/timecard-backend-go/internal/pkg/storage"
	"github.com/cmlabs-hris/timecard-backend-go/internal/repository/postgresql"
	serviceAuth "github.com/cmlabs-hris/timecard-backend-go/internal/service/auth"
	"github.com/cmlabs-hris/timecard-backend-go/internal/service/file"
	reportService "github.com/cmlabs-hris/timecard-backend-go/internal/service/report"
	timecardService "github.com/cmlabs-hris/timecard-backend-go/internal/service/timecard"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	JWTRepository := postgresql.NewJWTRepository(db)
	runRepo := postgresql.NewRunRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)

	fileStorage, err := storage.NewLocalStorage(
		cfg.Storage.BasePath,
		cfg.Storage.BaseURL,
	)
	if err != nil {
		log.Fatal("Failed to initialize local storage:", err)
	}

	fileService := file.NewFileService(fileStorage)

	operator := serviceAuth.Operator{
		Username:     cfg.Auth.OperatorUsername,
		PasswordHash: cfg.Auth.OperatorPasswordHash,
	}
	authService := serviceAuth.NewAuthService(db, operator, JWTService, JWTRepository)

	rules := timecardService.NewRules(
		cfg.Processing.ReviewThresholdHours,
		cfg.Processing.WeeklyOvertimeThreshold,
		cfg.Processing.LongSpanHours,
		cfg.Processing.MorningCutoff,
		cfg.Processing.EveningCutoff,
		cfg.Processing.ColonDistanceCheck,
	)
	pipeline := timecardService.NewTimecardService(rules)
	processingService := reportService.NewReportService(fileStorage, pipeline, runRepo)

	authHandler := appHTTP.NewAuthHandler(JWTService, authService)
	timecardHandler := appHTTP.NewTimecardHandler(processingService, fileService)
	runHandler := appHTTP.NewRunHandler(runRepo)

	router := appHTTP.NewRouter(
		JWTService,
		authHandler,
		timecardHandler,
		runHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
