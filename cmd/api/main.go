package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/atuta-hr/attendance-payroll-go/internal/config"
	"github.com/atuta-hr/attendance-payroll-go/internal/domain/payroll"
	appHTTP "github.com/atuta-hr/attendance-payroll-go/internal/handler/http"
	"github.com/atuta-hr/attendance-payroll-go/internal/pkg/cron"
	"github.com/atuta-hr/attendance-payroll-go/internal/pkg/database"
	"github.com/atuta-hr/attendance-payroll-go/internal/pkg/jwt"
	"github.com/atuta-hr/attendance-payroll-go/internal/pkg/lock"
	"github.com/atuta-hr/attendance-payroll-go/internal/pkg/storage"
	"github.com/atuta-hr/attendance-payroll-go/internal/repository/postgresql"
	advanceService "github.com/atuta-hr/attendance-payroll-go/internal/service/advance"
	attendanceService "github.com/atuta-hr/attendance-payroll-go/internal/service/attendance"
	serviceAuth "github.com/atuta-hr/attendance-payroll-go/internal/service/auth"
	deductionService "github.com/atuta-hr/attendance-payroll-go/internal/service/deduction"
	correctionService "github.com/atuta-hr/attendance-payroll-go/internal/service/hourcorrection"
	overtimeService "github.com/atuta-hr/attendance-payroll-go/internal/service/overtime"
	payrollService "github.com/atuta-hr/attendance-payroll-go/internal/service/payroll"
	"github.com/atuta-hr/attendance-payroll-go/internal/service/photo"
	rateService "github.com/atuta-hr/attendance-payroll-go/internal/service/rate"
	userService "github.com/atuta-hr/attendance-payroll-go/internal/service/user"
	workingHoursService "github.com/atuta-hr/attendance-payroll-go/internal/service/workinghours"
)

const version = "v1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(cfg.App.LogLevel),
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		log.Fatal("Error connecting to database: ", err)
	}
	defer db.Close()

	loc := cfg.Location()
	tx := postgresql.NewTransactor(db)

	userRepo := postgresql.NewUserRepository(db)
	rateSnapshotRepo := postgresql.NewRateSnapshotRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	workingHoursRepo := postgresql.NewWorkingHoursRepository(db)
	rateRepo := postgresql.NewRateRepository(db)
	deductionRepo := postgresql.NewDeductionRepository(db)
	deductionSnapshotRepo := postgresql.NewDeductionSnapshotRepository(db)
	advanceRepo := postgresql.NewAdvanceRepository(db)
	overtimeRepo := postgresql.NewOvertimeRepository(db)
	correctionRepo := postgresql.NewCorrectionRepository(db)

	JWTService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	if err != nil {
		log.Fatal("Failed to initialize JWT service: ", err)
	}

	var fileStorage storage.FileStorage
	uploadsDir := ""
	switch cfg.Storage.Driver {
	case "local":
		fileStorage, err = storage.NewLocalStorage(cfg.Storage.LocalPath, cfg.Storage.LocalBaseURL)
		if err != nil {
			log.Fatal("Failed to initialize local storage: ", err)
		}
		uploadsDir = cfg.Storage.LocalPath
	case "s3":
		fileStorage, err = storage.NewS3Storage(ctx, storage.S3Options{
			Endpoint:          cfg.Storage.Endpoint,
			Region:            cfg.Storage.Region,
			Bucket:            cfg.Storage.Bucket,
			AccessKey:         cfg.Storage.AccessKey,
			SecretKey:         cfg.Storage.SecretKey,
			UseSSL:            cfg.Storage.UseSSL,
			UsePathStyle:      cfg.Storage.UsePathStyle,
			PresignExpiration: cfg.Storage.PresignExpiration,
		})
		if err != nil {
			log.Fatal("Failed to initialize S3 storage: ", err)
		}
	default:
		log.Fatal("Unsupported storage driver: ", cfg.Storage.Driver)
	}
	photoService := photo.NewPhotoService(fileStorage)

	authSvc := serviceAuth.NewAuthService(userRepo, JWTService)
	userSvc := userService.NewUserService(tx, userRepo, rateSnapshotRepo)
	workingHoursSvc := workingHoursService.NewWorkingHoursService(workingHoursRepo)
	rateSvc := rateService.NewRateService(rateRepo)
	deductionSvc := deductionService.NewDeductionService(tx, deductionRepo, deductionSnapshotRepo)
	attendanceSvc := attendanceService.NewAttendanceService(tx, attendanceRepo, userRepo, workingHoursRepo, photoService, loc)
	advanceSvc := advanceService.NewAdvanceService(tx, advanceRepo, userRepo, rateRepo, loc)
	overtimeSvc := overtimeService.NewOvertimeService(overtimeRepo, userRepo, rateRepo)
	correctionSvc := correctionService.NewCorrectionService(correctionRepo, userRepo, workingHoursRepo, loc)
	payrollSvc := payrollService.NewPayrollService(payrollService.Repositories{
		Users:              userRepo,
		RateSnapshots:      rateSnapshotRepo,
		Attendance:         attendanceRepo,
		Overtime:           overtimeRepo,
		Advances:           advanceRepo,
		Deductions:         deductionRepo,
		DeductionSnapshots: deductionSnapshotRepo,
		Corrections:        correctionRepo,
	}, payroll.RateSource(cfg.Payroll.RateSource), cfg.Payroll.SummaryConcurrency, loc)

	if seeded, err := workingHoursSvc.SeedDefaults(ctx); err != nil {
		slog.Error("failed to seed default working hours", "error", err)
	} else if seeded > 0 {
		slog.Info("seeded default working hours", "count", seeded)
	}

	var scheduler *cron.Scheduler
	if cfg.Jobs.Enabled {
		var locker lock.Locker
		if cfg.Redis.Addr != "" {
			redisLocker, err := lock.NewRedisLocker(ctx, lock.RedisOptions{
				Addr:     cfg.Redis.Addr,
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
			})
			if err != nil {
				log.Fatal("Failed to initialize Redis locker: ", err)
			}
			defer redisLocker.Close()
			locker = redisLocker
		}

		scheduler = cron.NewScheduler(locker)
		cron.NewAttendanceJobs(
			attendanceSvc,
			correctionSvc,
			cfg.Jobs.AutoClockOutInterval,
			cfg.Jobs.HolidayAllocationInterval,
		).RegisterJobs(scheduler)
		scheduler.Start()
	}

	router := appHTTP.NewRouter(appHTTP.RouterConfig{
		Env:         cfg.App.Env,
		Version:     version,
		CORSOrigins: cfg.App.CORSOrigins,
		UploadsDir:  uploadsDir,
	}, JWTService, appHTTP.Handlers{
		Auth:       appHTTP.NewAuthHandler(authSvc),
		Attendance: appHTTP.NewAttendanceHandler(attendanceSvc),
		User:       appHTTP.NewUserHandler(userSvc),
		Settings:   appHTTP.NewSettingsHandler(workingHoursSvc, rateSvc, deductionSvc),
		Adjustment: appHTTP.NewAdjustmentHandler(advanceSvc, overtimeSvc, correctionSvc),
		Payroll:    appHTTP.NewPayrollHandler(payrollSvc),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", server.Addr, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	if scheduler != nil {
		scheduler.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
