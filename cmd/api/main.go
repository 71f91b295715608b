package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/joho/godotenv"
	"github.com/staff-tracker-api/internal/config"
	"github.com/staff-tracker-api/internal/infrastructure/dynamo"
	"github.com/staff-tracker-api/internal/infrastructure/engine"
	jwtinfra "github.com/staff-tracker-api/internal/infrastructure/jwt"
	s3infra "github.com/staff-tracker-api/internal/infrastructure/s3"
	"github.com/staff-tracker-api/internal/infrastructure/smtp"
	transporthttp "github.com/staff-tracker-api/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	otpRepo := dynamo.NewOtpRepo(dynamoClient, cfg.DynamoTables.Otps)
	locationRepo := dynamo.NewLocationRepo(dynamoClient, cfg.DynamoTables.StaffLocations)

	// JWT provider is optional; attendance routes stay open if keys are missing.
	var jwtProvider *jwtinfra.Provider
	if p, err := jwtinfra.NewProvider(cfg); err == nil {
		jwtProvider = p
	} else {
		log.Printf("WARN: JWT provider not available: %v", err)
	}

	// S3 photo archive.
	s3Client := s3infra.NewClient(cfg)
	photoStore := s3infra.NewStore(s3Client, cfg.S3BucketName)

	// SMTP mailer.
	mailer := smtp.NewMailer(cfg)

	// Face-recognition engine launcher.
	launcher := engine.NewLauncher(cfg)

	// Active sweep of expired OTP rows. DynamoDB TTL also removes them,
	// but only eventually.
	scheduler := gocron.NewScheduler(time.UTC)
	_, err := scheduler.Every(cfg.OTPSweepInterval).Do(func() {
		n, err := otpRepo.DeleteExpired(context.Background(), time.Now())
		if err != nil {
			log.Printf("WARN: otp sweep failed: %v", err)
			return
		}
		if n > 0 {
			log.Printf("otp sweep removed %d expired codes", n)
		}
	})
	if err != nil {
		log.Printf("WARN: could not schedule otp sweep: %v", err)
	}
	scheduler.StartAsync()

	deps := &transporthttp.Deps{
		OtpRepo:      otpRepo,
		LocationRepo: locationRepo,
		PhotoStore:   photoStore,
		Mailer:       mailer,
		Engine:       launcher,
		JWTProvider:  jwtProvider,
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:        fmt.Sprintf(":%s", cfg.AppPort),
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		// The recognition dispatcher imposes no timeout of its own; this is
		// the outer bound on a hung engine run.
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	scheduler.Stop()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
