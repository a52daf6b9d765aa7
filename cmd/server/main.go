package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/medbill/healthcare-billing/internal/config"
	"github.com/medbill/healthcare-billing/internal/es"
	"github.com/medbill/healthcare-billing/internal/events"
	"github.com/medbill/healthcare-billing/internal/httpserver"
	"github.com/medbill/healthcare-billing/internal/repo"
	"github.com/medbill/healthcare-billing/internal/service"
	"github.com/medbill/healthcare-billing/pkg/logging"
	loggingmw "github.com/medbill/healthcare-billing/pkg/middleware/logging"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second
	e.Use(loggingmw.RequestLogger(logger))

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := config.InitDB(initCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	producer := events.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
	defer producer.Close()

	gormRepo := &repo.GormRepo{DB: db}

	patientHandler := &httpserver.PatientHTTP{
		Svc:     &service.PatientService{Repo: gormRepo},
		ESIndex: cfg.ESIndex,
	}
	if cfg.ESURL != "" {
		esClient, err := es.NewClient(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
		if err != nil {
			log.Fatalf("elasticsearch init error: %v", err)
		}
		patientHandler.ES = esClient
	}

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler: &httpserver.AuthHTTP{
			Svc:      &service.AuthService{Repo: gormRepo, JWTSecret: cfg.JWTSecret},
			Producer: producer,
		},
		PatientHandler: patientHandler,
		BillHandler: &httpserver.BillHTTP{
			Svc:      &service.BillService{Repo: gormRepo},
			Producer: producer,
		},
		JWTSecret: cfg.JWTSecret,
	})

	go func() {
		addr := fmt.Sprintf(":%d", cfg.ServerPort)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("echo start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("echo shutdown: %v", err)
	}
}
