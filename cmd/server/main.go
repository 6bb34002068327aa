package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	bookingapp "github.com/seyifunmi/clinicshop/internal/booking/app"
	bookinghttp "github.com/seyifunmi/clinicshop/internal/booking/http"
	bookingpg "github.com/seyifunmi/clinicshop/internal/booking/infra/postgres"
	cartapp "github.com/seyifunmi/clinicshop/internal/cart/app"
	carthttp "github.com/seyifunmi/clinicshop/internal/cart/http"
	"github.com/seyifunmi/clinicshop/internal/cart/infra/catalogreader"
	cartsessions "github.com/seyifunmi/clinicshop/internal/cart/infra/sessionstore"
	catalogapp "github.com/seyifunmi/clinicshop/internal/catalog/app"
	cataloghttp "github.com/seyifunmi/clinicshop/internal/catalog/http"
	catalogpg "github.com/seyifunmi/clinicshop/internal/catalog/infra/postgres"
	checkoutapp "github.com/seyifunmi/clinicshop/internal/checkout/app"
	checkouthttp "github.com/seyifunmi/clinicshop/internal/checkout/http"
	"github.com/seyifunmi/clinicshop/internal/checkout/infra/paystack"
	checkoutsessions "github.com/seyifunmi/clinicshop/internal/checkout/infra/sessionstore"
	identityapp "github.com/seyifunmi/clinicshop/internal/identity/app"
	identityhttp "github.com/seyifunmi/clinicshop/internal/identity/http"
	identitypg "github.com/seyifunmi/clinicshop/internal/identity/infra/postgres"
	identityredis "github.com/seyifunmi/clinicshop/internal/identity/infra/redis"
	identitysmtp "github.com/seyifunmi/clinicshop/internal/identity/infra/smtp"
	orderapp "github.com/seyifunmi/clinicshop/internal/order/app"
	orderhttp "github.com/seyifunmi/clinicshop/internal/order/http"
	orderpg "github.com/seyifunmi/clinicshop/internal/order/infra/postgres"
	"github.com/seyifunmi/clinicshop/internal/session"
	"github.com/seyifunmi/clinicshop/pkg/config"
	"github.com/seyifunmi/clinicshop/pkg/logger"
	"github.com/seyifunmi/clinicshop/pkg/postgres"
	"github.com/seyifunmi/clinicshop/pkg/redisclient"
	"github.com/seyifunmi/clinicshop/pkg/shutdown"
)

func main() {
	cfg := config.Load()
	log := logger.New(logger.Options{
		Service:   "clinicshop",
		Env:       cfg.AppEnv,
		Level:     cfg.LogLevel,
		AddSource: true,
	})

	root := context.Background()
	ctx, cancel := shutdown.WithSignals(root)
	defer cancel()

	db, err := postgres.Open(cfg.PostgresDSN)
	if err != nil {
		log.Error("postgres connect failed", slog.Any("err", err))
		os.Exit(1)
	}

	var models []any
	models = append(models, catalogpg.Models()...)
	models = append(models, bookingpg.Models()...)
	models = append(models, orderpg.Models()...)
	models = append(models, identitypg.Models()...)
	if err := postgres.Migrate(db, models...); err != nil {
		log.Error("migration failed", slog.Any("err", err))
		os.Exit(1)
	}

	rdb, err := redisclient.New(ctx, cfg.RedisURL)
	if err != nil {
		log.Error("redis connect failed", slog.Any("err", err))
		os.Exit(1)
	}
	defer rdb.Close()

	sessions := session.NewManager(rdb, cfg.SessionTTL)

	catalogSvc := catalogapp.NewService(catalogpg.NewDrugRepo(db))
	cartSvc := cartapp.NewService(cartsessions.New(sessions), catalogreader.New(catalogSvc))
	bookingSvc := bookingapp.NewService(bookingpg.NewBookingRepo(db))
	orderSvc := orderapp.NewService(orderpg.NewOrderRepo(db))
	checkoutSvc := checkoutapp.NewService(
		cartSvc,
		orderSvc,
		checkoutsessions.New(sessions),
		paystack.NewClient(cfg.PaystackBaseURL, cfg.PaystackSecretKey, cfg.PaymentTimeout),
		cfg.Dev(),
	)
	identitySvc := identityapp.NewService(
		identitypg.NewUserRepo(db),
		identityredis.New(rdb),
		identitysmtp.New(cfg.SMTPAddr, cfg.SMTPFrom),
		cfg.BaseURL,
		log,
	)

	if !cfg.Dev() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(session.Middleware(int(cfg.SessionTTL.Seconds())))

	cataloghttp.NewHandler(catalogSvc, sessions, log).Register(router)
	carthttp.NewHandler(cartSvc, sessions, log).Register(router)
	bookinghttp.NewHandler(bookingSvc, sessions, log).Register(router)
	orderhttp.NewHandler(orderSvc, sessions, log).Register(router)
	checkouthttp.NewHandler(checkoutSvc, sessions, log).Register(router)
	identityhttp.NewHandler(identitySvc, sessions, log).Register(router)

	router.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/readyz", func(c *gin.Context) { c.Status(http.StatusOK) })

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("http server starting", slog.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server error", slog.Any("err", err))
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown error", slog.Any("err", err))
	}

	wg.Wait()
	log.Info("bye")
}
