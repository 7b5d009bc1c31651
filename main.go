package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/viduni-ubesekara/GreenLink-Project/auth"
	"github.com/viduni-ubesekara/GreenLink-Project/cart"
	"github.com/viduni-ubesekara/GreenLink-Project/catalog"
	"github.com/viduni-ubesekara/GreenLink-Project/checkout"
	"github.com/viduni-ubesekara/GreenLink-Project/config"
	"github.com/viduni-ubesekara/GreenLink-Project/logging"
	"github.com/viduni-ubesekara/GreenLink-Project/metrics"
	"github.com/viduni-ubesekara/GreenLink-Project/notify"
	"github.com/viduni-ubesekara/GreenLink-Project/payment"
	"github.com/viduni-ubesekara/GreenLink-Project/promotion"
	"github.com/viduni-ubesekara/GreenLink-Project/realtime"
	"github.com/viduni-ubesekara/GreenLink-Project/receipt"
	"github.com/viduni-ubesekara/GreenLink-Project/routes"
	"github.com/viduni-ubesekara/GreenLink-Project/store"
	"github.com/viduni-ubesekara/GreenLink-Project/store/mongostore"
	"github.com/viduni-ubesekara/GreenLink-Project/store/sqlstore"
	"github.com/viduni-ubesekara/GreenLink-Project/uploads"
)

func main() {
	envFile := flag.String("env", "", "path to a .env file (default ./.env)")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		// Logger config lives in cfg, so fall back to a default one.
		zap.NewExample().Fatal("config", zap.Error(err))
	}

	log, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		zap.NewExample().Fatal("logger", zap.Error(err))
	}
	defer func() { _ = log.Sync() }()
	log.Info("starting application", zap.String("env", cfg.App.Env))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal("open store", zap.Error(err))
	}

	sender, closeSender := buildSender(cfg, log)
	dispatcher := notify.NewDispatcher(sender, notify.DispatcherOptions{
		QueueSize: cfg.Notify.QueueSize,
		Workers:   2,
		Retries:   cfg.Notify.Retries,
	}, log.Named("notify"))

	hub := realtime.NewHub(cfg.Origins(), log.Named("realtime"))
	files := uploads.New(cfg.Uploads.Dir, cfg.App.PublicBaseURL, log.Named("uploads"))

	catalogSvc := catalog.NewService(st, files, cfg.Catalog.LowStockThreshold, log.Named("catalog"))
	cartSvc := cart.NewService(st, st, log.Named("cart"))
	promotionSvc := promotion.NewService(st, dispatcher, cfg.Location(), log.Named("promotion"))
	paymentSvc := payment.NewService(st, dispatcher, hub, files, cfg.WhatsApp.CountryCode, log.Named("payment"))
	checkoutSvc := checkout.NewService(st, st, promotionSvc, paymentSvc, receipt.Company{
		Name:              cfg.Company.Name,
		BankAccountName:   cfg.Company.BankAccountName,
		BankAccountNumber: cfg.Company.BankAccountNumber,
		BankBranch:        cfg.Company.BankBranch,
	}, log.Named("checkout"))

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(logging.Middleware(log), logging.Recovery(log), metrics.Middleware())

	// Receipts and payment slips come in as multipart uploads.
	r.MaxMultipartMemory = 32 << 20

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Origins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-KEY", logging.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Bill-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.Static(uploads.PublicPath, files.Dir())

	routes.SetupRoutes(r, routes.Deps{
		Log:            log,
		Issuer:         auth.NewIssuer(cfg.Auth.JWTSecret, cfg.SessionTTL()),
		OperatorAPIKey: cfg.Auth.OperatorAPIKey,
		Catalog:        catalogSvc,
		Cart:           cartSvc,
		Checkout:       checkoutSvc,
		Promotions:     promotionSvc,
		Payments:       paymentSvc,
		Uploads:        files,
		Hub:            hub,
		Ping:           st.Ping,
	})

	backup := &uploads.Backup{
		Src:       cfg.Uploads.Dir,
		Dest:      cfg.Uploads.BackupDir,
		Retention: time.Duration(cfg.Uploads.BackupRetention) * 24 * time.Hour,
		Hour:      cfg.Uploads.BackupHour,
		Log:       log.Named("backup"),
	}
	go backup.Run(ctx)

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info("server running", zap.String("port", cfg.App.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", zap.Error(err))
	}
	hub.Close()
	dispatcher.Close()
	closeSender()
	if err := st.Close(shutdownCtx); err != nil {
		log.Error("store close", zap.Error(err))
	}
}

func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (store.Store, error) {
	if cfg.DB.Driver == "mongo" {
		return mongostore.Connect(ctx, mongostore.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
		}, log.Named("mongo"))
	}
	return sqlstore.OpenPostgres(sqlstore.Config{
		DSN:      cfg.DB.URL,
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Name:     cfg.DB.Name,
	}, log.Named("sql"))
}

// buildSender routes each channel to its configured gateway. Channels
// without configuration are logged and discarded.
func buildSender(cfg *config.Config, log *zap.Logger) (notify.Sender, func()) {
	router := notify.NewRouter()
	closeFn := func() {}

	if cfg.WhatsApp.APIURL != "" {
		router.Route(notify.ChannelWhatsApp, notify.NewWhatsAppSender(cfg.WhatsApp.APIURL, cfg.WhatsApp.Token, cfg.WhatsApp.CountryCode))
	} else {
		log.Warn("WHATSAPP_API_URL not set; whatsapp messages are discarded")
		router.Route(notify.ChannelWhatsApp, notify.Noop{})
	}

	if cfg.SMTP.Host != "" {
		router.Route(notify.ChannelEmail, notify.NewEmailSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password, cfg.SMTP.From))
	} else {
		log.Warn("SMTP_HOST not set; emails are discarded")
		router.Route(notify.ChannelEmail, notify.Noop{})
	}

	if brokers := cfg.KafkaBrokers(); len(brokers) > 0 {
		pub, err := notify.NewKafkaPublisher(brokers, cfg.Kafka.Topic)
		if err != nil {
			log.Error("kafka unavailable; payment events are discarded", zap.Error(err))
			router.Route(notify.ChannelEvent, notify.Noop{})
		} else {
			router.Route(notify.ChannelEvent, pub)
			closeFn = func() {
				if err := pub.Close(); err != nil {
					log.Warn("kafka close", zap.Error(err))
				}
			}
		}
	} else {
		router.Route(notify.ChannelEvent, notify.Noop{})
	}

	return router, closeFn
}
