package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/chelseasymphony/donations/docs"
	"github.com/chelseasymphony/donations/internal/config"
	"github.com/chelseasymphony/donations/internal/database"
	"github.com/chelseasymphony/donations/internal/handler"
	"github.com/chelseasymphony/donations/internal/mail"
	"github.com/chelseasymphony/donations/internal/metrics"
	"github.com/chelseasymphony/donations/internal/paypal"
	"github.com/chelseasymphony/donations/internal/repository"
	"github.com/chelseasymphony/donations/internal/service"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(config.Load())
		},
	}
}

func serve(cfg *config.Config) error {
	setLogLevel(cfg.LogLevel)
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	routes := handler.Routes{APIDoc: docs.OpenAPI}
	var ledger service.EventLedger

	if cfg.UsesDatabase() {
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		pool, err := database.NewPool(connectCtx, cfg.DatabaseURL())
		cancel()
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer pool.Close()

		if cfg.AutoMigrate {
			if err := database.RunMigrations(cfg.DatabaseURL()); err != nil {
				return err
			}
		}

		repo := repository.NewIPNRepository(pool)
		ledger = repo
		routes.Health = handler.NewHealthHandler(pool)
		routes.Events = handler.NewIPNEventHandler(repo)
	} else {
		mem, err := repository.NewMemoryLedger(cfg.LedgerSize)
		if err != nil {
			return err
		}
		ledger = mem
		routes.Health = handler.NewHealthHandler(nil)
		log.Warn().Int("size", cfg.LedgerSize).Msg("using in-memory event ledger; duplicates are only detected within this process")
	}

	transport, closeTransport, err := newTransport(cfg)
	if err != nil {
		return err
	}
	defer closeTransport()

	templates, err := mail.LoadTemplates()
	if err != nil {
		return err
	}
	notifier := mail.NewTemplateNotifier(templates, transport, cfg.FromEmail)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m, err := metrics.New(reg)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}
	routes.Metrics = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})

	var verifier handler.IPNVerifier
	if cfg.PayPalVerify {
		verifier = paypal.NewVerifier(cfg.PayPalTest, nil)
	} else {
		log.Warn().Msg("PAYPAL_VERIFY=false: notifications are trusted without a postback; use only for local development")
	}

	ipnService := service.NewIPNService(cfg.MerchantEmail, notifier, ledger, m)
	routes.IPN = handler.NewIPNHandler(ipnService, verifier)
	routes.Donate = handler.NewDonateHandler(service.NewDonateService(cfg.MerchantEmail, cfg.SiteURL))

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.NewRouter(routes),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Str("mail_transport", cfg.MailTransport).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info().Msg("server exited")
	return nil
}

func newTransport(cfg *config.Config) (mail.Transport, func(), error) {
	noop := func() {}

	switch cfg.MailTransport {
	case "console", "":
		return mail.ConsoleTransport{}, noop, nil
	case "smtp":
		return mail.NewSMTPTransport(mail.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPassword,
		}), noop, nil
	case "kafka":
		if len(cfg.KafkaBrokers) == 0 {
			return nil, noop, errors.New("MAIL_TRANSPORT=kafka requires KAFKA_BROKERS")
		}
		kt, err := mail.NewKafkaTransport(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaUsername, cfg.KafkaPassword)
		if err != nil {
			return nil, noop, fmt.Errorf("kafka transport: %w", err)
		}
		return kt, func() {
			if err := kt.Close(); err != nil {
				log.Error().Err(err).Msg("close kafka transport")
			}
		}, nil
	}

	return nil, noop, fmt.Errorf("unknown mail transport %q", cfg.MailTransport)
}
