package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/hassan3301/dailycrm/internal/adapter/assistant"
	"github.com/hassan3301/dailycrm/internal/adapter/document"
	"github.com/hassan3301/dailycrm/internal/adapter/links"
	"github.com/hassan3301/dailycrm/internal/adapter/mailer"
	"github.com/hassan3301/dailycrm/internal/adapter/postgres"
	"github.com/hassan3301/dailycrm/internal/adapter/postgres/contact"
	"github.com/hassan3301/dailycrm/internal/adapter/postgres/event"
	"github.com/hassan3301/dailycrm/internal/adapter/postgres/expense"
	"github.com/hassan3301/dailycrm/internal/adapter/postgres/interaction"
	"github.com/hassan3301/dailycrm/internal/adapter/postgres/invoice"
	"github.com/hassan3301/dailycrm/internal/auth"
	"github.com/hassan3301/dailycrm/internal/config"
	"github.com/hassan3301/dailycrm/internal/service/chat"
	"github.com/hassan3301/dailycrm/internal/service/interpreter"
	"github.com/hassan3301/dailycrm/internal/service/interpreter/dates"
	"github.com/hassan3301/dailycrm/internal/transport/middleware"
	"github.com/hassan3301/dailycrm/internal/transport/rest"
)

// Run is the application entry point. It loads configuration, connects to
// the database, wires services and serves HTTP until ctx is cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.Bool("mail_enabled", cfg.Mail.Enabled()),
		slog.String("timezone", cfg.Interpreter.Timezone),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	handler, cleanup, err := NewHandler(cfg, logger, pool)
	if err != nil {
		return err
	}
	defer cleanup()

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down", slog.Duration("timeout", cfg.Server.ShutdownTimeout))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// NewHandler wires repositories, services and transport into the HTTP
// handler. The returned cleanup stops background workers.
func NewHandler(cfg *config.Config, logger *slog.Logger, pool *pgxpool.Pool, assistantOpts ...option.RequestOption) (http.Handler, func(), error) {
	interp, err := NewInterpreter(cfg, logger, pool)
	if err != nil {
		return nil, nil, err
	}

	chatSvc := chat.NewService(logger, assistant.NewClient(cfg.Assistant, logger, assistantOpts...), interp, cfg.Assistant.Timeout)
	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)

	limiter := middleware.NewRateLimiter(5 * time.Minute)

	handlers := rest.Handlers{
		Health: rest.NewHealthHandler(pool, BuildVersion(), cfg.Mail.Enabled()),
		Chat:   rest.NewChatHandler(chatSvc, interp, cfg.Server.MaxBodyBytes, logger),
		Invoice: rest.NewInvoiceHandler(
			invoice.New(pool),
			contact.New(pool),
			document.NewPDFRenderer(cfg.Company.Name),
			logger,
		),
	}

	handler := rest.NewRouter(handlers, rest.RouterOptions{
		CORS:          cfg.CORS,
		Auth:          middleware.Auth(jwtManager),
		Limiter:       limiter,
		ChatRateLimit: cfg.Server.ChatRateLimit,
		Logger:        logger,
	})

	return handler, limiter.Stop, nil
}

// NewInterpreter builds the action interpreter on top of pool.
func NewInterpreter(cfg *config.Config, logger *slog.Logger, pool *pgxpool.Pool) (*interpreter.Service, error) {
	linkBuilder, err := links.NewBuilder(cfg.Links.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("links: %w", err)
	}

	deps := interpreter.Deps{
		Contacts:     contact.New(pool),
		Invoices:     invoice.New(pool),
		Interactions: interaction.New(pool),
		Events:       event.New(pool),
		Expenses:     expense.New(pool),
		Tx:           postgres.NewTxManager(pool),
		Mailer:       mailer.NewSMTP(cfg.Mail, logger),
		Documents:    document.NewPDFRenderer(cfg.Company.Name),
		Links:        linkBuilder,
	}

	return interpreter.NewService(logger, interpreter.Config{
		PageSize:       cfg.Interpreter.PageSize,
		CandidateLimit: cfg.Interpreter.CandidateLimit,
		CompanyName:    cfg.Company.Name,
	}, dates.NewResolver(cfg.Interpreter.Location, nil), deps), nil
}
