package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/clinicportal/portal/internal/config"
	"github.com/clinicportal/portal/internal/domain/booking"
	"github.com/clinicportal/portal/internal/domain/catalog"
	"github.com/clinicportal/portal/internal/domain/doctors"
	"github.com/clinicportal/portal/internal/domain/payment"
	"github.com/clinicportal/portal/internal/domain/users"
	"github.com/clinicportal/portal/internal/platform/auth"
	"github.com/clinicportal/portal/internal/platform/db"
	"github.com/clinicportal/portal/internal/platform/events"
	"github.com/clinicportal/portal/internal/platform/gateway"
	"github.com/clinicportal/portal/internal/platform/middleware"
	"github.com/clinicportal/portal/migrations"
)

const serviceName = "doctors-portal"

func main() {
	rootCmd := &cobra.Command{
		Use:   "portal-server",
		Short: "Doctors portal API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the portal API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			pool, err := openPool(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			count, err := db.NewMigrator(pool, migrations.FS).Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			pool, err := openPool(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			statuses, err := db.NewMigrator(pool, migrations.FS).Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			fmt.Println("---------- ---------------------------------------- ---------- --------------------")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	})

	return cmd
}

func openPool(ctx context.Context) (*pgxpool.Pool, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
}

func newLogger(env string) zerolog.Logger {
	if env == "development" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}

// newGateway picks the payment processor named by PAYMENT_GATEWAY.
func newGateway(cfg *config.Config) (gateway.Gateway, error) {
	switch cfg.PaymentGateway {
	case "omise":
		return gateway.NewOmise(cfg.OmisePublicKey, cfg.OmiseSecretKey)
	case "stripe":
		return gateway.NewStripe(cfg.StripeSecretKey), nil
	default:
		return nil, fmt.Errorf("unknown payment gateway %q", cfg.PaymentGateway)
	}
}

// newPublisher connects to the broker when RABBIT_URL is set. Without one,
// domain events are dropped.
func newPublisher(cfg *config.Config, logger zerolog.Logger) events.Publisher {
	if cfg.RabbitURL == "" {
		return events.Noop{}
	}
	pub, err := events.NewAMQPPublisher(cfg.RabbitURL, cfg.EventsExchange)
	if err != nil {
		logger.Warn().Err(err).Msg("event broker unavailable, events disabled")
		return events.Noop{}
	}
	logger.Info().Str("exchange", cfg.EventsExchange).Msg("publishing domain events")
	return pub
}

func authMiddleware(cfg *config.Config) echo.MiddlewareFunc {
	switch cfg.ResolvedAuthMode() {
	case "development":
		return auth.DevAuthMiddleware(cfg.DevUserEmail)
	case "hmac":
		return auth.JWTMiddleware(auth.JWTConfig{
			Issuer:     cfg.AuthIssuer,
			Audience:   cfg.AuthAudience,
			SigningKey: []byte(cfg.AuthSigningKey),
			Skipper:    auth.AuthSkipper,
		})
	default:
		return auth.JWTMiddleware(auth.JWTConfig{
			Issuer:   cfg.AuthIssuer,
			Audience: cfg.AuthAudience,
			JWKSURL:  cfg.AuthJWKSURL,
			Skipper:  auth.AuthSkipper,
		})
	}
}

// newEcho builds the server with the global middleware chain. Routes are
// registered by the caller.
func newEcho(cfg *config.Config, logger zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = middleware.ErrorHandler(logger)

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", middleware.RequestIDHeader, auth.DevAuthHeader},
	}))
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.RequestTimeout(cfg.RequestTimeout))
	e.Use(authMiddleware(cfg))

	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "doctors portal server is running")
	})
	e.GET("/health", db.LivenessHandler(serviceName))
	return e
}

type services struct {
	catalog  *catalog.Service
	bookings *booking.Service
	payments *payment.Service
	users    *users.Service
	doctors  *doctors.Service
}

func registerRoutes(e *echo.Echo, svc services) {
	guard := auth.NewGuard(svc.users)
	requireIdentity := auth.RequireIdentity()
	requireAdmin := guard.RequireAdmin()

	api := e.Group("")
	booking.NewHandler(svc.bookings).RegisterRoutes(api, requireIdentity)
	catalog.NewHandler(svc.catalog).RegisterRoutes(api, requireIdentity, requireAdmin)
	payment.NewHandler(svc.payments).RegisterRoutes(api)
	users.NewHandler(svc.users).RegisterRoutes(api, requireIdentity, requireAdmin)
	doctors.NewHandler(svc.doctors).RegisterRoutes(api, requireAdmin)
}

func runServer() error {
	logger := newLogger(os.Getenv("ENV"))

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	if n, err := db.NewMigrator(pool, migrations.FS).Up(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to apply migrations")
	} else if n > 0 {
		logger.Info().Int("applied", n).Msg("migrations applied")
	}

	gw, err := newGateway(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure payment gateway")
	}
	pub := newPublisher(cfg, logger)
	defer pub.Close()

	bookingRepo := booking.NewRepoPG(pool)
	catalogSvc := catalog.NewService(catalog.NewRepoPG(pool), logger)
	svc := services{
		catalog:  catalogSvc,
		bookings: booking.NewService(bookingRepo, catalogSvc, pub, logger),
		payments: payment.NewService(payment.NewRepoPG(pool), bookingRepo, db.NewTxRunner(pool), gw,
			pub, cfg.PaymentCurrency, logger),
		users:   users.NewService(users.NewRepoPG(pool), logger),
		doctors: doctors.NewService(doctors.NewRepoPG(pool), logger),
	}

	e := newEcho(cfg, logger)
	e.GET("/health/db", db.HealthHandler(pool))
	registerRoutes(e, svc)

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("auth_mode", cfg.ResolvedAuthMode()).
			Str("gateway", cfg.PaymentGateway).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
