package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/nurpe/contract-archive/internal/auth"
	"github.com/nurpe/contract-archive/internal/config"
	"github.com/nurpe/contract-archive/internal/db"
	"github.com/nurpe/contract-archive/internal/excel"
	httpapi "github.com/nurpe/contract-archive/internal/http"
	"github.com/nurpe/contract-archive/internal/logger"
	"github.com/nurpe/contract-archive/internal/pdf"
	"github.com/nurpe/contract-archive/internal/repository"
	"github.com/nurpe/contract-archive/internal/service"
	"github.com/nurpe/contract-archive/internal/status"
	"github.com/nurpe/contract-archive/internal/verify"
)

const shutdownTimeout = 10 * time.Second

func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the archive REST API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			log := logger.New(cfg.Environment)

			database, err := db.New(cfg, log)
			if err != nil {
				return fmt.Errorf("connect database: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, database, log)
		},
	}
}

type server struct {
	http    *http.Server
	sampler *status.Sampler
}

func buildServer(cfg *config.Config, database *gorm.DB, log zerolog.Logger) (*server, error) {
	renderer, err := verify.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("init verification templates: %w", err)
	}
	pdfGenerator, err := pdf.NewGenerator(cfg.PDF.FontPath)
	if err != nil {
		return nil, fmt.Errorf("init pdf generator: %w", err)
	}

	collectionRepo := repository.NewCollectionRepository(database)
	statusRepo := repository.NewStatusRepository(database)
	recorder := status.NewRecorder(cfg.Status.Segments, cfg.Status.Interval)

	collections := service.NewCollectionService(collectionRepo, cfg, log)
	authService := service.NewAuthService(collections, auth.NewIssuer(cfg.Auth.TokenSecret, cfg.Auth.TokenTTL), log)

	handler := httpapi.NewHandler(httpapi.Services{
		Collections: collections,
		Reports:     service.NewReportService(collections, excel.NewGenerator()),
		Verify:      service.NewVerifyService(collections, renderer, pdfGenerator, cfg, log),
		Auth:        authService,
		Status:      service.NewStatusService(statusRepo, recorder, cfg),
	}, cfg.HTTP.PublicURL, log)

	router := httpapi.NewRouter(handler, httpapi.RouterOptions{
		Environment: cfg.Environment,
		CORSOrigins: cfg.HTTP.CORSOrigins,
		Recorder:    recorder,
		Actors:      authService,
		Log:         log,
	})

	return &server{
		http: &http.Server{
			Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		sampler: status.NewSampler(statusRepo, recorder, log),
	}, nil
}

// serve runs the API and the sampler until ctx is done, then drains
// in-flight requests.
func serve(ctx context.Context, cfg *config.Config, database *gorm.DB, log zerolog.Logger) error {
	srv, err := buildServer(cfg, database, log)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		srv.sampler.Run(gctx)
		return nil
	})
	g.Go(func() error {
		log.Info().Str("addr", srv.http.Addr).Msg("starting contract archive")
		if err := srv.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info().Msg("shutting down")
		return srv.http.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	if sqlDB, dbErr := database.DB(); dbErr == nil {
		_ = sqlDB.Close()
	}
	return err
}
