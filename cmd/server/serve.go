package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aidanjbailey/anidopt/internal/application"
	"github.com/aidanjbailey/anidopt/internal/config"
	"github.com/aidanjbailey/anidopt/internal/events"
	"github.com/aidanjbailey/anidopt/internal/handler"
	"github.com/aidanjbailey/anidopt/internal/messaging"
	"github.com/aidanjbailey/anidopt/internal/platform/database"
	"github.com/aidanjbailey/anidopt/internal/platform/metrics"
	"github.com/aidanjbailey/anidopt/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the catalogue HTTP API and membership consumer",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := bootstrap()
			if err != nil {
				return err
			}
			defer rt.close()
			return serve(cmd.Context(), rt)
		},
	}
}

func serve(parent context.Context, rt *app) error {
	cfg, log, db := rt.cfg, rt.log, rt.db
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("starting "+serviceName, zap.String("port", cfg.Port))

	// Production schemas are managed with the migrate command.
	if cfg.AppEnv == "development" {
		if err := database.Migrate(db, log); err != nil {
			return err
		}
	}

	rec := metrics.NewRecorder()

	var publisher application.EventPublisher = application.NopPublisher{}
	if cfg.KafkaConfig.Enabled {
		producer := messaging.NewProducer(cfg.KafkaConfig.Brokers, log)
		defer func() { _ = producer.Close() }()
		publisher = producer
	}

	// Repositories
	animalRepo := repository.NewGormAnimalRepository(db)
	orgRepo := repository.NewGormOrganisationRepository(db)
	refRepo := repository.NewGormReferenceRepository(db)
	linkRepo := repository.NewGormLinkRepository(db)
	userRepo := repository.NewGormUserRepository(db)

	// Services
	refService := application.NewReferenceService(refRepo, rec, log)
	linkService := application.NewLinkService(linkRepo, rec, log)
	orgService := application.NewOrganisationService(orgRepo, publisher, rec, log)
	animalService := application.NewAnimalService(animalRepo, refService, orgRepo, linkService, publisher, rec, log)
	membershipService := application.NewMembershipService(userRepo, linkService, rec, log)

	if cfg.AppEnv != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := handler.NewRouter(handler.Services{
		Animals:       animalService,
		Organisations: orgService,
		References:    refService,
		Memberships:   membershipService,
		Ping:          func(ctx context.Context) error { return database.Ping(ctx, db) },
		Metrics:       rec.Handler(),
	}, log)

	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if cfg.KafkaConfig.Enabled {
		consumer := events.NewMembershipEventConsumer(
			cfg.KafkaConfig.Brokers,
			consumerGroup(cfg.KafkaConfig),
			membershipService,
			rec,
			log,
		)
		defer func() { _ = consumer.Close() }()

		g.Go(func() error {
			log.Info("starting membership event consumer")
			if err := consumer.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down " + serviceName)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("HTTP server forced shutdown", zap.Error(err))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error("service stopped with error", zap.Error(err))
		return err
	}
	log.Info(serviceName + " stopped")
	return nil
}

func consumerGroup(cfg config.KafkaConfig) string {
	return cfg.GroupPrefix + "catalogue-membership"
}
