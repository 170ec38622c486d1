package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	"github.com/shopwindow/shopwindow/internal/adapters/geocoding"
	natsadapter "github.com/shopwindow/shopwindow/internal/adapters/nats"
	"github.com/shopwindow/shopwindow/internal/adapters/postgres"
	"github.com/shopwindow/shopwindow/internal/core/domain"
	"github.com/shopwindow/shopwindow/internal/core/ports"
	"github.com/shopwindow/shopwindow/internal/core/usecases"
	"github.com/shopwindow/shopwindow/internal/pkg/config"
	"github.com/shopwindow/shopwindow/internal/pkg/logging"
	"github.com/shopwindow/shopwindow/internal/workflows"
)

// The geocoder worker does two jobs: it hosts the Temporal backfill
// workflow, and it geocodes new centers as their created events arrive
// on JetStream.
func main() {
	cfg, err := config.Load("shopwindow-geocoder")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logging.Setup("geocoder", os.Getenv("LOG_LEVEL"), "json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := postgres.New(ctx, cfg.Database.DSN(), cfg.Database.MaxConns)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	geocoder := geocoding.NewNominatim(
		cfg.Geocoder.BaseURL,
		cfg.Geocoder.UserAgent,
		time.Duration(cfg.Geocoder.TimeoutSeconds)*time.Second,
	)

	var events ports.EventPublisher
	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats publisher unavailable", "error", err)
	} else {
		events = pub
		defer pub.Close()
	}

	centerRepo := postgres.NewCenterRepo(db)
	centerSvc := usecases.NewCenterService(centerRepo, geocoder, events)

	// Geocode new centers as they are created.
	sub, err := natsadapter.NewSubscriber(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats subscriber unavailable, created events ignored", "error", err)
	} else {
		defer sub.Close()
		err = sub.SubscribeCenterCreated(ctx, func(ctx context.Context, c *domain.ShoppingCenter) error {
			if c.Geocoded() || c.Address.Empty() {
				return nil
			}
			_, err := centerSvc.Geocode(ctx, c.ID)
			return err
		})
		if err != nil {
			slog.Warn("subscribe center created failed", "error", err)
		}
	}

	// Temporal worker for the backfill workflow.
	tc, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
	})
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer tc.Close()

	w := worker.New(tc, cfg.Temporal.TaskQueue, worker.Options{})
	w.RegisterWorkflow(workflows.GeocodeBackfillWorkflow)
	w.RegisterActivity(&workflows.BackfillActivities{
		Centers:     centerSvc,
		CenterStore: centerRepo,
	})

	slog.Info("geocoder worker started", "task_queue", cfg.Temporal.TaskQueue)
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("worker: %v", err)
	}
}
