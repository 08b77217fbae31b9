package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"budgeteer/internal/amqp"
	"budgeteer/internal/config"
	"budgeteer/internal/core"
	apphttp "budgeteer/internal/http"
	"budgeteer/internal/log"
	"budgeteer/internal/notifier"
	"budgeteer/internal/report"
	"budgeteer/internal/scheduler"
	"budgeteer/internal/service"
	"budgeteer/internal/state"
	"budgeteer/internal/storage"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the budget engine: HTTP API, schedulers and reports",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg, logger)
		},
	}
}

// userStore persists notifications for the active identity and mirrors them
// into the in-memory state.
type userStore struct {
	svc      *service.BudgetService
	app      *state.AppState
	identity core.Identity
}

func (u *userStore) AppendNotification(ctx context.Context, title, body string, ts time.Time) (core.NotificationEvent, error) {
	ev, err := u.svc.AppendNotification(ctx, u.identity, title, body, ts)
	if err != nil {
		return core.NotificationEvent{}, err
	}
	u.app.AddNotification(ev)
	return ev, nil
}

func runServe(parent context.Context, cfg *config.Config, logger *log.Logger) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, err := storage.NewSQLiteRepository(cfg.DBPath, logger)
	if err != nil {
		return err
	}
	defer repo.Close()

	identity := core.Identity{UserID: cfg.UserID, Guest: cfg.GuestMode}
	if identity.Guest {
		identity.UserID = "guest"
	}

	var feed service.Publisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
		if err != nil {
			return err
		}
		defer client.Close()
		feed = client
	}

	svc := service.New(repo, feed, logger)

	app := state.New(logger)
	app.SetIdentity(identity)
	if err := loadState(ctx, app, svc, identity); err != nil {
		return err
	}

	var sink notifier.Sink = notifier.NewStoreSink(
		&userStore{svc: svc, app: app, identity: identity}, logger)
	if cfg.WebhookURL != "" {
		sink = notifier.Fanout{sink, notifier.NewWebhookSink(cfg.WebhookURL, logger)}
	}

	sched := scheduler.New(app, sink, logger, scheduler.Config{
		DailyInterval:  cfg.DailyCheckInterval,
		HourlyInterval: cfg.PeriodCheckInterval,
	})
	if !identity.Guest {
		sched.Arm(ctx)
		defer sched.Disarm()
	} else {
		logger.Info("guest mode: notification scheduler stays idle")
	}

	reporter := report.NewReporter(app, sink, logger)
	if err := reporter.RegisterAll(ctx, cfg.ReportDailyCron, cfg.ReportWeeklyCron, cfg.ReportMonthlyCron); err != nil {
		return err
	}
	reporter.Start()
	defer reporter.Stop()

	g, gctx := errgroup.WithContext(ctx)

	srv := apphttp.NewServer(":"+cfg.Port, svc, app, logger)
	g.Go(func() error { return srv.Run(gctx) })

	if client, ok := feed.(*amqp.Client); ok {
		g.Go(func() error {
			err := client.ConsumeChangesWithRetry(gctx, func(msg *amqp.ChangeMessage) error {
				return refreshState(gctx, app, svc, identity, msg)
			})
			if gctx.Err() != nil {
				return nil
			}
			return err
		})
	}

	logger.Info("budgeteer serving",
		log.FieldUserID, identity.UserID, "guest", identity.Guest, "port", cfg.Port)

	return g.Wait()
}

// loadState hydrates the in-memory state from storage at startup. Guests
// start from defaults; nothing is read or written for them.
func loadState(ctx context.Context, app *state.AppState, svc *service.BudgetService, identity core.Identity) error {
	if identity.Guest {
		app.SetSettings(core.DefaultSettings(time.Now()))
		return nil
	}

	settings, err := svc.GetSettings(ctx, identity)
	if err != nil {
		return err
	}
	app.SetSettings(settings)

	txs, err := svc.ListTransactions(ctx, identity)
	if err != nil {
		return err
	}
	app.ReplaceTransactions(txs)

	gs, err := svc.ListGoals(ctx, identity)
	if err != nil {
		return err
	}
	app.ReplaceGoals(gs)

	evs, err := svc.ListNotifications(ctx, identity)
	if err != nil {
		return err
	}
	app.ReplaceNotifications(evs)
	return nil
}

// refreshState reloads the changed collection when another process writes.
func refreshState(ctx context.Context, app *state.AppState, svc *service.BudgetService, identity core.Identity, msg *amqp.ChangeMessage) error {
	if msg.UserID != identity.UserID {
		return nil
	}
	switch msg.Entity {
	case amqp.EntityTransaction:
		txs, err := svc.ListTransactions(ctx, identity)
		if err != nil {
			return err
		}
		app.ReplaceTransactions(txs)
	case amqp.EntityGoal:
		gs, err := svc.ListGoals(ctx, identity)
		if err != nil {
			return err
		}
		app.ReplaceGoals(gs)
	case amqp.EntityNotification:
		evs, err := svc.ListNotifications(ctx, identity)
		if err != nil {
			return err
		}
		app.ReplaceNotifications(evs)
	case amqp.EntitySettings:
		settings, err := svc.GetSettings(ctx, identity)
		if err != nil {
			return err
		}
		app.SetSettings(settings)
	}
	return nil
}
