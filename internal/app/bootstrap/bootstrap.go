// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.
package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	leaderboardservice "github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/leaderboard-service"
	leaderboardfeed "github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/leaderboard-service/adapters/submissions"
	leaderboardapp "github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/leaderboard-service/application"
	leaderboardports "github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/leaderboard-service/ports"
	progressservice "github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/progress-service"
	progresspostgres "github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/progress-service/adapters/postgres"
	progresssubmissions "github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/progress-service/adapters/submissions"
	progressports "github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/progress-service/ports"
	submissionservice "github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/submission-service"
	submissionpostgres "github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/submission-service/adapters/postgres"
	admindashboardservice "github.com/0xandee/SpeedRunLisk/contexts/internal-ops/admin-dashboard-service"
	adminsources "github.com/0xandee/SpeedRunLisk/contexts/internal-ops/admin-dashboard-service/adapters/sources"
	rewardledger "github.com/0xandee/SpeedRunLisk/contexts/reward-core/reward-ledger"
	rewardbolt "github.com/0xandee/SpeedRunLisk/contexts/reward-core/reward-ledger/adapters/bolt"
	rewardmemory "github.com/0xandee/SpeedRunLisk/contexts/reward-core/reward-ledger/adapters/memory"
	rewardpostgres "github.com/0xandee/SpeedRunLisk/contexts/reward-core/reward-ledger/adapters/postgres"
	rewardports "github.com/0xandee/SpeedRunLisk/contexts/reward-core/reward-ledger/ports"
	settlementservice "github.com/0xandee/SpeedRunLisk/contexts/reward-core/settlement-service"
	settlementevm "github.com/0xandee/SpeedRunLisk/contexts/reward-core/settlement-service/adapters/evm"
	settlementmemory "github.com/0xandee/SpeedRunLisk/contexts/reward-core/settlement-service/adapters/memory"
	settlementports "github.com/0xandee/SpeedRunLisk/contexts/reward-core/settlement-service/ports"

	"github.com/0xandee/SpeedRunLisk/internal/platform/config"
	"github.com/0xandee/SpeedRunLisk/internal/platform/db"
	"github.com/0xandee/SpeedRunLisk/internal/platform/httpserver"
	"github.com/0xandee/SpeedRunLisk/internal/platform/logging"
	"github.com/0xandee/SpeedRunLisk/internal/platform/messaging"
	"github.com/0xandee/SpeedRunLisk/internal/platform/metrics"
	"github.com/0xandee/SpeedRunLisk/internal/shared/outbox"
)

type APIApp struct {
	cfg     config.Config
	server  *httpserver.Server
	bus     *messaging.Kafka
	relay   *outbox.Relay
	settler settlementservice.Module
	logger  *slog.Logger
	closers []func() error
}

type WorkerApp struct {
	cfg           config.Config
	tracker       progressservice.Module
	participation progressports.SubmissionSource
	postgres      *db.Postgres
	pollInterval  time.Duration
	logger        *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := logging.New(cfg.ServiceName, "api")

	if strings.TrimSpace(cfg.CampaignOwner) == "" {
		return nil, errors.New("CAMPAIGN_OWNER_ADDRESS is required")
	}
	policy, err := config.LoadPolicy(cfg.PolicyFile)
	if err != nil {
		return nil, err
	}

	app := &APIApp{cfg: cfg, logger: logger}
	m := metrics.New()
	m.BudgetRemaining.Set(float64(policy.MaxBudget))

	// The ledger aggregate is a single in-memory critical section; the store
	// also backs its outbox, clock and ID generation.
	rewardStore := rewardmemory.NewStore()
	var audit rewardports.AuditSink = rewardStore
	if strings.TrimSpace(cfg.AuditLogPath) != "" {
		auditLog, err := rewardbolt.OpenAuditLog(cfg.AuditLogPath)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, auditLog.Close)
		audit = auditLog
	}

	rewards := rewardledger.NewModule(rewardledger.Dependencies{
		Policy:      policy,
		Owner:       cfg.CampaignOwner,
		Audit:       meteredAudit{next: audit, metrics: m, maxBudget: policy.MaxBudget},
		Outbox:      rewardStore,
		Clock:       rewardStore,
		IDGenerator: rewardStore,
		Logger:      logger,
	})

	var mirror rewardports.MirrorStore = rewardStore
	var submissions submissionservice.Module
	var progress progressservice.Module
	if strings.TrimSpace(cfg.PostgresDSN) != "" {
		pg, err := db.Connect(cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, pg.Close)

		mirror = rewardpostgres.NewRepository(pg.DB, logger)
		progress = progressservice.NewModule(progressservice.Dependencies{
			Repository: progresspostgres.NewRepository(pg.DB, logger),
			Clock:      progresspostgres.SystemClock{},
			Logger:     logger,
		})
		submissions = submissionservice.NewModule(submissionservice.Dependencies{
			Repository: submissionpostgres.NewRepository(pg.DB, logger),
			Progress:   progress.Tracker,
			Clock:      submissionpostgres.SystemClock{},
			IDGen:      submissionpostgres.UUIDGenerator{},
			Logger:     logger,
		})
	} else {
		progress = progressservice.NewInMemoryModule(logger)
		submissions = submissionservice.NewInMemoryModule(progress.Tracker, logger)
	}

	leaderboard := leaderboardservice.NewModule(leaderboardservice.Dependencies{
		Feed: leaderboardfeed.Feed{Queries: submissions.Queries},
		Scorers: map[leaderboardports.Category]leaderboardports.Scorer{
			rewardports.CategoryFastCompletion: leaderboardapp.SpeedScorer{},
			rewardports.CategoryTopQuality:     leaderboardapp.UnimplementedScorer{},
			rewardports.CategoryTopEngagement:  leaderboardapp.UnimplementedScorer{},
		},
		Policy: policy,
		Logger: logger,
	})

	admin := admindashboardservice.NewInMemoryModule(
		adminsources.Ledger{Ledger: rewards.Ledger},
		adminsources.Submissions{Queries: submissions.Queries},
		adminsources.Progress{Tracker: progress.Tracker},
	)

	bus, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		return nil, err
	}
	app.bus = bus

	var escrow settlementports.EscrowClient
	if strings.TrimSpace(cfg.EscrowRPCURL) != "" {
		dialCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		client, err := settlementevm.Dial(dialCtx, cfg.EscrowRPCURL, cfg.EscrowContractAddr, cfg.EscrowPrivateKey, logger)
		cancel()
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, func() error { client.Close(); return nil })
		escrow = client
	} else {
		escrow = settlementmemory.NewEscrow()
	}

	app.settler = settlementservice.NewModule(settlementservice.Dependencies{
		Escrow:      escrow,
		Ledger:      rewards.Ledger,
		Mirror:      mirror,
		Logger:      logger,
		MaxAttempts: cfg.SettlementAttempts,
	})

	app.relay = outbox.NewRelay(outbox.RelayDependencies{
		Repository: rewardStore,
		Bus:        bus,
		Clock:      rewardStore,
		Logger:     logger,
	})

	app.server = httpserver.New(httpserver.Dependencies{
		Rewards:       rewards,
		Submissions:   submissions,
		Progress:      progress,
		Leaderboard:   leaderboard,
		Admin:         admin,
		Participation: progresssubmissions.Source{Queries: submissions.Queries},
		Metrics:       m,
		Logger:        logger,
		Addr:          normalizeAddr(cfg.HTTPPort),
	})
	return app, nil
}

// Run serves HTTP and hosts the event-driven side of the campaign: the outbox
// relay and the settlement consumer share the API process because the ledger
// aggregate and bus are in-process while runtime wiring is finalized.
func (a *APIApp) Run(ctx context.Context) error {
	if a.cfg.EnableSettlementConsumer {
		for _, topic := range []string{settlementports.TopicBatchAllocated, settlementports.TopicClaimed} {
			if err := a.bus.Subscribe(ctx, topic, "settlement-cg", a.settler.Settler.Handle); err != nil {
				return err
			}
		}
	}

	a.logger.Info("api app started",
		"event", "bootstrap_api_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
	)

	group, ctx := errgroup.WithContext(ctx)
	group.Go(a.server.Start)
	if a.cfg.EnableOutboxRelay {
		group.Go(func() error { return a.relay.Run(ctx) })
	}
	return group.Wait()
}

func (a *APIApp) Close() error {
	var firstErr error
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// BuildWorker wires the cross-process job: rebuilding week-completion progress
// from the submissions table on an interval.
func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := logging.New(cfg.ServiceName, "worker")

	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}
	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	progress := progressservice.NewModule(progressservice.Dependencies{
		Repository: progresspostgres.NewRepository(pg.DB, logger),
		Clock:      progresspostgres.SystemClock{},
		Logger:     logger,
	})
	submissions := submissionservice.NewModule(submissionservice.Dependencies{
		Repository: submissionpostgres.NewRepository(pg.DB, logger),
		Clock:      submissionpostgres.SystemClock{},
		IDGen:      submissionpostgres.UUIDGenerator{},
		Logger:     logger,
	})

	return &WorkerApp{
		cfg:           cfg,
		tracker:       progress,
		participation: progresssubmissions.Source{Queries: submissions.Queries},
		postgres:      pg,
		pollInterval:  30 * time.Second,
		logger:        logger,
	}, nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	if !w.cfg.EnableProgressSync {
		w.logger.Info("progress sync disabled, worker idle",
			"event", "bootstrap_worker_idle",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
	)

	for {
		applied, err := w.tracker.Tracker.Sync(ctx, w.participation)
		if err != nil {
			return err
		}
		w.logger.Info("progress sync pass complete",
			"event", "progress_sync_pass",
			"module", "internal/app/bootstrap",
			"layer", "platform",
			"records_applied", applied,
		)
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

// meteredAudit mirrors ledger audit records into prometheus instruments.
type meteredAudit struct {
	next      rewardports.AuditSink
	metrics   *metrics.Metrics
	maxBudget int64
}

func (m meteredAudit) AppendAudit(ctx context.Context, record rewardports.AuditRecord) error {
	if err := m.next.AppendAudit(ctx, record); err != nil {
		return err
	}
	switch record.Kind {
	case rewardports.AuditKindAllocation:
		m.metrics.BatchesAllocated.Inc()
		m.metrics.BudgetRemaining.Set(float64(m.maxBudget - record.AllocatedAfter))
	case rewardports.AuditKindClaim:
		m.metrics.ClaimsPaid.Inc()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
