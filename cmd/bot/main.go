package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"pazlcollab/internal/audit"
	"pazlcollab/internal/bot"
	"pazlcollab/internal/catalog"
	"pazlcollab/internal/chat"
	"pazlcollab/internal/conversation"
	"pazlcollab/internal/notify"
	"pazlcollab/internal/partnership"
	"pazlcollab/internal/platform/config"
	"pazlcollab/internal/platform/httpserver"
	"pazlcollab/internal/platform/logger"
	"pazlcollab/internal/platform/metrics"
	"pazlcollab/internal/platform/redis"
	"pazlcollab/internal/reconcile"
	"pazlcollab/internal/recordstore"
	"pazlcollab/internal/submit"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("load config: " + err.Error())
	}

	log, err := logger.New(cfg.Dev)
	if err != nil {
		panic("init logger: " + err.Error())
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal("service exited", zap.Error(err))
	}
	log.Info("service stopped")
}

func run(cfg config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	tg, err := chat.NewTelegram(cfg.Bot.Token, cfg.Bot.WebAppURL, log)
	if err != nil {
		return err
	}

	store := recordstore.New(cfg.RecordStore, log, m)
	queue := notify.NewQueue(cfg.Notify.QueueSize, tg, log, m)

	auditSvc, auditClose, err := buildAudit(ctx, cfg.Audit, log)
	if err != nil {
		return err
	}
	defer auditClose()

	guard := submit.NewGuard()
	pipeline := submit.New(store, guard, queue, auditSvc,
		cfg.Bot.AdminChatID, cfg.Bot.DefaultPhotoURL, log, m)

	sessions := conversation.NewSessions()
	engine := conversation.NewEngine(sessions, pipeline, pipeline, log)

	loop := reconcile.New(store, reconcile.NewMemoryCache(), queue, auditSvc,
		engine, pipeline, cfg.Reconcile.Interval, cfg.Reconcile.CacheReset, log, m)

	partnerStore, err := buildPartnerStore(cfg.Partner)
	if err != nil {
		return err
	}
	partners := partnership.NewService(partnerStore, queue, log)

	catalogCache, redisClose, err := buildCatalogCache(cfg, log)
	if err != nil {
		return err
	}
	defer redisClose()
	catalogSvc := catalog.NewService(store, catalogCache, log, m)
	api := httpserver.New(cfg.API.Addr, catalog.NewHandler(catalogSvc, log).Router())

	router := bot.NewRouter(tg, engine, pipeline, partners,
		tg.Username(), cfg.Bot.WebAppURL, log)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return router.Run(ctx) })
	g.Go(func() error { return queue.Run(ctx) })
	g.Go(func() error { return loop.Run(ctx) })
	g.Go(func() error { return auditSvc.Run(ctx) })
	g.Go(func() error {
		log.Info("api listening", zap.String("addr", cfg.API.Addr))
		if err := api.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		return api.Shutdown(context.Background())
	})

	log.Info("service started",
		zap.Duration("reconcile_interval", cfg.Reconcile.Interval),
		zap.Int("notify_queue", cfg.Notify.QueueSize))
	return g.Wait()
}

func buildAudit(ctx context.Context, cfg config.AuditConfig, log *zap.Logger) (*audit.Service, func(), error) {
	var store audit.Store = audit.NewMemoryStore()
	closers := []func(){}

	if cfg.PostgresDSN != "" {
		pg, err := audit.NewPostgresStore(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		store = pg
		closers = append(closers, func() { pg.Close() })
	}

	var pub *audit.KafkaPublisher
	if cfg.KafkaBrokers != "" {
		p, err := audit.NewKafkaPublisher(strings.Split(cfg.KafkaBrokers, ","), cfg.KafkaTopic, log)
		if err != nil {
			return nil, nil, err
		}
		pub = p
		closers = append(closers, p.Close)
	}

	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}
	return audit.NewService(store, pub, log), closeAll, nil
}

func buildPartnerStore(cfg config.PartnerConfig) (partnership.Store, error) {
	if cfg.StorePath == "" {
		return partnership.NewMemoryStore(), nil
	}
	return partnership.NewFileStore(cfg.StorePath)
}

func buildCatalogCache(cfg config.Config, log *zap.Logger) (catalog.Cache, func(), error) {
	rdb, err := redis.New(cfg.Redis)
	if err != nil {
		return nil, nil, err
	}
	if rdb == nil {
		return catalog.NewMemoryCache(cfg.API.CacheTTL), func() {}, nil
	}
	log.Info("catalog cache backed by redis")
	return catalog.NewRedisCache(rdb, cfg.API.CacheTTL, log), func() { rdb.Close() }, nil
}
