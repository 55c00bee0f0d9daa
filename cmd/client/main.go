package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv" // .env loading for local development

	"github.com/iliyamo/hotel-guest-client/internal/api"
	"github.com/iliyamo/hotel-guest-client/internal/cart"
	"github.com/iliyamo/hotel-guest-client/internal/config"
	"github.com/iliyamo/hotel-guest-client/internal/guard"
	"github.com/iliyamo/hotel-guest-client/internal/notify"
	"github.com/iliyamo/hotel-guest-client/internal/order"
	"github.com/iliyamo/hotel-guest-client/internal/queue"
	"github.com/iliyamo/hotel-guest-client/internal/session"
	"github.com/iliyamo/hotel-guest-client/internal/storage"
)

// newKV selects the persistence backend for client state. The Redis
// backend degrades to the file backend when no server can be reached.
func newKV(cfg config.StorageConfig) storage.KV {
	switch cfg.Backend {
	case "memory":
		return storage.NewMemoryKV()
	case "redis":
		if client := config.NewRedisClient(); client != nil {
			return storage.NewRedisKV(client, cfg.Prefix)
		}
		log.Printf("redis unreachable, falling back to file storage")
		fallthrough
	default:
		kv, err := storage.NewFileKV(cfg.Dir)
		if err != nil {
			log.Fatalf("open state dir %s: %v", cfg.Dir, err)
		}
		return kv
	}
}

func main() {
	_ = godotenv.Load() // Load .env when present; real env wins

	cfg := config.Load()
	kv := newKV(config.LoadStorageConfig())

	sess := session.New(kv)
	bus := api.NewBus()
	client := api.NewClient(cfg.BaseURL, sess)
	fetcher := api.NewFetcher(client, config.LoadCacheConfig(), bus)
	crt := cart.New(kv)
	notifier := notify.New()
	composer := order.New(sess, crt, fetcher, client, bus, notifier)

	app := newApp(sess, crt, fetcher, client, bus, composer, notifier)
	app.guard = guard.New(sess, app.onGuardChange)

	// Reconcile restored session state exactly once, then open the gate.
	sess.InitializeAuth()
	app.guard.Ready()

	// Order-status push channel is optional; without a broker the
	// client simply refreshes on its normal cache cadence.
	if cfg.AMQPURL != "" {
		go func() {
			if err := queue.StartOrderStatusConsumer(cfg.AMQPURL, bus, notifier); err != nil {
				log.Printf("order-status consumer stopped: %v", err)
			}
		}()
	}

	app.run()
}
