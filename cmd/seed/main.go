// Command seed loads suspicious IPs and stolen card numbers into the
// blocklist tables.
package main

import (
	"context"
	"flag"
	"log"
	"sync/atomic"
	"time"

	"antifraud/internal/config"
	"antifraud/internal/logging"
	"antifraud/internal/repositories"
	"antifraud/internal/repositories/cache"
	"antifraud/internal/validation"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const maxConcurrentInserts = 8

func main() {
	ipsFlag := flag.String("ips", "", "comma-separated suspicious IPv4 addresses")
	cardsFlag := flag.String("cards", "", "comma-separated stolen card numbers")
	timeout := flag.Duration("timeout", time.Minute, "overall seeding timeout")
	flag.Parse()

	config.LoadEnv()
	cfg := config.LoadServer()

	zl, err := logging.New(config.IsProduction(), cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	ips := config.SplitList(*ipsFlag)
	cards := config.SplitList(*cardsFlag)
	if len(ips) == 0 && len(cards) == 0 {
		zl.Fatal("nothing to seed: pass -ips and/or -cards")
	}

	v := validation.New()
	for _, ip := range ips {
		v.IPv4("ips["+ip+"]", ip)
	}
	for _, number := range cards {
		v.CardNumber("cards["+number+"]", number)
	}
	if !v.Valid() {
		zl.Fatal("invalid seed values", zap.Any("errors", v.Errors))
	}

	db, err := repositories.InitDB(cfg.Database, zl)
	if err != nil {
		zl.Fatal("failed to open database", zap.Error(err))
	}
	defer func() {
		if err := repositories.Close(db); err != nil {
			zl.Warn("failed to close database connection", zap.Error(err))
		}
	}()
	store := repositories.NewBlocklistRepository(db)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	var inserted, skipped atomic.Int64
	var keys []string

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentInserts)
	for _, ip := range ips {
		keys = append(keys, cache.IPKey(ip))
		g.Go(func() error {
			ok, err := store.AddSuspiciousIP(gctx, ip)
			if err != nil {
				return err
			}
			count(ok, &inserted, &skipped)
			return nil
		})
	}
	for _, number := range cards {
		keys = append(keys, cache.CardKey(number))
		g.Go(func() error {
			ok, err := store.AddStolenCard(gctx, number)
			if err != nil {
				return err
			}
			count(ok, &inserted, &skipped)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		zl.Fatal("failed to seed blocklist", zap.Error(err))
	}

	// Cached "0" answers would hide the new entries until they expire.
	if cfg.Redis.Enabled {
		client := cache.NewRedisClient(&cache.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()

		bc := cache.NewBlocklistCache(client, store, cfg.Screening.BlocklistCacheTTL, zl)
		if err := bc.Invalidate(ctx, keys...); err != nil {
			zl.Warn("failed to invalidate cached entries", zap.Error(err))
		}
	}

	zl.Info("blocklist seeded",
		zap.Int64("inserted", inserted.Load()),
		zap.Int64("skipped", skipped.Load()),
	)
}

func count(inserted bool, ins, skip *atomic.Int64) {
	if inserted {
		ins.Add(1)
		return
	}
	skip.Add(1)
}
