package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"gopkg.in/alexcesaro/statsd.v2"

	"trivia_api/cache"
	"trivia_api/config"
	"trivia_api/dao"
	"trivia_api/logger"
	"trivia_api/notify"
	"trivia_api/router"
	"trivia_api/seed"
	"trivia_api/service"
)

// store is what both the API and the seed loader need from persistence.
type store interface {
	service.Store
	seed.Target
}

func main() {
	envFile := flag.String("env", ".env", "dotenv file to load before reading the environment")
	seedSource := flag.String("seed", "", "seed JSON file or s3://bucket/key, overrides SEED_SOURCE")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *seedSource != "" {
		cfg.SeedSource = *seedSource
	}

	closeLog, err := logger.Init(cfg.LogPath)
	if err != nil {
		log.Fatalf("log file: %v", err)
	}
	defer closeLog()

	logger.Log.Printf("web app is starting...")
	gin.SetMode(cfg.GinMode)

	stats := newStats(cfg)
	defer stats.Close()

	st, closeStore := openStore(cfg, stats)
	defer closeStore()

	if cfg.SeedSource != "" {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		res, err := seed.NewLoader(cfg.AWSRegion).Load(ctx, cfg.SeedSource, st)
		cancel()
		if err != nil {
			logger.Log.Fatalf("seed %s: %v", cfg.SeedSource, err)
		}
		logger.Log.Printf("seeded %d categories and %d questions from %s", res.Categories, res.Questions, cfg.SeedSource)
	}

	var opts []service.Option
	if cfg.RedisAddr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		c, err := cache.NewRedisCategoryCache(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.CategoryCacheTTL)
		cancel()
		if err != nil {
			// the cache is optional, categories are then read from the store every time
			logger.Log.Printf("category cache disabled: %v", err)
		} else {
			defer c.Close()
			// categories may have changed while the process was down
			if err := c.Invalidate(context.Background()); err != nil {
				logger.Log.Printf("category cache invalidate: %v", err)
			}
			opts = append(opts, service.WithCategoryCache(c))
		}
	}
	if cfg.SNSTopicARN != "" {
		p, err := notify.NewSNSPublisher(cfg.AWSRegion, cfg.SNSTopicARN)
		if err != nil {
			logger.Log.Printf("question events disabled: %v", err)
		} else {
			opts = append(opts, service.WithPublisher(p))
		}
	}

	svc := service.NewQuestionService(st, opts...)
	r := router.New(svc, router.Options{CORSOrigins: cfg.CORSOrigins, Stats: stats})

	logger.Log.Printf("listening on :%s", cfg.ServerPort)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		logger.Log.Fatalf("server: %v", err)
	}
}

func newStats(cfg *config.Config) *statsd.Client {
	opts := []statsd.Option{statsd.Prefix(cfg.StatsdPrefix)}
	if cfg.StatsdAddr == "" {
		opts = append(opts, statsd.Mute(true))
	} else {
		opts = append(opts, statsd.Address(cfg.StatsdAddr))
	}

	d, err := statsd.New(opts...)
	if err != nil {
		// If nothing is listening on the target port, an error is returned and
		// the returned client does nothing but is still usable.
		logger.Log.Printf("statsd: %v", err)
	}
	return d
}

func openStore(cfg *config.Config, stats *statsd.Client) (store, func()) {
	if cfg.DB.Dialect == "memory" {
		logger.Log.Printf("using the in-memory store, data is lost on exit")
		return dao.NewMemoryStore(), func() {}
	}

	db, err := dao.Connect(cfg.DB)
	if err != nil {
		logger.Log.Fatalf("database: %v", err)
	}
	return dao.NewGormStore(db, stats), func() { db.Close() }
}
