package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nextmind/nextmind-backend/internal/conf"
	"github.com/nextmind/nextmind-backend/internal/fetcher"
	"github.com/nextmind/nextmind-backend/internal/llm/gemini"
	"github.com/nextmind/nextmind-backend/internal/pkg/logger"
	"github.com/nextmind/nextmind-backend/internal/pkg/redis"
	"github.com/nextmind/nextmind-backend/internal/ratelimit"
	"github.com/nextmind/nextmind-backend/internal/report/biz"
	"github.com/nextmind/nextmind-backend/internal/report/data"
	"github.com/nextmind/nextmind-backend/internal/report/service"
	"github.com/nextmind/nextmind-backend/internal/server"
	"github.com/nextmind/nextmind-backend/internal/websearch/provider"
	"go.uber.org/zap"
)

var (
	configFile = flag.String("config", "config.yaml", "config file path")
)

func main() {
	flag.Parse()

	// Load configuration
	config, err := conf.LoadConfig(*configFile)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize logger with config
	logConfig := &logger.Config{
		Level:            config.Log.Level,
		Format:           config.Log.Format,
		Output:           config.Log.Output,
		EnableCaller:     config.Log.EnableCaller,
		EnableStacktrace: config.Log.EnableStacktrace,
		File: logger.FileConfig{
			Filename:   config.Log.File.Filename,
			MaxSize:    config.Log.File.MaxSize,
			MaxAge:     config.Log.File.MaxAge,
			MaxBackups: config.Log.File.MaxBackups,
			Compress:   config.Log.File.Compress,
		},
	}

	log, err := logger.New(logConfig)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	if err := logger.InitGlobal(logConfig); err != nil {
		log.Fatal("failed to initialize global logger", zap.Error(err))
	}

	log.Info("config loaded successfully")

	// Initialize Redis
	redisConfig := redis.DefaultConfig()
	redisConfig.Addr = config.Redis.Addr
	redisConfig.Username = config.Redis.Username
	redisConfig.Password = config.Redis.Password
	redisConfig.DB = config.Redis.DB

	redisClient, err := redis.New(redisConfig, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer redisClient.Close()

	// Initialize the content fetcher
	pageFetcher, err := fetcher.New(&config.Fetcher, log)
	if err != nil {
		log.Fatal("failed to initialize fetcher", zap.Error(err))
	}

	// Initialize collaborators
	searchProvider := provider.NewGoogleProvider(&config.Search)
	geminiClient := gemini.New(&config.Gemini, log)
	reportStore := data.NewStore(redisClient, log, config.Reports.MaxReports)
	limiter := ratelimit.New(redisClient, log)

	// Initialize use cases
	synthesizer := biz.NewSynthesizer(&config.Gemini, geminiClient, log)
	generator := biz.NewGenerator(synthesizer, pageFetcher, reportStore, log)

	// Initialize service and server
	svc := service.New(config, searchProvider, generator, reportStore, limiter, pageFetcher, log)
	httpServer := server.NewHTTPServer(config, log, svc)

	go func() {
		if err := httpServer.Start(); err != nil {
			log.Fatal("failed to start HTTP server", zap.Error(err))
		}
	}()

	log.Info("server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Stop(ctx); err != nil {
		log.Error("HTTP server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited")
}
