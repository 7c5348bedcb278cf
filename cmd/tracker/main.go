package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	tracker "github.com/polly-transit/tracker"
	"github.com/polly-transit/tracker/config"
	"github.com/polly-transit/tracker/feed"
)

func main() {
	configPath := flag.String("config", "", "path to config.yml (default: search working directory)")
	routeNo := flag.String("route", "", "route number to track (required)")
	env := flag.String("env", "production", "production|development")
	flag.Parse()

	if *routeNo == "" {
		fmt.Fprintln(os.Stderr, "usage: tracker -route <routeNo> [-config config.yml]")
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := tracker.NewLogger(*env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	client := feed.NewClient(cfg.Feed, log)
	tr := tracker.New(client, cfg, nil, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := tr.SwitchRoute(ctx, *routeNo); err != nil {
		log.Fatal("failed to select route", zap.String("route", *routeNo), zap.Error(err))
	}

	go func() {
		if err := tr.Run(ctx); err != nil && err != context.Canceled {
			log.Error("poll loop stopped", zap.Error(err))
		}
	}()

	srv := tracker.NewServer(cfg.Server, tr, log)
	srv.Start()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	log.Info("shutdown signal received")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown error", zap.Error(err))
	} else {
		log.Info("server shut down successfully")
	}
}
