package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/janpfeifer/GoSet/internal/config"
	"github.com/janpfeifer/GoSet/internal/events"
	"github.com/janpfeifer/GoSet/internal/server"
	"k8s.io/klog/v2"
)

var (
	flagAddr    = flag.String("addr", "", "Address to listen on (default: $GOSET_ADDR, or auto-port on localhost)")
	flagWebDir  = flag.String("web", "", "Directory with the static web assets (default: $GOSET_WEB_DIR, or \"web\")")
	flagNATSURL = flag.String("nats", "", "NATS server URL to publish game events to (default: $GOSET_NATS_URL, disabled if empty)")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()
	defer klog.Flush()

	cfg, err := config.Load()
	if err != nil {
		klog.Fatalf("Failed to load configuration: %v", err)
	}
	if *flagAddr != "" {
		cfg.Addr = *flagAddr
	}
	if *flagWebDir != "" {
		cfg.WebDir = *flagWebDir
	}
	if *flagNATSURL != "" {
		cfg.NATSURL = *flagNATSURL
	}

	opts := []server.Option{
		server.WithWebDir(cfg.WebDir),
		server.WithShutdownTimeout(cfg.ShutdownTimeout),
	}
	if cfg.NATSURL != "" {
		publisher, err := events.NewNATSPublisher(cfg.NATSURL, cfg.NATSSubject)
		if err != nil {
			klog.Fatalf("Failed to connect to NATS at %s: %v", cfg.NATSURL, err)
		}
		defer publisher.Close()
		opts = append(opts, server.WithPublisher(publisher))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	started := make(chan *server.ServerState, 1)
	go func() {
		state := <-started
		fmt.Printf("GoSet server listening on http://%s\n", state.Address)
	}()

	if err := server.Run(ctx, cfg.Addr, started, opts...); err != nil {
		klog.Errorf("Server failed: %v", err)
		klog.Flush()
		os.Exit(1)
	}
}
