package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"bookingtracker/internal/clock"
	"bookingtracker/internal/config"
	"bookingtracker/internal/listener"
	"bookingtracker/internal/logger"
	"bookingtracker/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)
	logger.Init(cfg)

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	svc := listener.NewService(storage.NewPersister(cfg, db), db, clock.New(cfg.Timezone), cfg)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	must(svc.Run(ctx))
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
