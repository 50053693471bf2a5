package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	oshttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stafflink/internal/api"
	"stafflink/internal/attendance"
	"stafflink/internal/config"
	"stafflink/internal/directory"
	"stafflink/internal/http"
	"stafflink/internal/messaging"
	"stafflink/internal/models"
	"stafflink/internal/notify"
	"stafflink/internal/onboarding"
	"stafflink/internal/session"

	"golang.org/x/sync/errgroup"
)

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	durable, err := session.NewBboltStore(cfg.SessionFile)
	if err != nil {
		return err
	}
	defer func() { _ = durable.Close() }()

	sessions := session.NewManager(durable, session.NewMemoryStore())

	employee, err := sessions.Current(models.KindEmployee)
	if err != nil {
		return fmt.Errorf("no employee session (seed one with the session command): %w", err)
	}

	client := api.NewClient(cfg.APIBaseURL, cfg.HTTPTimeout)
	provider := directory.NewProvider(ctx, client, 30*time.Second)

	engine := messaging.NewEngine(messaging.Config{
		Client:       client,
		Self:         employee,
		PollInterval: cfg.PollInterval,
		BannerTTL:    cfg.BannerTTL,
	})
	engine.StartPolling(ctx)
	defer engine.StopPolling()

	portalServer := http.NewPortalServer(http.Deps{
		Config:     cfg,
		Sessions:   sessions,
		Directory:  provider,
		Engine:     engine,
		Feed:       notify.NewFeed(client, employee.ID),
		Onboarding: onboarding.NewService(client, cfg.PageSize),
		Attendance: attendance.NewService(client),
	}, cfg.PortalAddr)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := portalServer.Start()
		if err != nil && err != oshttp.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		log.Println("Shutting down portal...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := portalServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("Portal shutdown error: %v", err)
		}
		return nil
	})

	return g.Wait()
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("Application error: %v", err)
	}
}
