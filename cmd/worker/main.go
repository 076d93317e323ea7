package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/aurashop/marketplace-backend/config"
	adminrepo "github.com/aurashop/marketplace-backend/internal/admin/repository"
	"github.com/aurashop/marketplace-backend/internal/bootstrap"
	staffingrepo "github.com/aurashop/marketplace-backend/internal/staffing/repository"
)

// The worker owns the scheduled maintenance jobs so the API pods stay
// stateless: staff-invite expiry and a periodic dashboard snapshot log.
func main() {
	if err := run(); err != nil {
		log.Fatalf("[worker] fatal: %v", err)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log.Printf("[worker] starting version=%s env=%s", cfg.App.Version, cfg.App.Environment)

	fb, err := bootstrap.InitFirebase(ctx, &cfg.Firebase)
	if err != nil {
		return err
	}
	defer fb.Close()

	invites := staffingrepo.NewInviteRepository(fb.Firestore)
	stats := adminrepo.NewStatsRepository(fb.Firestore)

	c := cron.New()

	if _, err := c.AddFunc("@hourly", func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		n, err := invites.ExpireStale(jobCtx)
		if err != nil {
			log.Printf("[worker] invite expiry sweep failed err=%v", err)
			return
		}
		if n > 0 {
			log.Printf("[worker] expired stale invites count=%d", n)
		}
	}); err != nil {
		return err
	}

	if _, err := c.AddFunc("0 */6 * * *", func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()

		snap, err := stats.Dashboard(jobCtx)
		if err != nil {
			log.Printf("[worker] dashboard snapshot failed err=%v", err)
			return
		}
		log.Printf("[worker] platform snapshot users=%d stores=%d active=%d pending_kyc=%d products=%d orders=%d",
			snap.TotalUsers, snap.TotalStores, snap.ActiveStores, snap.PendingKYC, snap.TotalProducts, snap.TotalOrders)
	}); err != nil {
		return err
	}

	c.Start()
	log.Printf("[worker] scheduler running")

	<-ctx.Done()
	log.Printf("[worker] shutdown signal received")

	stopCtx := c.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(30 * time.Second):
		log.Printf("[worker] jobs still running at deadline, exiting")
	}

	log.Printf("[worker] stopped")
	return nil
}
