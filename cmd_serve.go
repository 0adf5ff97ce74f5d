package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/app"
	"storefront/internal/database"
	"storefront/internal/repositories"
	"storefront/internal/services"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "run database migrations before serving")
	return cmd
}

func serve(ctx context.Context, migrate bool) error {
	rt, err := boot(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()

	if migrate {
		if err := database.Migrate(rt.db); err != nil {
			return err
		}
		rt.log.Info("migrations applied")
	}

	identity, err := services.NewIdentityService(rt.cfg.IdentityJWTSecret, rt.cfg.IdentityJWTPublicKey, rt.cfg.IdentityJWTIssuer)
	if err != nil {
		return err
	}
	publisher, err := rt.publisher()
	if err != nil {
		return err
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			rt.log.Error("closing event publisher failed", "error", err)
		}
	}()
	index, err := rt.catalogIndex(ctx)
	if err != nil {
		return err
	}
	sectionCache, err := rt.cache(ctx)
	if err != nil {
		return err
	}
	defer sectionCache.Close()

	productService := services.NewProductService(repositories.NewGORMProductRepository(rt.db), index, publisher)
	orderService := services.NewOrderService(repositories.NewGORMOrderRepository(rt.db), publisher)

	server := app.New(app.Deps{
		Logger:         rt.log,
		DB:             rt.db,
		Identity:       identity,
		Products:       productService,
		Cart:           services.NewCartService(repositories.NewGORMCartRepository(rt.db), publisher),
		Orders:         orderService,
		Sections:       services.NewSectionService(repositories.NewGORMSectionRepository(rt.db), sectionCache, rt.cfg.SectionsCacheTTL),
		Wishlist:       services.NewWishlistService(repositories.NewGORMWishlistRepository(rt.db)),
		AdminKeyHash:   rt.cfg.AdminAPIKeyHash,
		CORSOrigins:    rt.cfg.CORSOrigins,
		MetricsEnabled: rt.cfg.MetricsEnabled,
	})

	errCh := make(chan error, 1)
	go func() {
		rt.log.Info("starting server", "addr", rt.cfg.AppPort, "env", rt.cfg.AppEnv)
		errCh <- server.Listen(rt.cfg.AppPort)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	rt.log.Info("shutting down server")
	if err := server.ShutdownWithTimeout(shutdownTimeout); err != nil {
		rt.log.Error("server shutdown failed", "error", err)
	}
	rt.log.Info("server stopped")
	return nil
}
