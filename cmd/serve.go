package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/yeremiapane/restaurant-orders/database"
	"github.com/yeremiapane/restaurant-orders/kds"
	"github.com/yeremiapane/restaurant-orders/messaging"
	"github.com/yeremiapane/restaurant-orders/repository"
	"github.com/yeremiapane/restaurant-orders/router"
	"github.com/yeremiapane/restaurant-orders/utils"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the HTTP server which provides:
- REST API for products, categories, orders, tables and the dashboard
- /ws/orders websocket feed of new orders for the order board`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, db, err := openStore()
	if err != nil {
		return err
	}
	defer database.Close(db)

	if cfg.SeedOnStart {
		if err := database.Seed(db); err != nil {
			return err
		}
	}

	if cfg.Server.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	hub := kds.NewHub()
	defer hub.Close()

	publishers := kds.Fanout{hub}
	if cfg.AMQP.URL != "" {
		broker, err := messaging.DialAMQP(cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			// the websocket feed is enough to run
			utils.ErrorLogger.WithError(err).Warn("Broker unavailable, new orders go to websocket viewers only")
		} else {
			defer broker.Close()
			publishers = append(publishers, broker)
		}
	}

	r := router.SetupRouter(router.Deps{
		Store:     repository.NewGormStore(db),
		Hub:       hub,
		Publisher: publishers,
		Server:    cfg.Server,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		utils.InfoLogger.WithField("port", cfg.Server.Port).Info("Listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		utils.InfoLogger.Info("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		// websocket viewers are hijacked connections, Shutdown does not wait for them
		hub.Close()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
