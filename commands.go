package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"storefront-app/database"
	routes "storefront-app/internal/app/http"
	"storefront-app/internal/domain/users"
	"storefront-app/internal/infra/stripe"
	"storefront-app/internal/jobs"
	"storefront-app/internal/seed"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Migrate the database, start background jobs and serve HTTP",
	RunE:  serve,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(db *gorm.DB) error {
			if err := database.Migrate(db); err != nil {
				return err
			}
			logger.Info("database migrated")
			return nil
		})
	},
}

var (
	seedFile  string
	seedWatch bool
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load brands, categories, attributes and products from YAML",
	Long: `Loads a catalog file. Records whose slug already exists are skipped,
so the same file can be applied repeatedly. With --watch the file is
re-applied whenever it changes, until interrupted.

Example:
  storefront seed --file catalog.yaml
  storefront seed --file catalog.yaml --watch`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(db *gorm.DB) error {
			if err := database.Migrate(db); err != nil {
				return err
			}
			seeder := seed.New(db, logger)
			apply := func() error {
				file, err := seed.ReadFile(seedFile)
				if err != nil {
					return err
				}
				sum, err := seeder.Apply(file)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created %d, skipped %d\n", sum.Created, sum.Skipped)
				return nil
			}
			if err := apply(); err != nil {
				return err
			}
			if !seedWatch {
				return nil
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return seed.Watch(ctx, seedFile, logger, func() {
				if err := apply(); err != nil {
					logger.Error("seed failed", zap.Error(err))
				}
			})
		})
	},
}

var adminEmail, adminPassword, adminName, adminRole string

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create a back-office account, or reset the password of an existing one",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(db *gorm.DB) error {
			if err := database.Migrate(db); err != nil {
				return err
			}
			u, err := users.UpsertLocal(db, adminName, adminEmail, adminPassword, adminRole)
			if err != nil {
				return err
			}
			logger.Info("account ready", zap.String("email", u.Email), zap.String("role", u.Role))
			return nil
		})
	},
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "catalog.yaml", "catalog YAML file")
	seedCmd.Flags().BoolVarP(&seedWatch, "watch", "w", false, "re-apply the file when it changes")

	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "account email")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "account password")
	createAdminCmd.Flags().StringVar(&adminName, "name", "", "display name")
	createAdminCmd.Flags().StringVar(&adminRole, "role", users.RoleAdmin, "admin or editor")
	_ = createAdminCmd.MarkFlagRequired("email")
	_ = createAdminCmd.MarkFlagRequired("password")
}

func withDB(fn func(db *gorm.DB) error) error {
	db, err := database.Open(cfg.Database, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logger.Warn("close database", zap.Error(err))
		}
	}()
	return fn(db)
}

func serve(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return withDB(func(db *gorm.DB) error {
		if err := database.Migrate(db); err != nil {
			return err
		}

		var payments stripe.Payments
		if c := stripe.NewClient(cfg.Stripe.SecretKey); c != nil {
			payments = c
		} else {
			logger.Warn("STRIPE_SECRET_KEY not set, payment intents disabled")
		}

		sweeper := jobs.NewStaleOrderSweeper(db, logger, cfg.Jobs.StaleOrderSchedule, cfg.Jobs.StaleOrderAge)
		if err := sweeper.Start(ctx); err != nil {
			return err
		}
		defer sweeper.Stop()

		srv := &http.Server{
			Addr:              ":" + cfg.Server.Port,
			Handler:           routes.New(routes.Deps{Config: cfg, DB: db, Log: logger, Payments: payments}),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info("listening", zap.String("addr", srv.Addr), zap.String("env", cfg.Server.Env))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})
}
