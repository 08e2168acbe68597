package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/ahmetcoskunkizilkaya/disaster-report/internal/codegen"
	"github.com/ahmetcoskunkizilkaya/disaster-report/internal/database"
	"github.com/ahmetcoskunkizilkaya/disaster-report/internal/logging"
	"github.com/ahmetcoskunkizilkaya/disaster-report/internal/models"
	"github.com/ahmetcoskunkizilkaya/disaster-report/internal/repository"
	"github.com/ahmetcoskunkizilkaya/disaster-report/internal/services"
	"github.com/ahmetcoskunkizilkaya/disaster-report/internal/workflow"
)

func withDB(fn func(db *gorm.DB) error) error {
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}()
	return fn(db)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	return withDB(func(db *gorm.DB) error {
		if err := database.Migrate(db); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "migration complete")
		return nil
	})
}

func runCreateUser(cmd *cobra.Command, args []string) error {
	return withDB(func(db *gorm.DB) error {
		auth := services.NewAuthService(repository.NewUserRepository(db), cfg)
		user, err := auth.CreateUser(cmd.Context(), args[0], userPass, userRole, userName)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created %s user %s (%s)\n", user.Role, user.Username, user.ID)
		return nil
	})
}

func runStats(cmd *cobra.Command, args []string) error {
	return withDB(func(db *gorm.DB) error {
		reports := repository.NewReportRepository(db, codegen.New(cfg.TrackingCodePrefix))
		stats, err := reports.Stats(cmd.Context())
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	})
}

func runPurgeLogs(cmd *cobra.Command, args []string) error {
	age := purgeAge
	if age <= 0 {
		age = cfg.LogRetention
	}
	cutoff := time.Now().Add(-age)

	return withDB(func(db *gorm.DB) error {
		if purgeDry {
			var n int64
			if err := db.WithContext(cmd.Context()).Model(&models.SystemLog{}).
				Where("timestamp < ?", cutoff).Count(&n).Error; err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d system logs older than %s\n", n, age)
			return nil
		}

		deleted, err := logging.PurgeOlderThan(cmd.Context(), db, cutoff)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted %d system logs older than %s\n", deleted, age)
		return nil
	})
}

func runCheckPolicy(cmd *cobra.Command, args []string) error {
	spec := cfg.StatusPolicy
	if len(args) == 1 {
		spec = args[0]
	}
	policy, err := workflow.Load(spec)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "policy %s\n", policy.Name())
	if policy.Permissive() {
		fmt.Fprintln(out, "any status may move to any other status")
		return nil
	}

	for _, from := range models.AllStatuses {
		for _, to := range models.AllStatuses {
			if from != to && policy.Allowed(from, to) {
				fmt.Fprintf(out, "%s -> %s\n", from, to)
			}
		}
	}
	return nil
}
