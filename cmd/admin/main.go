package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/ahmetcoskunkizilkaya/disaster-report/internal/config"
	"github.com/ahmetcoskunkizilkaya/disaster-report/internal/database"
	"github.com/ahmetcoskunkizilkaya/disaster-report/internal/logging"
)

var (
	cfg *config.Config

	// openDB is swapped out in tests.
	openDB = func(cfg *config.Config) (*gorm.DB, error) {
		if err := database.Connect(cfg); err != nil {
			return nil, err
		}
		return database.DB, nil
	}

	userRole string
	userName string
	userPass string
	purgeAge time.Duration
	purgeDry bool
)

var rootCmd = &cobra.Command{
	Use:           "admin",
	Short:         "Operator tooling for the disaster report service",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.Load()
		logging.Setup(cfg.LogLevel)
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE:  runMigrate,
}

var createUserCmd = &cobra.Command{
	Use:   "create-user <username>",
	Short: "Create a user account",
	Long: `Create a user account with a bcrypt-hashed password.

The role defaults to "user". Use --role admin to create a triage account.`,
	Args: cobra.ExactArgs(1),
	RunE: runCreateUser,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print report counters per status as JSON",
	RunE:  runStats,
}

var purgeLogsCmd = &cobra.Command{
	Use:   "purge-logs",
	Short: "Delete system logs older than the retention window",
	RunE:  runPurgeLogs,
}

var checkPolicyCmd = &cobra.Command{
	Use:   "check-policy [policy]",
	Short: "Validate a status policy and print its transitions",
	Long: `Validate a status policy. The argument is "permissive", "strict" or a
path to a YAML policy file; it defaults to STATUS_POLICY.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheckPolicy,
}

func init() {
	createUserCmd.Flags().StringVar(&userPass, "password", "", "Password (required)")
	createUserCmd.Flags().StringVar(&userRole, "role", "user", "Role: user or admin")
	createUserCmd.Flags().StringVar(&userName, "name", "", "Display name")
	_ = createUserCmd.MarkFlagRequired("password")

	purgeLogsCmd.Flags().DurationVar(&purgeAge, "older-than", 0, "Age cutoff (default: LOG_RETENTION)")
	purgeLogsCmd.Flags().BoolVar(&purgeDry, "dry-run", false, "Only count matching rows")

	rootCmd.AddCommand(migrateCmd, createUserCmd, statsCmd, purgeLogsCmd, checkPolicyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
