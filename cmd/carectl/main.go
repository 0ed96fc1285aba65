// Command carectl runs maintenance jobs against the care-scheduler database.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/care-scheduler/internal/audit"
	"github.com/BruksfildServices01/care-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/care-scheduler/internal/db"
	"github.com/BruksfildServices01/care-scheduler/internal/logger"
)

// env is built once in PersistentPreRunE and shared by every subcommand.
type env struct {
	cfg   *config.Config
	db    *gorm.DB
	audit *audit.Dispatcher
}

var current env

var rootCmd = &cobra.Command{
	Use:           "carectl",
	Short:         "Maintenance jobs for care-scheduler",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		logger.Init(cfg.LogLevel)

		db, err := dbpkg.NewDB(cfg)
		if err != nil {
			return err
		}

		current = env{cfg: cfg, db: db, audit: audit.NewDispatcher(audit.New(db))}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if current.audit != nil {
			current.audit.Close()
		}
	},
}

func init() {
	rootCmd.AddCommand(
		migrateCmd,
		expireInvitationsCmd,
		markOverdueCmd,
		exportReportCmd,
		seedCmd,
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
