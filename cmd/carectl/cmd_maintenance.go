package main

import (
	"github.com/spf13/cobra"

	dbpkg "github.com/BruksfildServices01/care-scheduler/internal/db"
	infraRepo "github.com/BruksfildServices01/care-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/care-scheduler/internal/logger"
	ucInvitation "github.com/BruksfildServices01/care-scheduler/internal/usecase/invitation"
	ucInvoice "github.com/BruksfildServices01/care-scheduler/internal/usecase/invoice"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := dbpkg.Migrate(current.db); err != nil {
			return err
		}
		logger.Get().Info("schema up to date")
		return nil
	},
}

var expireInvitationsCmd = &cobra.Command{
	Use:   "expire-invitations",
	Short: "Mark pending invitations past their expiry as expired",
	RunE: func(cmd *cobra.Command, args []string) error {
		uc := ucInvitation.NewManageInvitations(infraRepo.NewInvitationGormRepository(current.db), current.audit)

		n, err := uc.ExpireStale(cmd.Context())
		if err != nil {
			return err
		}
		logger.Get().WithField("expired", n).Info("invitation sweep finished")
		return nil
	},
}

var markOverdueCmd = &cobra.Command{
	Use:   "mark-overdue",
	Short: "Move sent invoices past their due date to overdue",
	RunE: func(cmd *cobra.Command, args []string) error {
		uc := ucInvoice.NewMarkOverdue(infraRepo.NewInvoiceGormRepository(current.db), current.audit)

		n, err := uc.Execute(cmd.Context())
		if err != nil {
			return err
		}
		logger.Get().WithField("overdue", n).Info("overdue sweep finished")
		return nil
	},
}
