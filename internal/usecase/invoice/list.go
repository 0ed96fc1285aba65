package invoice

import (
	"context"

	domain "github.com/BruksfildServices01/care-scheduler/internal/domain/invoice"
	"github.com/BruksfildServices01/care-scheduler/internal/dto"
	"github.com/BruksfildServices01/care-scheduler/internal/httperr"
	"github.com/BruksfildServices01/care-scheduler/internal/models"
)

type ListInvoices struct {
	repo domain.Repository
}

func NewListInvoices(repo domain.Repository) *ListInvoices {
	return &ListInvoices{repo: repo}
}

func (uc *ListInvoices) Execute(ctx context.Context, orgID uint, status string, clientID *uint) ([]dto.InvoiceSummaryDTO, error) {
	if status != "" {
		if _, ok := domain.ParseStatus(status); !ok {
			return nil, httperr.ErrBusiness("invalid_status")
		}
	}

	list, err := uc.repo.ListInvoices(ctx, orgID, status, clientID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.InvoiceSummaryDTO, 0, len(list))
	for i := range list {
		out = append(out, ToSummary(&list[i]))
	}
	return out, nil
}

func (uc *ListInvoices) Get(ctx context.Context, orgID, invoiceID uint) (*models.Invoice, error) {
	return uc.repo.GetInvoice(ctx, orgID, invoiceID)
}

func ToSummary(inv *models.Invoice) dto.InvoiceSummaryDTO {
	return dto.InvoiceSummaryDTO{
		ID:         inv.ID,
		Number:     inv.Number,
		ClientID:   inv.ClientID,
		ClientName: inv.Client.Name,
		IssueDate:  inv.IssueDate.Format("2006-01-02"),
		DueDate:    inv.DueDate.Format("2006-01-02"),
		Status:     inv.Status,
		Total:      inv.Total,
	}
}
