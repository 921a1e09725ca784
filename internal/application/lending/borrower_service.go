package lending

import (
	"context"

	"github.com/google/uuid"
	"github.com/spf-lend/backend/internal/domain/audit"
	"github.com/spf-lend/backend/internal/domain/lending"
	"github.com/spf-lend/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// BorrowerService handles borrower lifecycle operations
type BorrowerService struct {
	tm        lending.TransactionManager
	borrowers lending.BorrowerRepository
	logger    *zap.Logger
}

// NewBorrowerService creates a new BorrowerService
func NewBorrowerService(tm lending.TransactionManager, borrowers lending.BorrowerRepository, logger *zap.Logger) *BorrowerService {
	return &BorrowerService{
		tm:        tm,
		borrowers: borrowers,
		logger:    logger,
	}
}

// Create registers a borrower
func (s *BorrowerService) Create(ctx context.Context, req CreateBorrowerRequest) (*BorrowerResponse, error) {
	borrower, err := lending.NewBorrower(req.Name, req.Phone, req.Email, req.Address)
	if err != nil {
		return nil, err
	}
	if req.AadhaarNumber != "" || req.PANNumber != "" {
		borrower.SetKYC(req.AadhaarNumber, req.PANNumber)
	}
	if req.GuarantorName != "" || req.GuarantorPhone != "" {
		borrower.SetGuarantor(req.GuarantorName, req.GuarantorPhone)
	}

	if err := s.borrowers.Save(ctx, borrower); err != nil {
		return nil, err
	}

	response := ToBorrowerResponse(borrower)
	return &response, nil
}

// GetByID returns one borrower
func (s *BorrowerService) GetByID(ctx context.Context, borrowerID uuid.UUID) (*BorrowerResponse, error) {
	borrower, err := s.borrowers.FindByID(ctx, borrowerID)
	if err != nil {
		return nil, err
	}
	response := ToBorrowerResponse(borrower)
	return &response, nil
}

// List returns borrowers matching the filter
func (s *BorrowerService) List(ctx context.Context, filter BorrowerListFilter) ([]BorrowerResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Search:   filter.Search,
		Filters:  make(map[string]any),
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	borrowers, err := s.borrowers.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.borrowers.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]BorrowerResponse, len(borrowers))
	for i := range borrowers {
		responses[i] = ToBorrowerResponse(&borrowers[i])
	}
	return responses, total, nil
}

// Update edits a borrower's contact, KYC and guarantor fields
func (s *BorrowerService) Update(ctx context.Context, borrowerID uuid.UUID, req UpdateBorrowerRequest) (*BorrowerResponse, error) {
	borrower, err := s.borrowers.FindByID(ctx, borrowerID)
	if err != nil {
		return nil, err
	}

	name, phone, email, address := borrower.Name, borrower.Phone, borrower.Email, borrower.Address
	if req.Name != nil {
		name = *req.Name
	}
	if req.Phone != nil {
		phone = *req.Phone
	}
	if req.Email != nil {
		email = *req.Email
	}
	if req.Address != nil {
		address = *req.Address
	}
	if err := borrower.UpdateContact(name, phone, email, address); err != nil {
		return nil, err
	}

	if req.AadhaarNumber != nil || req.PANNumber != nil {
		aadhaar, pan := borrower.AadhaarNumber, borrower.PANNumber
		if req.AadhaarNumber != nil {
			aadhaar = *req.AadhaarNumber
		}
		if req.PANNumber != nil {
			pan = *req.PANNumber
		}
		borrower.SetKYC(aadhaar, pan)
	}
	if req.GuarantorName != nil || req.GuarantorPhone != nil {
		gName, gPhone := borrower.GuarantorName, borrower.GuarantorPhone
		if req.GuarantorName != nil {
			gName = *req.GuarantorName
		}
		if req.GuarantorPhone != nil {
			gPhone = *req.GuarantorPhone
		}
		borrower.SetGuarantor(gName, gPhone)
	}

	if err := s.borrowers.Save(ctx, borrower); err != nil {
		return nil, err
	}

	response := ToBorrowerResponse(borrower)
	return &response, nil
}

// Disable soft-deletes a borrower and cascades their live loans to the
// trash in the same transaction
func (s *BorrowerService) Disable(ctx context.Context, borrowerID uuid.UUID, actor string) error {
	return s.tm.Do(ctx, func(repos lending.TxRepos) error {
		borrower, err := repos.Borrowers.FindByID(ctx, borrowerID)
		if err != nil {
			return err
		}
		if err := borrower.Disable(); err != nil {
			return err
		}
		if err := repos.Borrowers.Save(ctx, borrower); err != nil {
			return err
		}

		live, err := repos.Loans.FindLiveByBorrower(ctx, borrowerID)
		if err != nil {
			return err
		}
		for i := range live {
			loan := live[i]
			if err := loan.MarkDeleted(); err != nil {
				return err
			}
			if err := repos.Loans.Save(ctx, &loan); err != nil {
				return err
			}
		}

		entry, err := audit.NewEntry(actor, "borrower.disable", "borrower", borrowerID, "live loans moved to trash")
		if err != nil {
			return err
		}
		return repos.Audit.Save(ctx, entry)
	})
}

// Enable restores a disabled borrower. Trashed loans stay in the trash
// until restored individually.
func (s *BorrowerService) Enable(ctx context.Context, borrowerID uuid.UUID) (*BorrowerResponse, error) {
	borrower, err := s.borrowers.FindByID(ctx, borrowerID)
	if err != nil {
		return nil, err
	}
	if err := borrower.Enable(); err != nil {
		return nil, err
	}
	if err := s.borrowers.Save(ctx, borrower); err != nil {
		return nil, err
	}
	response := ToBorrowerResponse(borrower)
	return &response, nil
}

// ListTrash returns every disabled borrower
func (s *BorrowerService) ListTrash(ctx context.Context) ([]BorrowerResponse, error) {
	borrowers, err := s.borrowers.FindByStatus(ctx, lending.BorrowerStatusDisabled)
	if err != nil {
		return nil, err
	}
	responses := make([]BorrowerResponse, len(borrowers))
	for i := range borrowers {
		responses[i] = ToBorrowerResponse(&borrowers[i])
	}
	return responses, nil
}

// Delete permanently removes a borrower with no loan history
func (s *BorrowerService) Delete(ctx context.Context, borrowerID uuid.UUID, actor string) error {
	return s.tm.Do(ctx, func(repos lending.TxRepos) error {
		if _, err := repos.Borrowers.FindByID(ctx, borrowerID); err != nil {
			return err
		}
		live, err := repos.Loans.FindLiveByBorrower(ctx, borrowerID)
		if err != nil {
			return err
		}
		if len(live) > 0 {
			return shared.NewBusinessRuleError("Borrower with active loans cannot be deleted")
		}
		if err := repos.Borrowers.Delete(ctx, borrowerID); err != nil {
			return err
		}
		entry, err := audit.NewEntry(actor, "borrower.delete", "borrower", borrowerID, "permanently removed")
		if err != nil {
			return err
		}
		return repos.Audit.Save(ctx, entry)
	})
}
