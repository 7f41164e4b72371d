package app

import (
	"context"
	"fmt"

	"jobdesk/internal/common"
	"jobdesk/internal/domain/application"
	"jobdesk/internal/domain/user"
)

// ReconcileService backfills applicant links onto guest submissions whose
// email later registered an identity. It runs only as an explicit
// maintenance operation, never on the request path.
type ReconcileService struct {
	applications application.Repository
	users        user.Repository
	logger       Logger
}

func NewReconcileService(applications application.Repository, users user.Repository, logger Logger) *ReconcileService {
	return &ReconcileService{applications: applications, users: users, logger: logger}
}

// LinkGuestSubmissions returns how many records were linked.
func (s *ReconcileService) LinkGuestSubmissions(ctx context.Context) (int, error) {
	guests, err := s.applications.ListGuest(ctx)
	if err != nil {
		return 0, err
	}
	linked := 0
	for _, app := range guests {
		account, err := s.users.GetByEmail(ctx, app.SubmitterEmail)
		if err != nil {
			if common.Is(err, common.CodeNotFound) {
				continue
			}
			return linked, err
		}
		if err := s.applications.LinkApplicant(ctx, app.ID, account.ID, account.DisplayName); err != nil {
			// Another run may have linked the record in the meantime.
			if common.Is(err, common.CodeConflict) {
				continue
			}
			return linked, err
		}
		linked++
	}
	if s.logger != nil {
		s.logger.Info(fmt.Sprintf("guest applications reconciled linked=%d scanned=%d", linked, len(guests)))
	}
	return linked, nil
}
