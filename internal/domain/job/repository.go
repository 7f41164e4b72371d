package job

import (
	"context"

	"jobdesk/internal/common"
)

type Repository interface {
	Create(ctx context.Context, posting Job) (*Job, error)
	GetByID(ctx context.Context, id common.UUID) (*Job, error)
	ListAccepted(ctx context.Context, limit, offset int) ([]Job, error)
	ListByOwner(ctx context.Context, ownerID common.UUID) ([]Job, error)
	ListIDsByOwner(ctx context.Context, ownerID common.UUID) ([]common.UUID, error)
	UpdateStatus(ctx context.Context, id common.UUID, status Status) (*Job, error)
}
