package repository

import (
	"context"

	"github.com/russellmoss/dashboard-api/internal/domain/entity"
)

// RequestRepository persistencia de solicitudes internas.
type RequestRepository interface {
	Create(ctx context.Context, r *entity.Request) error
	GetByID(ctx context.Context, id string) (*entity.Request, error)
	ListByRequester(ctx context.Context, requesterID string) ([]entity.Request, error)
	ListByStatus(ctx context.Context, status string) ([]entity.Request, error)
	UpdateStatus(ctx context.Context, id, status, assigneeID string) error
}
