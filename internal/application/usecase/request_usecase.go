package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/russellmoss/dashboard-api/internal/application/dto"
	"github.com/russellmoss/dashboard-api/internal/domain"
	"github.com/russellmoss/dashboard-api/internal/domain/entity"
	"github.com/russellmoss/dashboard-api/internal/domain/repository"
)

// Categorías válidas de solicitud.
const (
	RequestCategorySupport = "support"
	RequestCategoryData    = "data"
	RequestCategoryAccess  = "access"
)

// RequestUseCase solicitudes internas creadas desde el dashboard.
type RequestUseCase struct {
	repo repository.RequestRepository
}

// NewRequestUseCase construye el caso de uso de solicitudes.
func NewRequestUseCase(repo repository.RequestRepository) *RequestUseCase {
	return &RequestUseCase{repo: repo}
}

// Create alta de solicitud; siempre nace en estado open y sin asignar.
func (uc *RequestUseCase) Create(ctx context.Context, requesterID string, in dto.CreateRequestRequest) (*dto.RequestResponse, error) {
	if in.Title == "" {
		return nil, domain.ErrInvalidInput
	}
	switch in.Category {
	case RequestCategorySupport, RequestCategoryData, RequestCategoryAccess:
	default:
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	req := &entity.Request{
		ID:          uuid.New().String(),
		RequesterID: requesterID,
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Status:      entity.RequestStatusOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, req); err != nil {
		return nil, err
	}
	return toRequestResponse(req), nil
}

// ListMine solicitudes creadas por el principal.
func (uc *RequestUseCase) ListMine(ctx context.Context, requesterID string) ([]dto.RequestResponse, error) {
	reqs, err := uc.repo.ListByRequester(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	return toRequestResponses(reqs), nil
}

// ListByStatus vista de gestor: solicitudes en un estado dado.
func (uc *RequestUseCase) ListByStatus(ctx context.Context, status string) ([]dto.RequestResponse, error) {
	if !validRequestStatus(status) {
		return nil, domain.ErrInvalidInput
	}
	reqs, err := uc.repo.ListByStatus(ctx, status)
	if err != nil {
		return nil, err
	}
	return toRequestResponses(reqs), nil
}

// UpdateStatus cambio de estado por un gestor, con asignación opcional.
func (uc *RequestUseCase) UpdateStatus(ctx context.Context, id string, in dto.UpdateRequestStatusRequest) (*dto.RequestResponse, error) {
	if !validRequestStatus(in.Status) {
		return nil, domain.ErrInvalidInput
	}
	req, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.repo.UpdateStatus(ctx, id, in.Status, in.AssigneeID); err != nil {
		return nil, err
	}
	req.Status = in.Status
	if in.AssigneeID != "" {
		req.AssigneeID = in.AssigneeID
	}
	req.UpdatedAt = time.Now()
	return toRequestResponse(req), nil
}

func validRequestStatus(s string) bool {
	switch s {
	case entity.RequestStatusOpen, entity.RequestStatusInProgress,
		entity.RequestStatusDone, entity.RequestStatusRejected:
		return true
	}
	return false
}

func toRequestResponse(r *entity.Request) *dto.RequestResponse {
	return &dto.RequestResponse{
		ID:          r.ID,
		RequesterID: r.RequesterID,
		Title:       r.Title,
		Description: r.Description,
		Category:    r.Category,
		Status:      r.Status,
		AssigneeID:  r.AssigneeID,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func toRequestResponses(reqs []entity.Request) []dto.RequestResponse {
	out := make([]dto.RequestResponse, 0, len(reqs))
	for i := range reqs {
		out = append(out, *toRequestResponse(&reqs[i]))
	}
	return out
}
