package leave

import (
	"context"
	"net/http"

	apperrors "github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/transport"
	"github.com/frahmantamala/leave-management/internal/user"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Create(ctx context.Context, ownerID string, dto CreateLeaveDTO) (*Leave, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*Leave, error)
	ListAll(ctx context.Context) ([]*Leave, error)
	FindByID(ctx context.Context, id string) (*Leave, error)
	Decide(ctx context.Context, id, reviewerID string, dto DecideLeaveDTO) (*Leave, error)
	LeaveTypes() []TypeInfo
}

// ViewPolicy decides whether a caller may read a given request.
type ViewPolicy interface {
	CanViewLeave(u *user.User, ownerID string) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
	Policy  ViewPolicy
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI, policy ViewPolicy) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
		Policy:      policy,
	}
}

type ItemResponse struct {
	Success bool     `json:"success"`
	Data    Response `json:"data"`
}

type ListResponse struct {
	Success bool       `json:"success"`
	Count   int        `json:"count"`
	Data    []Response `json:"data"`
}

type TypesResponse struct {
	Success bool       `json:"success"`
	Data    []TypeInfo `json:"data"`
}

func (h *Handler) currentUser(w http.ResponseWriter, r *http.Request) (*user.User, bool) {
	u, ok := user.FromContext(r.Context())
	if !ok {
		h.HandleError(w, r, apperrors.ErrMissingToken)
		return nil, false
	}
	return u, true
}

// CreateLeave handles POST /leaves
func (h *Handler) CreateLeave(w http.ResponseWriter, r *http.Request) {
	u, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var dto CreateLeaveDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, r, err)
		return
	}

	l, err := h.Service.Create(r.Context(), u.ID, dto)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, ItemResponse{Success: true, Data: l.ToResponse()})
}

// GetMyLeaves handles GET /leaves/mine
func (h *Handler) GetMyLeaves(w http.ResponseWriter, r *http.Request) {
	u, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	leaves, err := h.Service.ListByOwner(r.Context(), u.ID)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ListResponse{Success: true, Count: len(leaves), Data: ToResponses(leaves)})
}

// GetAllLeaves handles GET /leaves
func (h *Handler) GetAllLeaves(w http.ResponseWriter, r *http.Request) {
	leaves, err := h.Service.ListAll(r.Context())
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ListResponse{Success: true, Count: len(leaves), Data: ToResponses(leaves)})
}

// GetLeave handles GET /leaves/{id}
func (h *Handler) GetLeave(w http.ResponseWriter, r *http.Request) {
	u, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	l, err := h.Service.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	if err := h.Policy.CanViewLeave(u, l.OwnerID); err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ItemResponse{Success: true, Data: l.ToResponse()})
}

// UpdateLeaveStatus handles PATCH /leaves/{id}/status
func (h *Handler) UpdateLeaveStatus(w http.ResponseWriter, r *http.Request) {
	u, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var dto DecideLeaveDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, r, err)
		return
	}

	l, err := h.Service.Decide(r.Context(), chi.URLParam(r, "id"), u.ID, dto)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ItemResponse{Success: true, Data: l.ToResponse()})
}

// GetLeaveTypes handles GET /leave-types
func (h *Handler) GetLeaveTypes(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, TypesResponse{Success: true, Data: h.Service.LeaveTypes()})
}
