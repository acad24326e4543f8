package adaptor

import (
	"encoding/json"
	"net/http"

	"travel-booking/internal/dto/request"
	"travel-booking/internal/usecase"
	"travel-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type PackageHandler struct {
	service usecase.PackageService
	log     *zap.Logger
}

func NewPackageHandler(service usecase.PackageService, log *zap.Logger) *PackageHandler {
	return &PackageHandler{
		service: service,
		log:     log.With(zap.String("handler", "package")),
	}
}

// ListPackages handles GET /api/packages
func (h *PackageHandler) ListPackages(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	req := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}

	packages, err := h.service.ListPackages(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "list packages")
		return
	}

	utils.ResponseSuccess(w, "success", packages)
}

// GetPackage handles GET /api/packages/{id}
func (h *PackageHandler) GetPackage(w http.ResponseWriter, r *http.Request) {
	id := utils.ParseInt64(chi.URLParam(r, "id"))
	if id <= 0 {
		utils.ResponseBadRequest(w, "Package ID must be numeric", nil)
		return
	}

	pkg, err := h.service.GetPackage(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.log, err, "get package")
		return
	}

	utils.ResponseSuccess(w, "success", pkg)
}

// ==================== ADMIN METHODS ====================

// CreatePackage handles POST /api/admin/packages
func (h *PackageHandler) CreatePackage(w http.ResponseWriter, r *http.Request) {
	var req request.CreatePackageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	pkg, err := h.service.CreatePackage(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create package")
		return
	}

	utils.ResponseCreated(w, "success", pkg)
}

// UpdatePackage handles PUT /api/admin/packages/{id}
func (h *PackageHandler) UpdatePackage(w http.ResponseWriter, r *http.Request) {
	id := utils.ParseInt64(chi.URLParam(r, "id"))
	if id <= 0 {
		utils.ResponseBadRequest(w, "Package ID must be numeric", nil)
		return
	}

	var req request.UpdatePackageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	pkg, err := h.service.UpdatePackage(r.Context(), id, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update package")
		return
	}

	utils.ResponseSuccess(w, "success", pkg)
}

// DeletePackage handles DELETE /api/admin/packages/{id}
func (h *PackageHandler) DeletePackage(w http.ResponseWriter, r *http.Request) {
	id := utils.ParseInt64(chi.URLParam(r, "id"))
	if id <= 0 {
		utils.ResponseBadRequest(w, "Package ID must be numeric", nil)
		return
	}

	if err := h.service.DeletePackage(r.Context(), id); err != nil {
		handleServiceError(w, h.log, err, "delete package")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}
