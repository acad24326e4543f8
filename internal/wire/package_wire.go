package wire

import (
	"travel-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wirePackage(r chi.Router, packageHandler *adaptor.PackageHandler) {
	// ==================== PUBLIC ROUTES ====================

	// GET /api/packages - Browse the catalog
	r.Get("/api/packages", packageHandler.ListPackages)

	// GET /api/packages/{id} - Package details
	r.Get("/api/packages/{id}", packageHandler.GetPackage)

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/packages", func(r chi.Router) {
		r.Post("/", packageHandler.CreatePackage)
		r.Put("/{id}", packageHandler.UpdatePackage)
		r.Delete("/{id}", packageHandler.DeletePackage)
	})
}
