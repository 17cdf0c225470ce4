package quotes

import "github.com/go-chi/chi/v5"

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/quotes", h.List)
	r.Get("/quotes/stats", h.Stats)
	r.Post("/quotes", h.Create)
	r.Get("/quotes/{id}", h.Show)
	r.Patch("/quotes/{id}", h.Update)
	r.Delete("/quotes/{id}", h.Delete)
	r.Post("/quotes/{id}/status", h.UpdateStatus)
	r.Post("/quotes/{id}/send", h.Send)
	r.Post("/quotes/{id}/convert", h.Convert)
	r.Get("/quotes/{id}/pdf", h.ExportPDF)
}
