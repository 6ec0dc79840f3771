package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/example/calendar-copilot/internal/application"
)

// TemplateHandler serves the scenario template catalog.
type TemplateHandler struct {
	templates *application.TemplateService
	responder responder
}

// NewTemplateHandler constructs a TemplateHandler.
func NewTemplateHandler(templates *application.TemplateService, logger *slog.Logger) *TemplateHandler {
	return &TemplateHandler{
		templates: templates,
		responder: newResponder(logger),
	}
}

// List handles GET /api/templates. The catalog is shared reference data and
// requires no session.
func (h *TemplateHandler) List(w http.ResponseWriter, req *http.Request) {
	templates, err := h.templates.ListTemplates(req.Context())
	if err != nil {
		h.responder.handleServiceError(req.Context(), w, err)
		return
	}

	h.responder.writeJSON(req.Context(), w, http.StatusOK, toTemplateViews(templates))
}

type templateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Prompt      string `json:"prompt"`
	Icon        string `json:"icon"`
	IsDefault   bool   `json:"isDefault"`
}

// Create handles POST /api/templates.
func (h *TemplateHandler) Create(w http.ResponseWriter, req *http.Request) {
	if _, ok := PrincipalFromContext(req.Context()); !ok {
		h.responder.writeError(req.Context(), w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}

	var body templateRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		h.responder.writeError(req.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	template, err := h.templates.CreateTemplate(req.Context(), application.TemplateInput{
		Name:        body.Name,
		Description: body.Description,
		Prompt:      body.Prompt,
		Icon:        body.Icon,
		IsDefault:   body.IsDefault,
	})
	if err != nil {
		h.responder.handleServiceError(req.Context(), w, err)
		return
	}

	h.responder.writeJSON(req.Context(), w, http.StatusCreated, toTemplateView(template))
}
