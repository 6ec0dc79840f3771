package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/example/calendar-copilot/internal/application"
)

// CopilotHandler serves the AI schedule generation endpoints.
type CopilotHandler struct {
	copilot   *application.CopilotService
	responder responder
}

// NewCopilotHandler constructs a CopilotHandler.
func NewCopilotHandler(copilot *application.CopilotService, logger *slog.Logger) *CopilotHandler {
	return &CopilotHandler{
		copilot:   copilot,
		responder: newResponder(logger),
	}
}

type generateRequest struct {
	Prompt string `json:"prompt"`
}

type generateResponse struct {
	Success bool   `json:"success"`
	Reply   string `json:"reply"`
}

// Generate handles POST /api/ai/generate.
func (h *CopilotHandler) Generate(w http.ResponseWriter, req *http.Request) {
	principal, ok := PrincipalFromContext(req.Context())
	if !ok {
		h.responder.writeError(req.Context(), w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}

	var body generateRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		h.responder.writeError(req.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	result, err := h.copilot.Generate(req.Context(), principal, body.Prompt)
	if err != nil {
		h.responder.handleServiceError(req.Context(), w, err)
		return
	}

	h.responder.writeJSON(req.Context(), w, http.StatusOK, generateResponse{Success: true, Reply: result.Reply})
}

type applyTemplateRequest struct {
	TemplateID string `json:"templateId"`
}

// ApplyTemplate handles POST /api/ai/apply-template.
func (h *CopilotHandler) ApplyTemplate(w http.ResponseWriter, req *http.Request) {
	principal, ok := PrincipalFromContext(req.Context())
	if !ok {
		h.responder.writeError(req.Context(), w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}

	var body applyTemplateRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		h.responder.writeError(req.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	result, err := h.copilot.ApplyTemplate(req.Context(), principal, body.TemplateID)
	if err != nil {
		h.responder.handleServiceError(req.Context(), w, err)
		return
	}

	h.responder.writeJSON(req.Context(), w, http.StatusOK, generateResponse{Success: true, Reply: result.Reply})
}

// Conversations handles GET /api/ai/conversations.
func (h *CopilotHandler) Conversations(w http.ResponseWriter, req *http.Request) {
	principal, ok := PrincipalFromContext(req.Context())
	if !ok {
		h.responder.writeError(req.Context(), w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}

	turns, err := h.copilot.Conversations(req.Context(), principal)
	if err != nil {
		h.responder.handleServiceError(req.Context(), w, err)
		return
	}

	h.responder.writeJSON(req.Context(), w, http.StatusOK, toConversationViews(turns))
}
