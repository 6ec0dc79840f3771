package http

import (
	"log/slog"
	"net/http"
	"strings"
)

// RouterConfig wires the route handlers and the middleware chain applied to
// every request.
type RouterConfig struct {
	Auth      *AuthHandler
	Events    *EventHandler
	Copilot   *CopilotHandler
	Templates *TemplateHandler

	// Middleware is applied outermost-first around the whole mux.
	Middleware []Middleware

	Logger *slog.Logger
}

// NewRouter assembles the API route table.
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()
	resp := newResponder(cfg.Logger)

	mux.HandleFunc("/api/auth/register", func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case http.MethodPost:
			cfg.Auth.Register(w, req)
		default:
			methodNotAllowed(resp, w, req, http.MethodPost)
		}
	})

	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case http.MethodPost:
			cfg.Auth.Login(w, req)
		default:
			methodNotAllowed(resp, w, req, http.MethodPost)
		}
	})

	mux.HandleFunc("/api/auth/logout", func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case http.MethodPost:
			cfg.Auth.Logout(w, req)
		default:
			methodNotAllowed(resp, w, req, http.MethodPost)
		}
	})

	mux.HandleFunc("/api/auth/user", func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case http.MethodGet:
			cfg.Auth.CurrentUser(w, req)
		default:
			methodNotAllowed(resp, w, req, http.MethodGet)
		}
	})

	mux.HandleFunc("/api/events", func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case http.MethodGet:
			cfg.Events.List(w, req)
		case http.MethodPost:
			cfg.Events.Create(w, req)
		default:
			methodNotAllowed(resp, w, req, http.MethodGet, http.MethodPost)
		}
	})

	mux.HandleFunc("/api/events/", func(w http.ResponseWriter, req *http.Request) {
		eventID := strings.TrimPrefix(req.URL.Path, "/api/events/")
		if eventID == "" || strings.Contains(eventID, "/") {
			resp.writeJSON(req.Context(), w, http.StatusNotFound, errorResponse{Message: "Resource not found"})
			return
		}
		req = req.WithContext(ContextWithEventID(req.Context(), eventID))

		switch req.Method {
		case http.MethodPatch:
			cfg.Events.Patch(w, req)
		case http.MethodDelete:
			cfg.Events.Delete(w, req)
		default:
			methodNotAllowed(resp, w, req, http.MethodPatch, http.MethodDelete)
		}
	})

	mux.HandleFunc("/api/ai/generate", func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case http.MethodPost:
			cfg.Copilot.Generate(w, req)
		default:
			methodNotAllowed(resp, w, req, http.MethodPost)
		}
	})

	mux.HandleFunc("/api/ai/apply-template", func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case http.MethodPost:
			cfg.Copilot.ApplyTemplate(w, req)
		default:
			methodNotAllowed(resp, w, req, http.MethodPost)
		}
	})

	mux.HandleFunc("/api/ai/conversations", func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case http.MethodGet:
			cfg.Copilot.Conversations(w, req)
		default:
			methodNotAllowed(resp, w, req, http.MethodGet)
		}
	})

	mux.HandleFunc("/api/templates", func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case http.MethodGet:
			cfg.Templates.List(w, req)
		case http.MethodPost:
			cfg.Templates.Create(w, req)
		default:
			methodNotAllowed(resp, w, req, http.MethodGet, http.MethodPost)
		}
	})

	return Chain(mux, cfg.Middleware...)
}

func methodNotAllowed(resp responder, w http.ResponseWriter, req *http.Request, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	resp.writeJSON(req.Context(), w, http.StatusMethodNotAllowed, errorResponse{Message: "Method not allowed"})
}
