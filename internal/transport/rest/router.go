package rest

import "net/http"

// Handlers groups the endpoint handlers mounted by NewRouter. Auth and
// Saves are nil when no database is configured; their routes then answer
// 503.
type Handlers struct {
	Dialogue *DialogueHandler
	Auth     *AuthHandler
	Saves    *SaveHandler
	Health   *HealthHandler
}

// NewRouter mounts every API route. Method checks happen in the handlers
// so wrong methods get the JSON 405 body.
func NewRouter(h Handlers) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/npc/reply", h.Dialogue.Reply)
	mux.HandleFunc("/api/groq-level", h.Dialogue.Reply)
	mux.HandleFunc("/api/chat", h.Dialogue.Chat)

	if h.Auth != nil {
		mux.HandleFunc("/api/auth/register", h.Auth.Register)
		mux.HandleFunc("/api/auth/login", h.Auth.Login)
		mux.HandleFunc("/api/auth/logout", h.Auth.Logout)
	} else {
		for _, p := range []string{"/api/auth/register", "/api/auth/login", "/api/auth/logout"} {
			mux.HandleFunc(p, accountsDisabled)
		}
	}

	if h.Saves != nil {
		mux.HandleFunc("/api/save", h.Saves.Save)
		mux.HandleFunc("/api/load", h.Saves.Load)
	} else {
		mux.HandleFunc("/api/save", accountsDisabled)
		mux.HandleFunc("/api/load", accountsDisabled)
	}

	mux.HandleFunc("GET /live", h.Health.Live)
	mux.HandleFunc("GET /ready", h.Health.Ready)
	mux.HandleFunc("GET /health", h.Health.Health)

	return mux
}

func accountsDisabled(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusServiceUnavailable, "Accounts are not configured")
}
