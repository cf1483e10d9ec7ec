package http

import (
	"encoding/json"
	"net/http"
	"time"

	applog "expensetracker/internal/log"
	"expensetracker/internal/session"
)

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// handleReady reports whether the data endpoint can be reached.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.remoteContext(r)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	checks := map[string]any{
		"templates":    "ok",
		"rate_limiter": map[string]any{"active_clients": s.limiter.ActiveClients()},
	}

	if s.ready != nil {
		if err := s.ready(ctx); err != nil {
			checks["data_endpoint"] = "failed: " + err.Error()
			status = "not_ready"
			httpStatus = http.StatusServiceUnavailable
		} else {
			checks["data_endpoint"] = "ok"
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	})
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, pageLogin, "Login", nil)
}

// handleLogin checks the submitted credentials against the user list.
// On a match htmx is told to navigate to the dashboard, where the queued
// success message is shown. Otherwise the form stays and a toast explains.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(w, r)
	if err := p.Parse(); err != nil {
		NewHTMXResponse().Status(formStatus(&FormError{Field: "body", Err: err})).NoSwap().
			TriggerErrorNotification("Login failed").Write(w)
		return
	}

	ctx, cancel := s.remoteContext(r)
	defer cancel()

	ok, err := s.auth.Login(ctx, p.Raw("username"), p.Raw("password"))
	switch {
	case err != nil:
		applog.LogError(r.Context(), "Login failed", err, applog.ComponentSession, applog.OpLogin, nil)
		NewHTMXResponse().Status(http.StatusBadGateway).NoSwap().
			TriggerErrorNotification("Login failed").Write(w)
	case !ok:
		NewHTMXResponse().Status(http.StatusUnauthorized).NoSwap().
			TriggerErrorNotification("Invalid credentials").Write(w)
	default:
		s.state.Notify(session.Success, "Login successful!")
		redirect(w, r, "/")
	}
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.auth.Logout(r.Context())
	redirect(w, r, "/login")
}

// handleToggleTheme flips the theme. htmx callers get the new theme in an
// event; plain form posts are sent back where they came from.
func (s *Server) handleToggleTheme(w http.ResponseWriter, r *http.Request) {
	theme := s.state.ToggleTheme()
	if !isHTMX(r) {
		back := r.Referer()
		if back == "" {
			back = "/"
		}
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}
	NewHTMXResponse().
		NoSwap().
		TriggerThemeChanged(string(theme)).
		Write(w)
}
