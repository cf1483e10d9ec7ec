// Package http serves the expense tracker web UI.
package http

import (
	"encoding/json"
	"net/http"
)

// Client-side events fired after a successful write so dependent fragments
// re-fetch.
const (
	EventExpenseChanged = "expense:changed"
	EventBudgetChanged  = "budget:changed"
	EventFormReset      = "form:reset"
	EventThemeChanged   = "theme:changed"

	eventNotification = "show-notification"
)

type NotificationType string

const (
	NotificationSuccess NotificationType = "success"
	NotificationError   NotificationType = "error"
	NotificationInfo    NotificationType = "info"
)

// toast is the show-notification payload app.js renders.
type toast struct {
	Type     NotificationType `json:"type"`
	Message  string           `json:"message"`
	Duration int              `json:"duration"`
}

// HTMXResponseBuilder collects the HX-* headers, status and body of one
// fragment response. Triggers are sent even on error statuses so failures
// still surface as toasts.
type HTMXResponseBuilder struct {
	triggers   map[string]any
	headers    http.Header
	statusCode int
	body       []byte
}

// NewHTMXResponse starts a 200 response.
func NewHTMXResponse() *HTMXResponseBuilder {
	return &HTMXResponseBuilder{
		triggers:   map[string]any{},
		headers:    http.Header{},
		statusCode: http.StatusOK,
	}
}

func (b *HTMXResponseBuilder) Status(code int) *HTMXResponseBuilder {
	b.statusCode = code
	return b
}

// Trigger queues a client event. A later call with the same name wins.
func (b *HTMXResponseBuilder) Trigger(name string, detail any) *HTMXResponseBuilder {
	b.triggers[name] = detail
	return b
}

func (b *HTMXResponseBuilder) TriggerExpenseChanged(op string) *HTMXResponseBuilder {
	return b.Trigger(EventExpenseChanged, map[string]string{"op": op})
}

func (b *HTMXResponseBuilder) TriggerBudgetChanged(category string) *HTMXResponseBuilder {
	return b.Trigger(EventBudgetChanged, map[string]string{"category": category})
}

// TriggerFormReset closes the open expense form.
func (b *HTMXResponseBuilder) TriggerFormReset() *HTMXResponseBuilder {
	return b.Trigger(EventFormReset, struct{}{})
}

func (b *HTMXResponseBuilder) TriggerThemeChanged(theme string) *HTMXResponseBuilder {
	return b.Trigger(EventThemeChanged, map[string]string{"theme": theme})
}

// TriggerNotification shows a toast for durationMs milliseconds.
func (b *HTMXResponseBuilder) TriggerNotification(kind NotificationType, message string, durationMs int) *HTMXResponseBuilder {
	return b.Trigger(eventNotification, toast{Type: kind, Message: message, Duration: durationMs})
}

func (b *HTMXResponseBuilder) TriggerSuccessNotification(message string) *HTMXResponseBuilder {
	return b.TriggerNotification(NotificationSuccess, message, 3000)
}

func (b *HTMXResponseBuilder) TriggerErrorNotification(message string) *HTMXResponseBuilder {
	return b.TriggerNotification(NotificationError, message, 5000)
}

// Redirect makes htmx navigate the whole page to url.
func (b *HTMXResponseBuilder) Redirect(url string) *HTMXResponseBuilder {
	return b.Header("HX-Redirect", url)
}

// NoSwap leaves the DOM untouched; only triggers are processed.
func (b *HTMXResponseBuilder) NoSwap() *HTMXResponseBuilder {
	return b.Header("HX-Reswap", "none")
}

func (b *HTMXResponseBuilder) Header(name, value string) *HTMXResponseBuilder {
	b.headers.Set(name, value)
	return b
}

// HTML sets a rendered fragment as the body.
func (b *HTMXResponseBuilder) HTML(fragment []byte) *HTMXResponseBuilder {
	b.headers.Set("Content-Type", "text/html; charset=utf-8")
	b.body = fragment
	return b
}

// Text sets a plain text body.
func (b *HTMXResponseBuilder) Text(s string) *HTMXResponseBuilder {
	b.headers.Set("Content-Type", "text/plain; charset=utf-8")
	b.body = []byte(s)
	return b
}

func (b *HTMXResponseBuilder) Write(w http.ResponseWriter) {
	for name, values := range b.headers {
		w.Header()[name] = values
	}
	if len(b.triggers) > 0 {
		if payload, err := json.Marshal(b.triggers); err == nil {
			w.Header().Set("HX-Trigger", string(payload))
		}
	}
	w.WriteHeader(b.statusCode)
	if len(b.body) > 0 {
		_, _ = w.Write(b.body)
	}
}
