package main

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/lojasmm/erpbot/internal/nlp"
	"github.com/lojasmm/erpbot/internal/whatsapp"
)

func newRouter(webhook *whatsapp.WebhookHandler, api *debugAPI) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/webhook", webhook.HandleVerify)
	r.Post("/webhook", webhook.HandleIncoming)

	r.Group(func(r chi.Router) {
		r.Use(api.requireToken)
		r.Get("/analytics", api.handleAnalytics)
		r.Route("/debug", func(r chi.Router) {
			r.Get("/classify", api.handleClassify)
			r.Get("/lookup", api.handleLookup)
		})
	})
	return r
}

type customerFinder interface {
	FindCustomerByMobile(ctx context.Context, mobile string) string
}

type intentCounter interface {
	IntentCounts() (map[string]uint64, error)
}

// debugAPI serves the operator endpoints next to the webhook.
type debugAPI struct {
	engine    *nlp.Engine
	erp       customerFinder
	store     intentCounter
	analytics bool
	// token is the webhook verify token; operator routes require it.
	token string
}

// requireToken accepts the token as ?token= or as a bearer header.
func (a *debugAPI) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got := r.URL.Query().Get("token")
		if got == "" {
			got = strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		}
		if a.token == "" || subtle.ConstantTimeCompare([]byte(got), []byte(a.token)) != 1 {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (a *debugAPI) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	if !a.analytics {
		http.Error(w, "analytics disabled", http.StatusNotFound)
		return
	}
	counts, err := a.store.IntentCounts()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{"intents": counts})
}

func (a *debugAPI) handleClassify(w http.ResponseWriter, r *http.Request) {
	if a.engine == nil {
		http.Error(w, "classifier disabled", http.StatusNotFound)
		return
	}
	text := r.URL.Query().Get("text")
	if text == "" {
		http.Error(w, "missing text", http.StatusBadRequest)
		return
	}
	res := a.engine.Classify(r.Context(), text)
	writeJSON(w, map[string]any{"trained": a.engine.Trained(), "result": res})
}

func (a *debugAPI) handleLookup(w http.ResponseWriter, r *http.Request) {
	mobile := r.URL.Query().Get("mobile")
	if mobile == "" {
		http.Error(w, "missing mobile", http.StatusBadRequest)
		return
	}
	writeJSON(w, map[string]string{"reply": a.erp.FindCustomerByMobile(r.Context(), mobile)})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
