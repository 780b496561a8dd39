package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/soaringjerry/Krippen/internal/middleware"
	"github.com/soaringjerry/Krippen/internal/reliability"
	"github.com/soaringjerry/Krippen/internal/services"
)

type Router struct {
	store     Store
	datasets  *services.DatasetService
	analytics *services.AnalyticsService
	auth      *services.AuthService
}

func NewRouter(store Store) *Router {
	return &Router{
		store:     store,
		datasets:  services.NewDatasetService(store),
		analytics: services.NewAnalyticsService(store),
		auth:      services.NewAuthService(store, middleware.SignToken),
	}
}

func (rt *Router) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/auth/register", rt.handleRegister) // POST
	mux.HandleFunc("/api/auth/login", rt.handleLogin)       // POST
	mux.HandleFunc("/api/datasets", rt.handleDatasets)      // POST, GET
	mux.HandleFunc("/api/datasets/", rt.handleDatasetScoped)
	mux.HandleFunc("/api/audit", rt.handleAudit) // GET
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeErr maps service and engine error codes onto HTTP statuses.
func writeErr(w http.ResponseWriter, err error) {
	if se, ok := services.AsServiceError(err); ok {
		status := http.StatusBadRequest
		switch se.Code {
		case services.ErrorForbidden:
			status = http.StatusForbidden
		case services.ErrorNotFound:
			status = http.StatusNotFound
		case services.ErrorConflict:
			status = http.StatusConflict
		case services.ErrorUnauthorized:
			status = http.StatusUnauthorized
		}
		writeJSON(w, status, map[string]any{"error": se.Message, "code": se.Code})
		return
	}
	if ce, ok := reliability.AsError(err); ok {
		status := http.StatusUnprocessableEntity
		switch ce.Code {
		case reliability.ErrorInputShape, reliability.ErrorInvalidOption:
			status = http.StatusBadRequest
		}
		writeJSON(w, status, map[string]any{"error": ce.Message, "code": ce.Code})
		return
	}
	writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
}

func tenantID(w http.ResponseWriter, r *http.Request) (string, bool) {
	tid, ok := middleware.TenantIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "unauthorized"})
		return "", false
	}
	return tid, true
}

// POST /api/auth/register
func (rt *Router) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Email      string `json:"email"`
		Password   string `json:"password"`
		TenantName string `json:"tenant_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	res, err := rt.auth.Register(req.Email, req.Password, req.TenantName)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"token": res.Token, "tenant_id": res.TenantID, "user_id": res.UserID})
}

// POST /api/auth/login
func (rt *Router) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	res, err := rt.auth.Login(req.Email, req.Password)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"token": res.Token, "tenant_id": res.TenantID, "user_id": res.UserID})
}

// POST /api/datasets, GET /api/datasets
func (rt *Router) handleDatasets(w http.ResponseWriter, r *http.Request) {
	tid, ok := tenantID(w, r)
	if !ok {
		return
	}
	switch r.Method {
	case http.MethodPost:
		var ds services.Dataset
		if err := json.NewDecoder(r.Body).Decode(&ds); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		created, err := rt.datasets.CreateDataset(tid, &ds)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, created)
	case http.MethodGet:
		list, err := rt.datasets.ListDatasets(tid)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"datasets": list})
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// /api/datasets/{id}
// /api/datasets/{id}/ratings
// /api/datasets/{id}/alpha
func (rt *Router) handleDatasetScoped(w http.ResponseWriter, r *http.Request) {
	tid, ok := tenantID(w, r)
	if !ok {
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/api/datasets/")
	parts := strings.Split(rest, "/")
	id := parts[0]
	if id == "" {
		http.NotFound(w, r)
		return
	}
	switch {
	case len(parts) == 1:
		rt.handleDataset(w, r, tid, id)
	case len(parts) == 2 && parts[1] == "ratings":
		rt.handleRatings(w, r, tid, id)
	case len(parts) == 2 && parts[1] == "alpha":
		rt.handleAlpha(w, r, tid, id)
	default:
		http.NotFound(w, r)
	}
}

func (rt *Router) handleDataset(w http.ResponseWriter, r *http.Request, tid, id string) {
	switch r.Method {
	case http.MethodGet:
		ds, err := rt.datasets.GetDataset(tid, id)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ds)
	case http.MethodDelete:
		if err := rt.datasets.DeleteDataset(tid, id); err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// POST /api/datasets/{id}/ratings — bulk upload
func (rt *Router) handleRatings(w http.ResponseWriter, r *http.Request, tid, id string) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Ratings []*services.RatingInput `json:"ratings"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	n, err := rt.datasets.AddRatings(tid, id, req.Ratings)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "added": n})
}

// GET /api/audit — the tenant's own audit trail, oldest first.
func (rt *Router) handleAudit(w http.ResponseWriter, r *http.Request) {
	tid, ok := tenantID(w, r)
	if !ok {
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	entries := []services.AuditEntry{}
	for _, e := range rt.store.ListAudit() {
		if e.Actor == tid {
			entries = append(entries, e)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

// GET /api/datasets/{id}/alpha?bootstrap=&ci=&seed=&items=
func (rt *Router) handleAlpha(w http.ResponseWriter, r *http.Request, tid, id string) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	opts := services.AlphaOptions{}
	q := r.URL.Query()
	if v := q.Get("bootstrap"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			http.Error(w, "bootstrap must be an integer", http.StatusBadRequest)
			return
		}
		opts.Bootstrap = n
	}
	if v := q.Get("ci"); v != "" {
		c, err := strconv.ParseFloat(v, 64)
		if err != nil {
			http.Error(w, "ci must be a number", http.StatusBadRequest)
			return
		}
		opts.Confidence = c
	}
	if v := q.Get("seed"); v != "" {
		s, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			http.Error(w, "seed must be an integer", http.StatusBadRequest)
			return
		}
		opts.Seed = &s
	}
	opts.ItemStats = q.Get("items") == "true" || q.Get("items") == "1"

	sum, err := rt.analytics.Alpha(tid, id, opts)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}
