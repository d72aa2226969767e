package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	appai "github.com/bryanwahyu/shellcheck-gate/internal/application/ai"
	appchecks "github.com/bryanwahyu/shellcheck-gate/internal/application/checks"
	domai "github.com/bryanwahyu/shellcheck-gate/internal/domain/ai"
	domain "github.com/bryanwahyu/shellcheck-gate/internal/domain/checks"
	"github.com/bryanwahyu/shellcheck-gate/internal/middleware"
)

type Router struct {
	checksSvc *appchecks.Service
	aiSvc     *appai.Service
}

func NewRouter(checksSvc *appchecks.Service, aiSvc *appai.Service, checkers map[string]middleware.HealthChecker) http.Handler {
	r := &Router{checksSvc: checksSvc, aiSvc: aiSvc}
	mux := chi.NewRouter()

	mux.Get("/health", middleware.HealthHandler(checkers))
	mux.Get("/healthz", middleware.LivenessHandler)
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Route("/v1/{tenant}", func(rt chi.Router) {
		rt.Post("/webhook/shellcheck", r.wrap(r.handleTriggerCheck))
		rt.Get("/checks", r.wrap(r.handlePaginate))
		rt.Get("/checks/latest", r.wrap(r.handleLatest))
		rt.Get("/checks/{id}", r.wrap(r.handleGet))
		rt.Post("/checks/{id}/retry", r.wrap(r.handleRetry))
		rt.Get("/checks/{id}/errors", r.wrap(r.handleCheckErrors))
		rt.Get("/checks/{id}/analysis", r.wrap(r.handleLatestAnalysis))
		rt.Get("/summary", r.wrap(r.handleSummary))
		rt.Post("/ai/analyze", r.wrap(r.handleAIAnalyze))
		rt.Get("/ai/analyze", r.wrap(r.handleAIAnalyzeList))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				http.Error(w, "not found", http.StatusNotFound)
				return
			}
			if errors.Is(err, domai.ErrQuotaExceeded) {
				http.Error(w, "ai quota exceeded", http.StatusTooManyRequests)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

// POST /v1/{tenant}/webhook/shellcheck
// Triggers a shellcheck run in the background and answers immediately;
// CI webhooks should not wait for containers to spin up.
func (r *Router) handleTriggerCheck(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	if err := middleware.ValidateTenantID(tenant); err != nil {
		return err
	}

	var body struct {
		SourceFiles    []string `json:"source_files"`
		SourceDirs     []string `json:"source_dirs"`
		WorkingDir     string   `json:"working_dir"`
		Severity       string   `json:"severity"`
		UseDocker      *bool    `json:"use_docker"`
		IgnoreFailures *bool    `json:"ignore_failures"`
		Source         string   `json:"source"`
		CommitSHA      string   `json:"commit_sha"`
		Branch         string   `json:"branch"`
		Metadata       any      `json:"metadata"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return err
	}
	if err := middleware.ValidateSeverity(body.Severity); err != nil {
		return err
	}
	if err := middleware.ValidatePath(body.WorkingDir); err != nil {
		return err
	}

	cmd := appchecks.TriggerCheckCommand{
		TenantID:       tenant,
		SourceFiles:    body.SourceFiles,
		SourceDirs:     body.SourceDirs,
		WorkingDir:     body.WorkingDir,
		Severity:       body.Severity,
		UseDocker:      body.UseDocker,
		IgnoreFailures: body.IgnoreFailures,
		Source:         body.Source,
		CommitSHA:      body.CommitSHA,
		Branch:         body.Branch,
		Metadata:       body.Metadata,
	}

	go func() {
		middleware.IncrementChecks()
		middleware.IncrementChecksRunning()
		defer middleware.DecrementChecksRunning()

		result, err := r.checksSvc.TriggerCheckUntilDone(cmd)
		if err != nil {
			middleware.IncrementChecksFailed()
			log.Printf("background check error for tenant=%s: %v", tenant, err)
			return
		}
		log.Printf("check finished: tenant=%s id=%s status=%s", tenant, result.ID, result.Status)
	}()

	resp := map[string]any{
		"status":   "queued",
		"tenant":   tenant,
		"branch":   body.Branch,
		"commit":   body.CommitSHA,
		"message":  "shellcheck run started in background",
		"queuedAt": time.Now(),
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(resp)
}

// GET /v1/{tenant}/checks?page=&page_size=
func (r *Router) handlePaginate(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	page, _ := strconv.Atoi(req.URL.Query().Get("page"))
	size, _ := strconv.Atoi(req.URL.Query().Get("page_size"))

	list, err := r.checksSvc.Paginate(req.Context(), tenant, page, middleware.ValidateLimit(size))
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(list)
}

// GET /v1/{tenant}/checks/latest?limit=20
func (r *Router) handleLatest(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))

	list, err := r.checksSvc.Latest(req.Context(), tenant, middleware.ValidateLimit(limit))
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(list)
}

// GET /v1/{tenant}/checks/{id}
func (r *Router) handleGet(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	id := chi.URLParam(req, "id")

	check, err := r.checksSvc.Get(req.Context(), tenant, domain.CheckID(id))
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(check)
}

// POST /v1/{tenant}/checks/{id}/retry
func (r *Router) handleRetry(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateCheckID(id); err != nil {
		return err
	}

	result, err := r.checksSvc.RetryCheck(req.Context(), tenant, domain.CheckID(id))
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(result)
}

// GET /v1/{tenant}/checks/{id}/errors?limit=20
func (r *Router) handleCheckErrors(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateCheckID(id); err != nil {
		return err
	}
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))

	list, err := r.checksSvc.ListErrors(req.Context(), tenant, domain.CheckID(id), middleware.ValidateLimit(limit))
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(list)
}

// GET /v1/{tenant}/summary?days=7
func (r *Router) handleSummary(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	days, _ := strconv.Atoi(req.URL.Query().Get("days"))

	summary, err := r.checksSvc.Summary(req.Context(), tenant, middleware.ValidateDays(days))
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(summary)
}

// POST /v1/{tenant}/ai/analyze
// Body: {"check_id": "<id>"}
// Fetches the check's structured report URL and runs AI analysis on it.
func (r *Router) handleAIAnalyze(w http.ResponseWriter, req *http.Request) error {
	if r.aiSvc == nil {
		return fmt.Errorf("ai analysis is not configured")
	}
	tenant := chi.URLParam(req, "tenant")
	var body struct {
		CheckID string `json:"check_id"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return err
	}
	if body.CheckID == "" {
		return fmt.Errorf("check_id is required")
	}

	check, err := r.checksSvc.Get(req.Context(), tenant, domain.CheckID(body.CheckID))
	if err != nil {
		return err
	}
	if check == nil || check.XMLURL == "" {
		return fmt.Errorf("no structured report stored for check_id: %s", body.CheckID)
	}

	a, err := r.aiSvc.AnalyzeAndStore(req.Context(), tenant, body.CheckID, check.XMLURL)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(a)
}

// GET /v1/{tenant}/checks/{id}/analysis
func (r *Router) handleLatestAnalysis(w http.ResponseWriter, req *http.Request) error {
	if r.aiSvc == nil {
		return fmt.Errorf("ai analysis is not configured")
	}
	tenant := chi.URLParam(req, "tenant")
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateCheckID(id); err != nil {
		return err
	}

	a, err := r.aiSvc.LatestForCheck(req.Context(), tenant, id)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(a)
}

// GET /v1/{tenant}/ai/analyze?page=&page_size=
func (r *Router) handleAIAnalyzeList(w http.ResponseWriter, req *http.Request) error {
	if r.aiSvc == nil {
		return fmt.Errorf("ai analysis is not configured")
	}
	tenant := chi.URLParam(req, "tenant")
	page, _ := strconv.Atoi(req.URL.Query().Get("page"))
	size, _ := strconv.Atoi(req.URL.Query().Get("page_size"))

	list, err := r.aiSvc.ListAnalyses(req.Context(), tenant, page, size)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(list)
}
