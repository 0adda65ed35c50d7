// Package server exposes the QAP solver as an HTTP job service: submit an
// instance, poll for progress, cancel if needed. Jobs run one goroutine
// each; the solver itself stays single-threaded.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/copyleftdev/LOBO/internal/config"
	"github.com/copyleftdev/LOBO/internal/qap"
	"github.com/copyleftdev/LOBO/internal/solver"
)

// Job tracks one solve from submission to a terminal state. Fields are
// guarded by the server's job mutex.
type Job struct {
	ID            string
	Status        string // "pending", "running", "completed", "failed", "cancelled"
	StartTime     time.Time
	EndTime       *time.Time
	Iteration     int
	MaxIterations int
	BestCost      *int64
	Result        *solver.Result
	Error         string
	LastUpdated   time.Time

	cancel context.CancelFunc
}

// Server manages solve jobs and their HTTP surface.
type Server struct {
	cfg *config.Config
	log *zap.Logger

	jobs   map[string]*Job
	jobsMu sync.RWMutex
}

// New creates a server with the given config and logger.
func New(cfg *config.Config, log *zap.Logger) *Server {
	return &Server{
		cfg:  cfg,
		log:  log,
		jobs: make(map[string]*Job),
	}
}

// RegisterRoutes mounts the job API under /api/v1.
func (s *Server) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/solve", s.handleSolve)
		r.Get("/solve/{id}", s.handleStatus)
		r.Delete("/solve/{id}", s.handleCancel)
	})
}

// solveRequest is the submission payload: the instance inline plus optional
// search parameters. Omitted parameters fall back to the configured
// defaults; ts_iterations and jitter are pointers so an explicit 0 can
// disable them even when the configured default is non-zero.
type solveRequest struct {
	N        int     `json:"n"`
	Distance [][]int `json:"distance"`
	Flow     [][]int `json:"flow"`
	Params   struct {
		PackSize      int      `json:"pack_size"`
		MaxIterations int      `json:"max_iterations"`
		TSIterations  *int     `json:"ts_iterations"`
		TabuTenure    int      `json:"tabu_tenure"`
		TSEvery       int      `json:"ts_every"`
		Jitter        *float64 `json:"jitter"`
		Seed          int64    `json:"seed"`
	} `json:"params"`
}

func (s *Server) solverConfig(req *solveRequest) solver.Config {
	d := s.cfg.Solver
	cfg := solver.Config{
		PackSize:      req.Params.PackSize,
		MaxIterations: req.Params.MaxIterations,
		TSIterations:  d.TSIterations,
		TabuTenure:    req.Params.TabuTenure,
		TSEvery:       req.Params.TSEvery,
		Jitter:        d.Jitter,
		Seed:          req.Params.Seed,
	}
	if cfg.PackSize == 0 {
		cfg.PackSize = d.PackSize
	}
	if cfg.MaxIterations == 0 {
		cfg.MaxIterations = d.MaxIterations
	}
	if req.Params.TSIterations != nil {
		cfg.TSIterations = *req.Params.TSIterations
	}
	if cfg.TabuTenure == 0 {
		cfg.TabuTenure = d.TabuTenure
	}
	if cfg.TSEvery == 0 {
		cfg.TSEvery = d.TSEvery
	}
	if req.Params.Jitter != nil {
		cfg.Jitter = *req.Params.Jitter
	}
	return cfg
}

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	var req solveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	inst := &qap.Instance{N: req.N, Distance: req.Distance, Flow: req.Flow}
	if err := inst.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	cfg := s.solverConfig(&req)
	cfg.Logger = s.log

	job := &Job{
		ID:            fmt.Sprintf("job_%d", time.Now().UnixNano()),
		Status:        "pending",
		StartTime:     time.Now(),
		MaxIterations: cfg.MaxIterations,
		LastUpdated:   time.Now(),
	}
	cfg.Progress = func(iteration int, bestCost int64, improved bool) {
		s.jobsMu.Lock()
		job.Iteration = iteration
		job.BestCost = &bestCost
		job.LastUpdated = time.Now()
		s.jobsMu.Unlock()
	}

	sv, err := solver.New(inst, cfg)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	job.cancel = cancel

	s.jobsMu.Lock()
	s.jobs[job.ID] = job
	s.jobsMu.Unlock()

	jobsStarted.Inc()
	go s.run(job, sv, ctx)

	// job fields belong to the goroutine now; respond with the literal
	// submission status instead of re-reading them
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]string{
		"job_id": job.ID,
		"status": "pending",
	})
}

// run executes one solve and moves the job to a terminal state.
func (s *Server) run(job *Job, sv *solver.Solver, ctx context.Context) {
	s.jobsMu.Lock()
	job.Status = "running"
	job.LastUpdated = time.Now()
	s.jobsMu.Unlock()

	res, err := sv.Optimize(ctx)
	elapsed := time.Since(job.StartTime)

	s.jobsMu.Lock()
	defer s.jobsMu.Unlock()

	switch {
	case err == context.Canceled:
		job.Status = "cancelled"
	case err != nil:
		job.Status = "failed"
		job.Error = err.Error()
		s.log.Error("solve failed", zap.String("job_id", job.ID), zap.Error(err))
	default:
		job.Status = "completed"
		job.Result = res
		job.BestCost = &res.Cost
		job.Iteration = res.Iterations
		s.log.Info("solve completed",
			zap.String("job_id", job.ID),
			zap.Int64("best_cost", res.Cost),
			zap.Duration("elapsed", elapsed),
		)
	}

	now := time.Now()
	job.EndTime = &now
	job.LastUpdated = now

	jobsCompleted.WithLabelValues(job.Status).Inc()
	solveDuration.Observe(elapsed.Seconds())
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.jobsMu.RLock()
	defer s.jobsMu.RUnlock()

	job, ok := s.jobs[id]
	if !ok {
		s.respondError(w, http.StatusNotFound, "job not found")
		return
	}

	resp := map[string]interface{}{
		"job_id":      job.ID,
		"status":      job.Status,
		"start_time":  job.StartTime.Format(time.RFC3339),
		"last_update": job.LastUpdated.Format(time.RFC3339),
	}
	if job.MaxIterations > 0 {
		resp["progress"] = float64(job.Iteration) / float64(job.MaxIterations)
	}
	if job.EndTime != nil {
		resp["end_time"] = job.EndTime.Format(time.RFC3339)
	}
	if job.BestCost != nil {
		resp["best_cost"] = *job.BestCost
	}
	if job.Result != nil {
		resp["assignment"] = job.Result.Assignment
		resp["initial_cost"] = job.Result.InitialCost
	}
	if job.Error != "" {
		resp["error"] = job.Error
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.jobsMu.Lock()
	defer s.jobsMu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		s.respondError(w, http.StatusNotFound, "job not found")
		return
	}

	switch job.Status {
	case "completed", "failed", "cancelled":
		s.respondError(w, http.StatusConflict, fmt.Sprintf("cannot cancel job with status %s", job.Status))
		return
	}

	if job.cancel != nil {
		job.cancel()
	}
	s.log.Info("job cancellation requested", zap.String("job_id", id))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "cancellation requested"})
}

func (s *Server) respondError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// Close cancels every job that is still running.
func (s *Server) Close() error {
	s.jobsMu.Lock()
	defer s.jobsMu.Unlock()

	for _, job := range s.jobs {
		if job.cancel != nil {
			job.cancel()
		}
	}
	return nil
}
