package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/scoutgrid/jobharvest/internal/config"
	"github.com/scoutgrid/jobharvest/internal/model"
	"github.com/scoutgrid/jobharvest/internal/scrape"
	"github.com/scoutgrid/jobharvest/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Expose the scrape operation over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		agg, err := newAggregator()
		if err != nil {
			return err
		}

		var st store.Store
		if cfg.Store.Enabled {
			st, err = initStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck
			if err := st.Migrate(ctx); err != nil {
				return err
			}
		}

		api := &apiServer{agg: agg, st: st, defaults: cfg.Scrape}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           api.routes(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// apiServer holds the HTTP handler dependencies.
type apiServer struct {
	agg      *scrape.Aggregator
	st       store.Store // nil when run recording is disabled
	defaults config.ScrapeConfig
}

func (s *apiServer) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet},
	}))

	r.Get("/scrape", s.handleScrape)
	r.Get("/health", s.handleHealth)
	r.Get("/runs", s.handleRuns)
	return r
}

func (s *apiServer) handleScrape(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	params := scrape.Params{
		Keywords:      parseKeywords(q.Get("keywords")),
		Location:      s.defaults.Location,
		ResultsWanted: s.defaults.ResultsWanted,
		HoursOld:      s.defaults.HoursOld,
	}
	if loc := q.Get("location"); loc != "" {
		params.Location = loc
	}
	if v := q.Get("results"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeJSON(w, http.StatusBadRequest, model.NewEnvelope(params.Keywords, params.Location, nil))
			return
		}
		params.ResultsWanted = n
	}
	if v := q.Get("hours_old"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, model.NewEnvelope(params.Keywords, params.Location, nil))
			return
		}
		params.HoursOld = n
	}

	if len(params.Keywords) == 0 {
		zap.L().Warn("scrape request without keywords")
		writeJSON(w, http.StatusBadRequest, model.NewEnvelope(nil, params.Location, nil))
		return
	}

	env := s.agg.Run(r.Context(), params)
	writeJSON(w, http.StatusOK, env)

	if s.st != nil {
		s.record(r.Context(), env)
	}
}

func (s *apiServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *apiServer) handleRuns(w http.ResponseWriter, r *http.Request) {
	if s.st == nil {
		http.Error(w, `{"error":"run history store is not enabled"}`, http.StatusNotFound)
		return
	}

	filter := store.RunFilter{
		Status:  r.URL.Query().Get("status"),
		Keyword: r.URL.Query().Get("keyword"),
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			filter.Limit = n
		}
	}

	runs, err := s.st.ListRuns(r.Context(), filter)
	if err != nil {
		zap.L().Error("list runs failed", zap.Error(err))
		http.Error(w, `{"error":"list runs failed"}`, http.StatusInternalServerError)
		return
	}
	if runs == nil {
		runs = []model.Run{}
	}
	writeJSON(w, http.StatusOK, runs)
}

// record persists a served scrape. Best-effort, mirrors the CLI path.
func (s *apiServer) record(ctx context.Context, env *model.Envelope) {
	raw, err := json.Marshal(env)
	if err != nil {
		zap.L().Warn("run recording failed", zap.Error(err))
		return
	}
	run := &model.Run{
		Keywords:  env.Keywords,
		Location:  env.Location,
		Status:    env.Status,
		TotalJobs: env.TotalJobs,
		Envelope:  raw,
	}
	if err := s.st.SaveRun(ctx, run); err != nil {
		zap.L().Warn("run recording failed", zap.Error(err))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("write response failed", zap.Error(err))
	}
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
