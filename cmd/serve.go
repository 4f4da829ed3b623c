package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/siterisk-cli/internal/model"
	"github.com/sells-group/siterisk-cli/internal/report"
	"github.com/sells-group/siterisk-cli/internal/scorer"
	"github.com/sells-group/siterisk-cli/internal/source"
	"github.com/sells-group/siterisk-cli/internal/spec"
)

var servePort int

type scoreRequest struct {
	Address     string   `json:"address"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	RadiusMiles *float64 `json:"radius_miles"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// querySiteSpec builds a site filter from request query parameters.
func querySiteSpec(r *http.Request) (spec.Spec[model.Site], error) {
	var specs []spec.Spec[model.Site]
	q := r.URL.Query()

	if state := q.Get("state"); state != "" {
		specs = append(specs, spec.State[model.Site](state))
	}
	if status := q.Get("status"); status != "" {
		specs = append(specs, spec.Status[model.Site](status))
	}
	if q.Get("unremediated") == "true" {
		specs = append(specs, spec.Unremediated[model.Site]())
	}
	if typ := q.Get("type"); typ != "" {
		specs = append(specs, spec.TypeContains[model.Site](typ))
	}

	if len(specs) == 0 {
		return nil, nil
	}
	composed := specs[0]
	for _, s := range specs[1:] {
		composed = spec.And(composed, s)
	}
	return composed, nil
}

func newRouter(s *scorer.Scorer, src source.Source) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/v1/score", func(w http.ResponseWriter, r *http.Request) {
		var req scoreRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Address == "" && (req.Latitude == nil || req.Longitude == nil) {
			writeError(w, http.StatusBadRequest, "address or latitude+longitude required")
			return
		}

		result, err := s.Score(r.Context(), scorer.Request{
			Address:     req.Address,
			Latitude:    req.Latitude,
			Longitude:   req.Longitude,
			RadiusMiles: req.RadiusMiles,
		})
		if err != nil {
			zap.L().Warn("score request failed", zap.Error(err))
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, result)
	})

	r.Post("/v1/batch", func(w http.ResponseWriter, r *http.Request) {
		policies, err := src.Policies(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		scores, err := s.ScoreAll(r.Context(), policies)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, scores)
	})

	r.Get("/v1/sites", func(w http.ResponseWriter, r *http.Request) {
		filter, err := querySiteSpec(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		var sites []model.Site
		if filter == nil {
			sites, err = src.Sites(r.Context())
		} else {
			sites, err = src.FilterSites(r.Context(), filter)
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, sites)
	})

	r.Get("/v1/sites.geojson", func(w http.ResponseWriter, r *http.Request) {
		filter, err := querySiteSpec(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		var sites []model.Site
		if filter == nil {
			sites, err = src.Sites(r.Context())
		} else {
			sites, err = src.FilterSites(r.Context(), filter)
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		w.Header().Set("Content-Type", "application/geo+json")
		if err := report.SitesGeoJSON(w, sites); err != nil {
			zap.L().Error("geojson encode failed", zap.Error(err))
		}
	})

	return r
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the scoring HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		s, src, err := initScorer(ctx)
		if err != nil {
			return err
		}
		defer src.Close()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(s, src),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			_ = srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
