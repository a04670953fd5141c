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

	"github.com/norden-group/locintel-cli/internal/model"
	"github.com/norden-group/locintel-cli/internal/resolve"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the resolved dataset as JSON for the map/table UI",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		r := chi.NewRouter()
		r.Use(middleware.RequestID)
		r.Use(middleware.Recoverer)
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{http.MethodGet},
		}))

		r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
		})

		r.Get("/api/resolve", func(w http.ResponseWriter, req *http.Request) {
			filter := filterFromQuery(req)

			// Each request is one pipeline run with its own enricher, so
			// the geocode cache never leaks across requests.
			dataset, stats, resolveErr := env.Pipeline().Resolve(req.Context(), filter)
			if resolveErr != nil {
				zap.L().Error("serve: resolution failed", zap.Error(resolveErr))
				http.Error(w, `{"error":"resolution failed"}`, http.StatusInternalServerError)
				return
			}

			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(resolveResponse{
				Dataset: dataset,
				Stats:   stats,
			})
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		}

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

// resolveResponse is the JSON payload handed to the presentation layer.
type resolveResponse struct {
	Dataset *model.Dataset `json:"dataset"`
	Stats   *resolve.Stats `json:"stats"`
}

// filterFromQuery reads the filter from request query parameters.
func filterFromQuery(req *http.Request) model.Filter {
	q := req.URL.Query()
	filter := model.Filter{
		PropertyType: q.Get("type"),
		City:         q.Get("city"),
	}
	if v, err := strconv.Atoi(q.Get("min_size")); err == nil {
		filter.MinSize = v
	}
	if v, err := strconv.Atoi(q.Get("max_size")); err == nil {
		filter.MaxSize = v
	}
	return filter
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
