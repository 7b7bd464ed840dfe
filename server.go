package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/chazu/airframe/pkg/fuselage"
	"github.com/chazu/airframe/pkg/logging"
	"github.com/chazu/airframe/pkg/report"
	"github.com/spf13/cobra"
)

// maxScriptBytes bounds POST /evaluate bodies.
const maxScriptBytes = 1 << 20

var serveOpts struct {
	addr string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve fuselage computations and Prometheus metrics over HTTP",
	Long: `Serve fuselage computations over HTTP.

  GET  /aircraft                          reference aircraft IDs
  GET  /compute?aircraft=ATR72&method=    report as JSON or text (&format=text)
  POST /evaluate                          evaluate a fuselage script body
  GET  /metrics                           Prometheus metrics`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		srv := &http.Server{
			Addr:              serveOpts.addr,
			Handler:           newMux(app),
			ReadHeaderTimeout: 10 * time.Second,
		}
		errc := make(chan error, 1)
		go func() {
			log.Info(ctx, "serving fuselage API", logging.String("addr", serveOpts.addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errc <- err
			}
			close(errc)
		}()

		select {
		case err := <-errc:
			return err
		case <-ctx.Done():
		}

		log.Info(context.Background(), "shutting down fuselage API")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveOpts.addr, "addr", ":8080", "HTTP listen address")
	rootCmd.AddCommand(serveCmd)
}

func newMux(a *App) *http.ServeMux {
	mux := http.NewServeMux()
	if collector != nil {
		mux.Handle("GET /metrics", collector.Handler())
	}
	mux.HandleFunc("GET /aircraft", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, fuselage.ReferenceAircraftIDs())
	})
	mux.HandleFunc("GET /compute", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		format := q.Get("format")
		if format == "" {
			format = "json"
		}
		contentType, err := report.ContentType(format)
		if err != nil {
			writeError(w, statusFor(err), err)
			return
		}
		sel := Selection{Aircraft: q.Get("aircraft"), Method: q.Get("method")}
		_, rep, err := a.Report(r.Context(), sel)
		if err != nil {
			writeError(w, statusFor(err), err)
			return
		}
		w.Header().Set("Content-Type", contentType)
		if err := rep.Write(w, format, q.Get("stations") == "true"); err != nil {
			a.log.Warn(r.Context(), "write report failed", logging.Err(err))
		}
	})
	mux.HandleFunc("POST /evaluate", func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxScriptBytes+1))
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		if len(body) > maxScriptBytes {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Errorf("script exceeds %d bytes", maxScriptBytes))
			return
		}
		res := a.Evaluate(r.Context(), string(body))
		status := http.StatusOK
		if len(res.Errors) > 0 {
			status = http.StatusUnprocessableEntity
		}
		writeJSON(w, status, res)
	})
	return mux
}

func statusFor(err error) int {
	if errors.Is(err, fuselage.ErrInvalidParameter) || errors.Is(err, report.ErrUnknownFormat) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
