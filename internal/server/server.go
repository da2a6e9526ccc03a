package server

import (
	"context"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/maxbolgarin/erro"
	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/logze/v2"
	"github.com/maxbolgarin/servex/v2"
	"github.com/maxbolgarin/shipcheck/internal/delta"
	"github.com/maxbolgarin/shipcheck/internal/model"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ReportBuilder builds a release report for a commit range
type ReportBuilder interface {
	BuildReport(ctx context.Context, base, head string) (*model.ReleaseReport, error)
}

// Server exposes release reports over HTTP
type Server struct {
	builder ReportBuilder
	config  Config
	log     logze.Logger
	server  *servex.Server
}

// New creates a new report server
func New(cfg Config, builder ReportBuilder) (*Server, error) {
	if err := cfg.PrepareAndValidate(); err != nil {
		return nil, erro.Wrap(err, "validate config")
	}

	log := logze.With("module", "server")

	server, err := servex.NewServer(
		servex.WithReadTimeout(cfg.Timeout),
		servex.WithIdleTimeout(cfg.Timeout*2),
		servex.WithLogger(log),
		servex.WithHealthEndpoint(),
		servex.WithDefaultMetrics(),
		servex.WithCertificate(cfg.Certificate),
	)
	if err != nil {
		return nil, erro.Wrap(err, "failed to create server")
	}

	h := &Server{
		builder: builder,
		config:  cfg,
		log:     log,
		server:  server,
	}

	server.HandleFunc(cfg.Endpoint, h.handleReport)

	return h, nil
}

// Start starts the report server
func (h *Server) Start(ctx context.Context) error {
	if h.config.EnableHTTPS {
		return h.server.StartHTTPS(h.config.Address)
	}
	return h.server.StartHTTP(h.config.Address)
}

// Stop stops the report server
func (h *Server) Stop(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}

// handleReport builds the report for ?base=&head= and writes it as JSON
func (h *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	ctx := servex.NewContext(w, r)

	if r.Method != http.MethodGet {
		ctx.Response(http.StatusMethodNotAllowed)
		return
	}

	query := r.URL.Query()
	base, head := query.Get("base"), query.Get("head")

	report, err := h.builder.BuildReport(r.Context(), base, head)
	if err != nil {
		if errm.Is(err, delta.ErrEmptyRange) {
			ctx.BadRequest(err, "base and head are required")
			return
		}
		ctx.InternalServerError(err, "failed to build report")
		return
	}

	body, err := json.Marshal(report)
	if err != nil {
		ctx.InternalServerError(err, "failed to encode report")
		return
	}

	h.log.Info("served release report", "base", report.Base, "head", report.Head, "commits", len(report.Commits))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		h.log.Err(err, "failed to write report")
	}
}
