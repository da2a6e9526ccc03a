package app

import (
	"context"

	"github.com/maxbolgarin/contem"
	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/logze/v2"
	"github.com/maxbolgarin/shipcheck/internal/config"
	"github.com/maxbolgarin/shipcheck/internal/delta"
	"github.com/maxbolgarin/shipcheck/internal/model"
	"github.com/maxbolgarin/shipcheck/internal/model/interfaces"
	"github.com/maxbolgarin/shipcheck/internal/provider"
	"github.com/maxbolgarin/shipcheck/internal/server"
	"github.com/maxbolgarin/shipcheck/internal/testrun/testlodge"
	"github.com/maxbolgarin/shipcheck/internal/tracker/jira"
)

// Shipcheck is the main service that wires sources, analyzer and server
type Shipcheck struct {
	commits  interfaces.CommitSource
	issues   interfaces.IssueSource
	testRuns interfaces.TestRunSource
	analyzer *delta.Analyzer
	server   *server.Server

	cfg config.Config
	log logze.Logger
}

// New creates a new release report service
func New(ctx contem.Context, cfg config.Config) (*Shipcheck, error) {
	service := &Shipcheck{
		cfg: cfg,
		log: logze.With("component", "app"),
	}

	if err := service.init(ctx, cfg); err != nil {
		return nil, errm.Wrap(err, "failed to initialize service")
	}

	return service, nil
}

// BuildReport builds the release report for base..head
func (s *Shipcheck) BuildReport(ctx context.Context, base, head string) (*model.ReleaseReport, error) {
	return s.analyzer.BuildReport(ctx, base, head)
}

// StartServer starts serving reports over HTTP
func (s *Shipcheck) StartServer(ctx context.Context) error {
	if err := s.server.Start(ctx); err != nil {
		return errm.Wrap(err, "failed to start server")
	}
	s.log.Info("report server started", "address", s.cfg.Server.Address)
	return nil
}

func (s *Shipcheck) init(ctx contem.Context, cfg config.Config) (err error) {

	s.commits, err = provider.NewCommitSource(cfg.Provider)
	if err != nil {
		return errm.Wrap(err, "failed to create commit source")
	}

	if cfg.JiraEnabled() {
		client, err := jira.New(cfg.Jira)
		if err != nil {
			return errm.Wrap(err, "failed to create jira client")
		}
		s.issues = client
	} else {
		s.log.Warn("jira is not configured, issue metadata will be missing")
	}

	if cfg.TestLodgeEnabled() {
		client, err := testlodge.New(cfg.TestLodge)
		if err != nil {
			return errm.Wrap(err, "failed to create testlodge client")
		}
		s.testRuns = client
	}

	s.analyzer, err = delta.New(cfg.Delta, s.commits, s.issues, s.testRuns)
	if err != nil {
		return errm.Wrap(err, "failed to create analyzer")
	}
	ctx.Add(func(context.Context) error {
		s.analyzer.Close()
		return nil
	})

	s.server, err = server.New(cfg.Server, s.analyzer)
	if err != nil {
		return errm.Wrap(err, "failed to create server")
	}
	ctx.Add(s.server.Stop)

	return nil
}
