package main

import (
	"context"
	"os"

	"github.com/alecthomas/kingpin/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/maxbolgarin/contem"
	"github.com/maxbolgarin/erro"
	"github.com/maxbolgarin/logze/v2"
	"github.com/maxbolgarin/shipcheck/internal/app"
	"github.com/maxbolgarin/shipcheck/internal/config"
)

var (
	Version, Branch, Commit, BuildDate string
)

var (
	configPath = kingpin.Flag("config", "path to config file").Short('c').String()
	verbose    = kingpin.Flag("verbose", "enable debug logs").Short('v').Bool()

	serveCmd = kingpin.Command("serve", "serve release reports over HTTP")

	reportCmd  = kingpin.Command("report", "build a release report and print the checklist").Default()
	reportBase = reportCmd.Flag("base", "base branch, defaults to delta.base").String()
	reportHead = reportCmd.Flag("head", "head branch, defaults to delta.head").String()
	reportOut  = reportCmd.Flag("out", "write the report as JSON to this file").Short('o').String()
)

func main() {
	kingpin.Version(Version + " (" + Branch + "@" + Commit + ", " + BuildDate + ")")
	command := kingpin.Parse()

	var err error
	ctx := contem.New(contem.WithLogger(logze.DefaultPtr()), contem.Exit(&err))
	defer ctx.Shutdown()
	err = run(ctx, command)
	if err != nil {
		logze.DefaultPtr().Error("cannot run", "error", err)
	}
}

func run(ctx contem.Context, command string) error {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return erro.Wrap(err, "load config")
	}
	level := logze.LevelInfo
	if *verbose {
		level = logze.LevelDebug
		cfg.Delta.Verbose = true
	}
	logze.Init(logze.C().WithConsole().WithLevel(level))

	shipcheck, err := app.New(ctx, cfg)
	if err != nil {
		return erro.Wrap(err, "new app")
	}

	switch command {
	case serveCmd.FullCommand():
		if err := shipcheck.StartServer(ctx); err != nil {
			return erro.Wrap(err, "start server")
		}
		<-ctx.Done()
		return nil

	case reportCmd.FullCommand():
		return runReport(ctx, shipcheck)
	}

	return nil
}

func runReport(ctx context.Context, shipcheck *app.Shipcheck) error {
	report, err := shipcheck.BuildReport(ctx, *reportBase, *reportHead)
	if err != nil {
		return erro.Wrap(err, "build report")
	}

	if err := app.WriteSummary(os.Stdout, report); err != nil {
		return erro.Wrap(err, "write summary")
	}

	if *reportOut == "" {
		return nil
	}
	data, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(report, "", "  ")
	if err != nil {
		return erro.Wrap(err, "encode report")
	}
	if err := os.WriteFile(*reportOut, data, 0o644); err != nil {
		return erro.Wrap(err, "write report")
	}

	return nil
}
