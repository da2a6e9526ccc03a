package delta

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/maxbolgarin/abstract"
	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/erro"
	"github.com/maxbolgarin/lang"
	"github.com/maxbolgarin/logze/v2"
	"github.com/maxbolgarin/shipcheck/internal/model"
	"github.com/maxbolgarin/shipcheck/internal/model/interfaces"
	"github.com/panjf2000/ants/v2"
	"golang.org/x/time/rate"
)

// Analyzer builds release readiness reports for a range of commits
type Analyzer struct {
	commits  interfaces.CommitSource
	issues   interfaces.IssueSource
	testRuns interfaces.TestRunSource

	extractor  *Extractor
	classifier *Classifier
	aggregator *IssueAggregator
	pool       *ants.Pool
	limiter    *rate.Limiter

	cfg Config
	log logze.Logger
}

// New creates a new analyzer. issues and testRuns are optional.
func New(cfg Config, commits interfaces.CommitSource, issues interfaces.IssueSource, testRuns interfaces.TestRunSource) (*Analyzer, error) {
	if err := cfg.PrepareAndValidate(); err != nil {
		return nil, erro.Wrap(err, "failed to prepare and validate config")
	}
	if commits == nil {
		return nil, errNoCommitSource
	}

	extractor, err := NewExtractor(cfg.ProjectKeys)
	if err != nil {
		return nil, erro.Wrap(err, "failed to create extractor")
	}

	pool, err := ants.NewPool(cfg.PoolSize)
	if err != nil {
		return nil, erro.Wrap(err, "failed to create ants pool")
	}

	a := &Analyzer{
		commits:    commits,
		issues:     issues,
		testRuns:   testRuns,
		extractor:  extractor,
		classifier: NewClassifier(cfg.MigrationKeywords),
		aggregator: NewIssueAggregator(extractor, cfg.CompletedStatuses),
		pool:       pool,
		cfg:        cfg,
		log:        logze.With("component", "delta_analyzer"),
	}

	if cfg.DetailRateLimit > 0 {
		a.limiter = rate.NewLimiter(rate.Limit(cfg.DetailRateLimit), 1)
	}

	return a, nil
}

// Close releases the worker pool
func (a *Analyzer) Close() {
	a.pool.Release()
}

// BuildReport analyzes the commits of head that are not in base.
// Empty base or head fall back to configured defaults.
// Any collaborator failure aborts the build.
func (a *Analyzer) BuildReport(ctx context.Context, base, head string) (*model.ReleaseReport, error) {
	base = lang.Check(strings.TrimSpace(base), a.cfg.Base)
	head = lang.Check(strings.TrimSpace(head), a.cfg.Head)
	if base == "" || head == "" {
		return nil, ErrEmptyRange
	}

	timer := abstract.StartTimer()
	log := a.log.WithFields("base", base, "head", head)

	cmp, notes, err := a.loadComparison(ctx, base, head, log)
	if err != nil {
		return nil, err
	}

	report := &model.ReleaseReport{
		Base:       base,
		Head:       head,
		Comparison: *cmp,
	}

	messages := make([]string, 0, len(cmp.Commits))
	for _, commit := range cmp.Commits {
		messages = append(messages, commit.FullMessage())
	}

	fetchComparison := func(ctx context.Context, base, head string) (*model.Comparison, error) {
		out, err := a.commits.GetComparison(ctx, base, head)
		if err != nil {
			return nil, err
		}
		if out == nil {
			return nil, errEmptyComparison
		}
		out.MergeNotes(notes)
		return out, nil
	}

	waiterSet := abstract.NewWaiterSet(log)
	waiterSet.Add(ctx, func(ctx context.Context) error {
		details, err := a.fetchDetails(ctx, cmp.Commits)
		if err != nil {
			return err
		}
		report.Migration = a.classifier.ClassifyRange(details)
		return nil
	})
	waiterSet.Add(ctx, func(ctx context.Context) error {
		summary, err := a.aggregator.Aggregate(ctx, messages, a.fetchIssues)
		if err != nil {
			return err
		}
		report.Issues = summary
		return nil
	})
	waiterSet.Add(ctx, func(ctx context.Context) error {
		divergence, err := AnalyzeDivergence(ctx, cmp, base, head, fetchComparison)
		if err != nil {
			return err
		}
		report.Divergence = divergence
		return nil
	})
	if a.testRuns != nil {
		waiterSet.Add(ctx, func(ctx context.Context) error {
			runs, err := a.testRuns.GetTestRunInfo(ctx)
			if err != nil {
				return erro.Wrap(err, "failed to get test run info")
			}
			report.TestRuns = runs
			return nil
		})
	}
	if err := waiterSet.Await(ctx); err != nil {
		return nil, erro.Wrap(err, "failed to analyze commit range")
	}

	if linker, ok := a.issues.(interfaces.IssueLinker); ok {
		keys := append(report.Issues.Keys(), report.Issues.MissingKeys...)
		if len(keys) > 0 {
			report.Issues.SearchURL = linker.SearchURL(keys)
		}
	}

	report.Commits = a.annotate(cmp.Commits, report.Migration, report.Issues)
	report.Checks = BuildChecks(report, a.cfg.ManualChecks)
	report.GeneratedAt = time.Now()

	log.Info("release report built",
		"status", cmp.Status,
		"commits", len(cmp.Commits),
		"issues", len(report.Issues.Issues),
		"migration", report.Migration.Flag,
		"action_needed", report.Divergence.ActionNeeded,
		"elapsed_time", timer.ElapsedTime().String(),
	)

	return report, nil
}

func (a *Analyzer) loadComparison(ctx context.Context, base, head string, log logze.Logger) (*model.Comparison, map[string]string, error) {
	var (
		cmp   *model.Comparison
		notes map[string]string
	)

	waiterSet := abstract.NewWaiterSet(log)
	waiterSet.Add(ctx, func(ctx context.Context) error {
		timer := abstract.StartTimer()
		out, err := a.commits.GetComparison(ctx, base, head)
		if err != nil {
			return erro.Wrap(err, "failed to get comparison")
		}
		if out == nil {
			return errEmptyComparison
		}
		cmp = out
		log.DebugIf(a.cfg.Verbose, "loaded comparison", "status", out.Status, "commits", len(out.Commits), "elapsed", timer.ElapsedTime().String())
		return nil
	})
	if notesSource, ok := a.commits.(interfaces.NotesSource); ok {
		waiterSet.Add(ctx, func(ctx context.Context) error {
			timer := abstract.StartTimer()
			out, err := notesSource.GetNotes(ctx)
			if err != nil {
				return erro.Wrap(err, "failed to get git notes")
			}
			notes = out
			log.DebugIf(a.cfg.Verbose, "loaded git notes", "notes", len(out), "elapsed", timer.ElapsedTime().String())
			return nil
		})
	}
	if err := waiterSet.Await(ctx); err != nil {
		return nil, nil, erro.Wrap(err, "failed to load comparison")
	}

	cmp.Normalize()
	cmp.MergeNotes(notes)

	return cmp, notes, nil
}

// fetchDetails loads changed files of every commit on the pool, keeping commit order
func (a *Analyzer) fetchDetails(ctx context.Context, commits []model.CommitRef) ([]model.CommitDetail, error) {
	timer := abstract.StartTimer()

	details := make([]model.CommitDetail, len(commits))
	failures := make([]error, len(commits))

	var wg sync.WaitGroup
	for i, commit := range commits {
		wg.Add(1)
		err := a.pool.Submit(func() {
			defer wg.Done()
			if a.limiter != nil {
				if err := a.limiter.Wait(ctx); err != nil {
					failures[i] = err
					return
				}
			}
			detail, err := a.commits.GetCommitDetail(ctx, commit)
			if err != nil {
				failures[i] = err
				return
			}
			details[i] = *detail
		})
		if err != nil {
			wg.Done()
			failures[i] = err
		}
	}
	wg.Wait()

	errs := errm.NewList()
	for i, err := range failures {
		if err != nil {
			errs.Wrap(err, "failed to get commit detail", "sha", lang.TruncateString(commits[i].SHA, 8))
		}
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	a.log.DebugIf(a.cfg.Verbose, "loaded commit details", "commits", len(commits), "elapsed", timer.ElapsedTime().String())

	return details, nil
}

func (a *Analyzer) fetchIssues(ctx context.Context, keys []string) ([]model.IssueInfo, error) {
	if a.issues == nil {
		return nil, nil
	}
	infos, err := a.issues.GetIssueInfos(ctx, keys)
	if err != nil {
		return nil, erro.Wrap(err, "failed to get issue infos")
	}
	return infos, nil
}

func (a *Analyzer) annotate(commits []model.CommitRef, migration model.MigrationResult, issues model.IssueSummary) []model.CommitAnnotation {
	migrations := make(map[string]struct{}, len(migration.Commits))
	for _, commit := range migration.Commits {
		migrations[commit.SHA] = struct{}{}
	}

	issueLinker, _ := a.issues.(interfaces.IssueLinker)
	prLinker, _ := a.commits.(interfaces.PullRequestLinker)

	out := make([]model.CommitAnnotation, 0, len(commits))
	for _, commit := range commits {
		tokens := a.extractor.Tokens(commit.Message)
		for i := range tokens {
			switch {
			case tokens[i].Kind == model.TokenIssue && issueLinker != nil:
				tokens[i].URL = issueLinker.IssueURL(tokens[i].Value)
			case tokens[i].Kind == model.TokenPullRequest && prLinker != nil:
				tokens[i].URL = prLinker.PullRequestURL(tokens[i].Value)
			}
		}

		annotation := model.CommitAnnotation{Commit: commit, Tokens: tokens}
		_, annotation.IsMigration = migrations[commit.SHA]

		if key, ok := a.extractor.FirstIssueKey(commit.FullMessage()); ok {
			if info, ok := issues.ByKey[key]; ok {
				annotation.Issue = &info
			}
		}

		out = append(out, annotation)
	}

	return out
}
