package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"gazette/internal/article"
	"gazette/internal/config"
	"gazette/internal/document"
	"gazette/internal/fileutil"
	"gazette/internal/ledger"
	"gazette/internal/logging"
	"gazette/internal/retry"
	"gazette/internal/services"
	"gazette/internal/services/gktoday"
	"gazette/internal/services/soffice"
	"gazette/internal/services/telegram"
	"gazette/internal/services/templates"
	"gazette/internal/services/translate"
)

const lockFileName = "gazette.lock"

// Lister enumerates candidate article identifiers.
type Lister interface {
	ListCandidates(ctx context.Context, pages int) ([]string, error)
}

// Normalizer resolves one article into ordered bilingual blocks.
type Normalizer interface {
	Normalize(ctx context.Context, identifier string) ([]article.Block, error)
}

// TemplateFetcher loads the raw template document.
type TemplateFetcher interface {
	Fetch(ctx context.Context, location string) ([]byte, error)
}

// Option overrides one of the orchestrator's collaborators, primarily
// for tests.
type Option func(*Orchestrator)

// WithLister replaces the candidate lister.
func WithLister(l Lister) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.lister = l
		}
	}
}

// WithNormalizer replaces the per-item normalizer.
func WithNormalizer(n Normalizer) Option {
	return func(o *Orchestrator) {
		if n != nil {
			o.normalizer = n
		}
	}
}

// WithTemplateFetcher replaces the template fetcher.
func WithTemplateFetcher(f TemplateFetcher) Option {
	return func(o *Orchestrator) {
		if f != nil {
			o.fetcher = f
		}
	}
}

// WithConverter replaces the document converter.
func WithConverter(c soffice.Converter) Option {
	return func(o *Orchestrator) {
		if c != nil {
			o.converter = c
		}
	}
}

// WithSender replaces the delivery client.
func WithSender(s telegram.Sender) Option {
	return func(o *Orchestrator) {
		if s != nil {
			o.sender = s
		}
	}
}

// WithClock replaces the time source.
func WithClock(clock func() time.Time) Option {
	return func(o *Orchestrator) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// Orchestrator drives one pipeline run end to end.
type Orchestrator struct {
	cfg    *config.Config
	store  *ledger.Store
	logger *slog.Logger

	lister     Lister
	normalizer Normalizer
	fetcher    TemplateFetcher
	converter  soffice.Converter
	sender     telegram.Sender
	clock      func() time.Time
}

// New constructs an orchestrator with live collaborators built from the
// configuration. Options may replace any of them.
func New(cfg *config.Config, store *ledger.Store, logger *slog.Logger, opts ...Option) (*Orchestrator, error) {
	if cfg == nil || store == nil {
		return nil, errors.New("orchestrator requires config and ledger store")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	resolver, err := gktoday.New(
		cfg.Source.BaseURL,
		time.Duration(cfg.Source.RequestTimeout)*time.Second,
		gktoday.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("build source client: %w", err)
	}

	translator, err := translate.New(
		cfg.Translation.Endpoint,
		cfg.Translation.TargetLanguage,
		time.Duration(cfg.Translation.RequestTimeout)*time.Second,
		translate.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("build translator: %w", err)
	}

	normalizer, err := article.NewNormalizer(resolver, translator, cfg.Translation.TargetLanguage)
	if err != nil {
		return nil, fmt.Errorf("build normalizer: %w", err)
	}

	converter, err := soffice.New(cfg.Converter.Binary, cfg.Converter.Timeout)
	if err != nil {
		return nil, fmt.Errorf("build converter: %w", err)
	}

	sender, err := telegram.New(
		cfg.Telegram.BaseURL,
		cfg.Telegram.BotToken,
		cfg.Telegram.ChannelID,
		time.Duration(cfg.Telegram.RequestTimeout)*time.Second,
	)
	if err != nil {
		return nil, fmt.Errorf("build delivery client: %w", err)
	}

	orch := &Orchestrator{
		cfg:        cfg,
		store:      store,
		logger:     logger,
		lister:     resolver,
		normalizer: normalizer,
		fetcher:    templates.NewFetcher(time.Duration(cfg.Source.RequestTimeout) * time.Second),
		converter:  converter,
		sender:     sender,
		clock:      time.Now,
	}
	for _, opt := range opts {
		opt(orch)
	}
	return orch, nil
}

// Run executes one pipeline pass and returns its summary. The returned
// Run is populated on failure as well.
func (o *Orchestrator) Run(ctx context.Context) (*Run, error) {
	run := &Run{
		ID:        uuid.NewString(),
		State:     StateFetching,
		StartedAt: o.clock(),
	}
	ctx = services.WithRunID(ctx, run.ID)
	log := logging.WithContext(ctx, o.logger)

	if err := os.MkdirAll(o.cfg.Paths.StagingDir, 0o755); err != nil {
		return o.fail(run, log, services.Wrap(services.ErrConfiguration, "run", "prepare_staging", "create staging directory", err))
	}

	lock := flock.New(filepath.Join(o.cfg.Paths.StagingDir, lockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return o.fail(run, log, services.Wrap(services.ErrConfiguration, "run", "acquire_lock", "acquire run lock", err))
	}
	if !locked {
		return o.fail(run, log, services.Wrap(services.ErrConfiguration, "run", "acquire_lock", "another run is already in progress", nil))
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			log.Warn("failed to release run lock", logging.Error(err))
		}
	}()

	runDir := filepath.Join(o.cfg.Paths.StagingDir, "run-"+run.ID)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return o.fail(run, log, services.Wrap(services.ErrConfiguration, "run", "prepare_staging", "create run directory", err))
	}
	defer func() {
		if err := os.RemoveAll(runDir); err != nil {
			log.Warn("failed to remove run directory", logging.String("dir", runDir), logging.Error(err))
		}
	}()

	// FETCHING
	log.Info("listing candidates", logging.Int("pages", o.cfg.Source.Pages))
	candidates, err := o.lister.ListCandidates(ctx, o.cfg.Source.Pages)
	if err != nil {
		return o.fail(run, log, err)
	}
	run.ItemsConsidered = len(candidates)

	// FILTERING
	run.State = StateFiltering
	accepted, err := o.filterCandidates(ctx, log, candidates)
	if err != nil {
		return o.fail(run, log, err)
	}
	run.ItemsAccepted = len(accepted)
	if len(accepted) == 0 {
		log.Info("no new articles found", logging.Int("considered", run.ItemsConsidered))
		return o.finish(run, log), nil
	}

	// PROCESSING
	run.State = StateProcessing
	blocks, processed := o.processItems(ctx, log, accepted)
	run.ItemsProcessed = processed
	run.BlocksProduced = len(blocks)
	if len(blocks) == 0 {
		log.Warn("no article produced content", logging.Int("accepted", run.ItemsAccepted))
		return o.finish(run, log), nil
	}

	// RENDERING
	run.State = StateRendering
	artifact, err := o.render(ctx, log, runDir, blocks)
	if err != nil {
		return o.fail(run, log, err)
	}
	run.ArtifactPath = artifact

	// DELIVERING
	run.State = StateDelivering
	attempts, err := o.deliver(ctx, log, artifact)
	run.DeliveryAttempts = attempts
	if err != nil {
		return o.fail(run, log, err)
	}

	log.Info("run completed",
		logging.Int("considered", run.ItemsConsidered),
		logging.Int("accepted", run.ItemsAccepted),
		logging.Int("blocks", run.BlocksProduced),
		logging.Int("delivery_attempts", run.DeliveryAttempts),
	)
	return o.finish(run, log), nil
}

// TestDelivery sends a short status message through the delivery channel.
func (o *Orchestrator) TestDelivery(ctx context.Context) error {
	return o.sender.SendMessage(ctx, "gazette delivery test: configuration is working")
}

// filterCandidates drops non-article candidates and claims the remainder
// in the ledger. Previously seen identifiers are skipped.
func (o *Orchestrator) filterCandidates(ctx context.Context, log *slog.Logger, candidates []string) ([]string, error) {
	accepted := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		if o.cfg.Source.SkipPattern != "" && strings.Contains(candidate, o.cfg.Source.SkipPattern) {
			log.Debug("skipping non-article candidate", logging.String(logging.FieldItem, candidate))
			continue
		}
		fresh, err := o.store.MarkNew(ctx, candidate)
		if err != nil {
			return nil, services.Wrap(services.ErrLedger, "filter", "mark_new", fmt.Sprintf("claim %s", candidate), err)
		}
		if !fresh {
			log.Debug("skipping already delivered article", logging.String(logging.FieldItem, candidate))
			continue
		}
		accepted = append(accepted, candidate)
	}
	return accepted, nil
}

// processItems normalizes the accepted items with a bounded worker pool.
// Per-item failures are logged and dropped. The combined block list keeps
// item order and carries a run-wide order sequence.
func (o *Orchestrator) processItems(ctx context.Context, log *slog.Logger, items []string) ([]article.Block, int) {
	workers := o.cfg.Workflow.ItemWorkers
	if workers < 1 {
		workers = 1
	}
	if workers > len(items) {
		workers = len(items)
	}

	results := make([][]article.Block, len(items))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i, identifier := range items {
		wg.Add(1)
		go func(idx int, id string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			itemCtx := services.WithItem(ctx, id)
			blocks, err := o.normalizer.Normalize(itemCtx, id)
			if err != nil {
				log.Warn("dropping article",
					logging.String(logging.FieldItem, id),
					logging.Error(err),
				)
				return
			}
			results[idx] = blocks
		}(i, identifier)
	}
	wg.Wait()

	processed := 0
	var combined []article.Block
	for _, blocks := range results {
		if len(blocks) == 0 {
			continue
		}
		processed++
		for _, block := range blocks {
			block.Order = len(combined)
			combined = append(combined, block)
		}
	}
	return combined, processed
}

// render splices the blocks into a fresh template copy, saves the mutated
// document in the run directory, and converts it to the final artifact.
func (o *Orchestrator) render(ctx context.Context, log *slog.Logger, runDir string, blocks []article.Block) (string, error) {
	raw, err := o.fetcher.Fetch(ctx, o.cfg.Template.Location)
	if err != nil {
		return "", err
	}
	tpl, err := document.Load(bytes.NewReader(raw))
	if err != nil {
		return "", services.Wrap(services.ErrValidation, "render", "load_template", "parse template", err)
	}
	if err := tpl.Insert(blocks); err != nil {
		return "", err
	}

	odtPath := filepath.Join(runDir, "digest.odt")
	if err := tpl.SaveFile(odtPath); err != nil {
		return "", services.Wrap(services.ErrValidation, "render", "save_document", "write mutated document", err)
	}

	pdfPath, err := o.converter.Convert(ctx, odtPath, runDir)
	if err != nil {
		return "", err
	}

	artifact := filepath.Join(runDir, artifactName(o.clock()))
	if err := fileutil.MoveFile(pdfPath, artifact); err != nil {
		return "", services.Wrap(services.ErrValidation, "render", "finalize_artifact", "rename artifact", err)
	}
	log.Info("artifact rendered", logging.String("artifact", filepath.Base(artifact)))
	return artifact, nil
}

// deliver sends the artifact with bounded retry. Only transient failures
// consume additional attempts.
func (o *Orchestrator) deliver(ctx context.Context, log *slog.Logger, artifact string) (int, error) {
	caption := fmt.Sprintf("Current Affairs %s", o.clock().Format("02 January 2006"))
	policy := retry.Policy{
		MaxAttempts: o.cfg.Delivery.MaxAttempts,
		Delay:       time.Duration(o.cfg.Delivery.RetryDelaySec) * time.Second,
		Retryable:   services.IsRetryable,
	}
	attempts, err := policy.Do(ctx, func(ctx context.Context) error {
		sendErr := o.sender.SendDocument(ctx, artifact, caption)
		if sendErr != nil {
			log.Warn("delivery attempt failed", logging.Error(sendErr))
		}
		return sendErr
	})
	return attempts, err
}

func (o *Orchestrator) finish(run *Run, log *slog.Logger) *Run {
	run.State = StateDone
	run.FinishedAt = o.clock()
	log.Info("run finished",
		logging.String("state", string(run.State)),
		logging.Duration("duration", run.Duration()),
	)
	return run
}

func (o *Orchestrator) fail(run *Run, log *slog.Logger, err error) (*Run, error) {
	stage := run.State
	run.State = StateFailed
	run.FinishedAt = o.clock()
	log.Error("run failed",
		logging.String("stage", string(stage)),
		logging.Error(err),
	)
	return run, err
}

// artifactName produces the final document name, stamped to the second.
func artifactName(now time.Time) string {
	return "Article_" + now.Format("20060102_150405") + ".pdf"
}
