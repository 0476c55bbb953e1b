// Package molecule provides the application-level parse service.  It sits
// between the HTTP, CLI and worker front ends and the SMILES parser, adding
// input limits, result caching, metrics and logging.
package molecule

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/turtacn/smiles-parser/internal/config"
	rediscache "github.com/turtacn/smiles-parser/internal/infrastructure/database/redis"
	"github.com/turtacn/smiles-parser/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/smiles-parser/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/smiles-parser/pkg/errors"
	"github.com/turtacn/smiles-parser/pkg/smiles"
	moltypes "github.com/turtacn/smiles-parser/pkg/types/molecule"
)

// Service defines the parse operations exposed to the interface layer.
type Service interface {
	// Parse validates and parses one SMILES string.  Failures are *errors.AppError
	// values; parse failures wrap the *smiles.ParseError.
	Parse(ctx context.Context, input string) (*moltypes.MoleculeDTO, error)

	// ParseBatch parses every item independently.  Item failures are reported
	// per item; the returned error is only set when the batch itself is
	// rejected or ctx is cancelled.
	ParseBatch(ctx context.Context, items []string) (*moltypes.BatchParseResponse, error)
}

// ResultCache memoises successful parses.  The redis cache satisfies it.
type ResultCache interface {
	GetOrSet(ctx context.Context, key string, dest interface{}, ttl time.Duration, loader func(ctx context.Context) (interface{}, error)) error
}

// Options bounds the work the service accepts.
type Options struct {
	MaxInputLength   int
	MaxBatchSize     int
	BatchConcurrency int
	AllowEmpty       bool
	CacheTTL         time.Duration
}

// OptionsFromConfig builds Options from the parser and redis sections.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		MaxInputLength:   cfg.Parser.MaxInputLength,
		MaxBatchSize:     cfg.Parser.MaxBatchSize,
		BatchConcurrency: cfg.Parser.BatchConcurrency,
		AllowEmpty:       cfg.Parser.AllowEmpty,
		CacheTTL:         cfg.Redis.DefaultTTL,
	}
}

const cacheName = "molecule"

// serviceImpl implements the Service interface.
type serviceImpl struct {
	opts    Options
	cache   ResultCache
	metrics *prometheus.ParserMetrics
	logger  logging.Logger
}

// NewService creates the parse service.  cache may be nil to disable result
// caching; metrics may be nil to disable recording.
func NewService(opts Options, cache ResultCache, metrics *prometheus.ParserMetrics, logger logging.Logger) Service {
	if opts.BatchConcurrency < 1 {
		opts.BatchConcurrency = 1
	}
	if metrics == nil {
		metrics = prometheus.NewNoopParserMetrics()
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &serviceImpl{
		opts:    opts,
		cache:   cache,
		metrics: metrics,
		logger:  logger.Named("molecule"),
	}
}

func (s *serviceImpl) Parse(ctx context.Context, input string) (*moltypes.MoleculeDTO, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeTimeout, "request cancelled")
	}

	input, err := s.validate(input)
	if err != nil {
		return nil, err
	}

	if s.cache == nil {
		return s.parse(ctx, input)
	}

	loaded := false
	var dto moltypes.MoleculeDTO
	err = s.cache.GetOrSet(ctx, cacheKey(input), &dto, s.opts.CacheTTL, func(ctx context.Context) (interface{}, error) {
		loaded = true
		return s.parse(ctx, input)
	})
	if err != nil {
		return nil, err
	}
	prometheus.RecordCacheAccess(s.metrics, cacheName, !loaded)
	return &dto, nil
}

func (s *serviceImpl) validate(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" && !s.opts.AllowEmpty {
		return "", errors.New(errors.ErrCodeEmptySMILES, "SMILES string is empty")
	}
	if s.opts.MaxInputLength > 0 && len(input) > s.opts.MaxInputLength {
		return "", errors.New(errors.ErrCodeSMILESTooLong, "SMILES string is too long").
			WithDetail(fmt.Sprintf("%d bytes exceeds the limit of %d", len(input), s.opts.MaxInputLength))
	}
	return input, nil
}

func (s *serviceImpl) parse(ctx context.Context, input string) (*moltypes.MoleculeDTO, error) {
	start := time.Now()
	mol, err := smiles.Parse(input)
	elapsed := time.Since(start)

	log := logging.FromContext(ctx)
	if err != nil {
		appErr := parseFailure(err)
		kind := "internal"
		if pe, ok := smiles.AsParseError(err); ok {
			kind = pe.Kind.String()
		}
		prometheus.RecordParse(s.metrics, kind, 0, elapsed)
		log.Debug("SMILES rejected",
			logging.String(logging.FieldSMILES, input),
			logging.String("code", string(appErr.Code)),
			logging.Err(err),
		)
		return nil, appErr
	}

	prometheus.RecordParse(s.metrics, "", len(mol.Atoms), elapsed)
	log.Debug("SMILES parsed",
		logging.String(logging.FieldSMILES, input),
		logging.Int("atoms", len(mol.Atoms)),
		logging.Int("bonds", len(mol.Bonds)),
		logging.Duration("elapsed", elapsed),
	)
	return ToDTO(input, mol), nil
}

func (s *serviceImpl) ParseBatch(ctx context.Context, items []string) (*moltypes.BatchParseResponse, error) {
	if len(items) == 0 {
		return nil, errors.New(errors.ErrCodeBadRequest, "batch is empty")
	}
	if s.opts.MaxBatchSize > 0 && len(items) > s.opts.MaxBatchSize {
		return nil, errors.New(errors.ErrCodeBatchTooLarge, "batch is too large").
			WithDetail(fmt.Sprintf("%d items exceeds the limit of %d", len(items), s.opts.MaxBatchSize))
	}

	defer logging.LogOperationDuration(s.logger, "parse_batch", time.Now())
	s.metrics.BatchSize.WithLabelValues("service").Observe(float64(len(items)))

	results := make([]moltypes.BatchItemResult, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.BatchConcurrency)
	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = s.parseItem(gctx, i, item)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeTimeout, "batch cancelled")
	}

	resp := moltypes.NewBatchParseResponse(results)
	s.logger.Info("batch parsed",
		logging.Int("items", len(items)),
		logging.Int("succeeded", resp.Succeeded),
		logging.Int("failed", resp.Failed),
	)
	return &resp, nil
}

func (s *serviceImpl) parseItem(ctx context.Context, index int, input string) moltypes.BatchItemResult {
	res := moltypes.BatchItemResult{Index: index, SMILES: input}
	mol, err := s.Parse(ctx, input)
	if err != nil {
		res.Error = ErrorDTO(err)
		return res
	}
	res.Molecule = mol
	return res
}

// cacheKey is versioned so a change to the DTO layout can be rolled out by
// bumping the version.
func cacheKey(input string) string {
	return "mol:v1:" + rediscache.HashKey(input)
}

//Personal.AI order the ending
