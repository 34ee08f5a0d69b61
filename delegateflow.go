// Package delegateflow provides a top-level convenience entry point for
// building a delegation planner with minimal boilerplate.
//
// Usage:
//
//	import "github.com/BaSui01/delegateflow"
//
//	p, err := delegateflow.New()
//	p, err := delegateflow.New(delegateflow.WithLogger(logger))
//
//	decision, err := p.Delegate(ctx, task)
//
// This is a thin wrapper around [planner.NewOrchestrator] with a fresh
// in-memory catalog and the built-in industry reference table. Use the
// planner and catalog packages directly for durable storage, caching, or
// event-driven refresh.
package delegateflow

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/BaSui01/delegateflow/catalog"
	"github.com/BaSui01/delegateflow/config"
	"github.com/BaSui01/delegateflow/planner"
)

// Planner pairs a delegation orchestrator with the catalog it plans over.
type Planner struct {
	*planner.Orchestrator

	// Catalog is the in-memory agent catalog the planner selects from.
	Catalog *catalog.MemoryCatalog

	// Reference is the industry reference table used for risk assessment.
	Reference *config.ReferenceTable
}

// Option configures the planner created by [New].
type Option func(*options)

type options struct {
	logger      *zap.Logger
	reference   *config.ReferenceTable
	catalogPath string
}

// WithLogger sets a custom zap logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithReferenceTable replaces the built-in industry reference table.
func WithReferenceTable(ref *config.ReferenceTable) Option {
	return func(o *options) { o.reference = ref }
}

// WithCatalogFile pre-loads agents from a YAML catalog file.
func WithCatalogFile(path string) Option {
	return func(o *options) { o.catalogPath = path }
}

// New creates a planner backed by an empty in-memory catalog and the
// built-in industry reference table.
func New(opts ...Option) (*Planner, error) {
	o := options{
		logger:    zap.NewNop(),
		reference: config.DefaultReferenceTable(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.reference == nil {
		return nil, fmt.Errorf("reference table must not be nil")
	}

	cat := catalog.NewMemoryCatalog(o.logger)
	if o.catalogPath != "" {
		if err := cat.LoadFile(o.catalogPath); err != nil {
			return nil, err
		}
	}

	return &Planner{
		Orchestrator: planner.NewOrchestrator(cat, o.reference, o.logger),
		Catalog:      cat,
		Reference:    o.reference,
	}, nil
}
