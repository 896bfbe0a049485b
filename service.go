package bpmnflow

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/viant/afs"
	"github.com/viant/afs/storage"

	"github.com/viant/bpmnflow/extension"
	"github.com/viant/bpmnflow/internal/logging"
	"github.com/viant/bpmnflow/model"
	"github.com/viant/bpmnflow/service/dao/diagram"
	"github.com/viant/bpmnflow/service/kernel"
	"github.com/viant/bpmnflow/service/messaging"
	"github.com/viant/bpmnflow/service/meta"
	"github.com/viant/bpmnflow/service/plugin/history"
	"github.com/viant/bpmnflow/service/plugin/result"
	"github.com/viant/bpmnflow/service/plugin/rule"
	"github.com/viant/bpmnflow/service/registry"
	"github.com/viant/bpmnflow/service/resolver"
	"github.com/viant/bpmnflow/tracing"
)

// Service wires diagram loading, model resolution, the model registry and the kernel
type Service struct {
	metaService   *meta.Service
	loader        *diagram.Service
	resolver      *resolver.Service
	registry      *registry.Registry
	kernel        *kernel.Service
	extensions    *extension.Registry
	plugins       []extension.Plugin
	adapters      []extension.Adapter
	outbox        messaging.Queue[model.WorkItem]
	kernelOptions []kernel.Option
	logger        zerolog.Logger
	metaBaseURL   string
	metaFsOptions []storage.Option
}

func (s *Service) init(options []Option) {
	for _, option := range options {
		option(s)
	}
	if s.metaService == nil {
		s.metaService = meta.New(afs.New(), s.metaBaseURL, s.metaFsOptions...)
	}
	if s.registry == nil {
		s.registry = registry.New()
	}
	s.loader = diagram.New(diagram.WithMetaService(s.metaService), diagram.WithLogger(s.logger))
	s.resolver = resolver.New(resolver.WithLogger(s.logger))
	s.extensions = extension.NewRegistry(
		extension.WithPlugins(result.New(), history.New(), rule.New()),
		extension.WithPlugins(s.plugins...),
		extension.WithAdapters(s.adapters...),
	)
	opts := []kernel.Option{
		kernel.WithLogger(s.logger),
		kernel.WithExtensions(s.extensions),
	}
	if s.outbox != nil {
		opts = append(opts, kernel.WithOutbox(s.outbox))
	}
	s.kernel = kernel.New(s.registry, append(opts, s.kernelOptions...)...)
}

// Registry returns the model registry
func (s *Service) Registry() *registry.Registry {
	return s.registry
}

// Kernel returns the kernel
func (s *Service) Kernel() *kernel.Service {
	return s.kernel
}

// Extensions returns plugin and adapter registry
func (s *Service) Extensions() *extension.Registry {
	return s.extensions
}

// LoadModel loads, resolves and registers a diagram
func (s *Service) LoadModel(ctx context.Context, URL string) (*model.Model, error) {
	aModel, err := s.ResolveModel(ctx, URL)
	if err != nil {
		return nil, err
	}
	if err = s.registry.Add(aModel); err != nil {
		return nil, fmt.Errorf("failed to register model %v: %w", URL, err)
	}
	s.logger.Info().Str("url", URL).Str("model", aModel.Version()).Strs("groups", aModel.Groups()).Msg("model registered")
	return aModel, nil
}

// ResolveModel loads and resolves a diagram without registering it
func (s *Service) ResolveModel(ctx context.Context, URL string) (*model.Model, error) {
	g, err := s.loader.Load(ctx, URL)
	if err != nil {
		return nil, err
	}
	return s.resolver.Resolve(ctx, g)
}

// LoadModels registers every diagram found under URL
func (s *Service) LoadModels(ctx context.Context, URL string) ([]*model.Model, error) {
	URLs, err := s.loader.List(ctx, URL)
	if err != nil {
		return nil, err
	}
	ret := make([]*model.Model, 0, len(URLs))
	for _, location := range URLs {
		aModel, err := s.LoadModel(ctx, location)
		if err != nil {
			return nil, err
		}
		ret = append(ret, aModel)
	}
	return ret, nil
}

// Process processes the workitem event with its follow-up events
func (s *Service) Process(ctx context.Context, workitem *model.WorkItem) (*model.WorkItem, error) {
	return s.kernel.Process(ctx, workitem)
}

// Run processes the workitem and returns split versions created on the way
func (s *Service) Run(ctx context.Context, workitem *model.WorkItem) (*kernel.Result, error) {
	return s.kernel.Run(ctx, workitem)
}

// Eval returns the task the workitem would reach, the workitem is not modified
func (s *Service) Eval(ctx context.Context, workitem *model.WorkItem) (int, error) {
	return s.kernel.Eval(ctx, workitem)
}

// New creates a service
func New(options ...Option) *Service {
	ret := &Service{logger: zerolog.Nop()}
	ret.init(options)
	return ret
}

// NewFromConfig creates a service from cfg and registers the configured models.
// Options are applied after the configuration.
func NewFromConfig(ctx context.Context, cfg *Config, options ...Option) (*Service, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	opts := []Option{
		WithLogger(logging.New("bpmnflow", cfg.Log.Level, cfg.Log.Pretty)),
		WithMetaBaseURL(cfg.Models.BaseURL),
		WithKernelOptions(kernel.WithMaxSteps(cfg.Kernel.MaxSteps), kernel.WithMaxEventLog(cfg.Kernel.MaxEventLog)),
	}
	if len(cfg.Kernel.Plugins) > 0 {
		opts = append(opts, WithPluginChain(cfg.Kernel.Plugins...))
	}
	if cfg.Tracing.Enabled {
		opts = append(opts, WithTracing(cfg.Tracing.ServiceName, cfg.Tracing.ServiceVersion, cfg.Tracing.OutputFile))
	}
	ret := New(append(opts, options...)...)
	for _, location := range cfg.Models.Locations {
		if _, err := ret.LoadModel(ctx, location); err != nil {
			return nil, err
		}
	}
	return ret, nil
}

// Shutdown flushes tracing spans
func (s *Service) Shutdown(ctx context.Context) error {
	return tracing.Shutdown(ctx)
}
