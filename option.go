package bpmnflow

import (
	"github.com/rs/zerolog"
	"github.com/viant/afs/storage"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/viant/bpmnflow/extension"
	"github.com/viant/bpmnflow/model"
	"github.com/viant/bpmnflow/service/evaluator"
	"github.com/viant/bpmnflow/service/kernel"
	"github.com/viant/bpmnflow/service/messaging"
	"github.com/viant/bpmnflow/service/meta"
	"github.com/viant/bpmnflow/service/registry"
	"github.com/viant/bpmnflow/tracing"
)

// Option configures Service
type Option func(s *Service)

// WithMetaService sets the meta service
func WithMetaService(service *meta.Service) Option {
	return func(s *Service) {
		s.metaService = service
	}
}

// WithMetaBaseURL sets the model base URL
func WithMetaBaseURL(URL string) Option {
	return func(s *Service) {
		s.metaBaseURL = URL
	}
}

// WithMetaFsOptions sets model file system options
func WithMetaFsOptions(options ...storage.Option) Option {
	return func(s *Service) {
		s.metaFsOptions = options
	}
}

// WithRegistry sets the model registry
func WithRegistry(models *registry.Registry) Option {
	return func(s *Service) {
		s.registry = models
	}
}

// WithLogger sets the logger passed to every component
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithEvaluator sets the condition evaluator
func WithEvaluator(evaluator evaluator.Evaluator) Option {
	return func(s *Service) {
		s.kernelOptions = append(s.kernelOptions, kernel.WithEvaluator(evaluator))
	}
}

// WithPlugins registers plugins in addition to the built-in ones
func WithPlugins(plugins ...extension.Plugin) Option {
	return func(s *Service) {
		s.plugins = append(s.plugins, plugins...)
	}
}

// WithAdapters registers adapters
func WithAdapters(adapters ...extension.Adapter) Option {
	return func(s *Service) {
		s.adapters = append(s.adapters, adapters...)
	}
}

// WithPluginChain overrides model plugin lists
func WithPluginChain(names ...string) Option {
	return func(s *Service) {
		s.kernelOptions = append(s.kernelOptions, kernel.WithPluginChain(names...))
	}
}

// WithOutbox sets a queue receiving split workitem versions
func WithOutbox(outbox messaging.Queue[model.WorkItem]) Option {
	return func(s *Service) {
		s.outbox = outbox
	}
}

// WithKernelOptions passes additional options to the kernel
func WithKernelOptions(opts ...kernel.Option) Option {
	return func(s *Service) {
		s.kernelOptions = append(s.kernelOptions, opts...)
	}
}

// WithTracing configures OpenTelemetry tracing. If outputFile is empty the
// stdout exporter is used; the first successful initialisation wins.
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(s *Service) {
		if err := tracing.Init(serviceName, serviceVersion, outputFile); err != nil {
			s.logger.Warn().Err(err).Msg("failed to initialise tracing")
		}
	}
}

// WithTracingExporter configures OpenTelemetry tracing with a custom SpanExporter.
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(s *Service) {
		if err := tracing.InitWithExporter(serviceName, serviceVersion, exporter); err != nil {
			s.logger.Warn().Err(err).Msg("failed to initialise tracing")
		}
	}
}
