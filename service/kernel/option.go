package kernel

import (
	"github.com/rs/zerolog"

	"github.com/viant/bpmnflow/extension"
	"github.com/viant/bpmnflow/model"
	"github.com/viant/bpmnflow/service/evaluator"
	"github.com/viant/bpmnflow/service/messaging"
)

type Option func(*Service)

// WithEvaluator sets the condition evaluator
func WithEvaluator(evaluator evaluator.Evaluator) Option {
	return func(s *Service) {
		s.evaluator = evaluator
	}
}

// WithLogger sets the logger
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithExtensions sets the plugin and adapter registry
func WithExtensions(extensions *extension.Registry) Option {
	return func(s *Service) {
		s.extensions = extensions
	}
}

// WithPlugins registers plugins
func WithPlugins(plugins ...extension.Plugin) Option {
	return func(s *Service) {
		for _, plugin := range plugins {
			s.extensions.RegisterPlugin(plugin)
		}
	}
}

// WithAdapters registers adapters
func WithAdapters(adapters ...extension.Adapter) Option {
	return func(s *Service) {
		for _, adapter := range adapters {
			s.extensions.RegisterAdapter(adapter)
		}
	}
}

// WithPluginChain overrides the model definition plugin list
func WithPluginChain(names ...string) Option {
	return func(s *Service) {
		s.pluginChain = names
	}
}

// WithOutbox sets a queue receiving split workitem versions
func WithOutbox(outbox messaging.Queue[model.WorkItem]) Option {
	return func(s *Service) {
		s.outbox = outbox
	}
}

// WithMaxSteps limits the number of events processed in one call
func WithMaxSteps(maxSteps int) Option {
	return func(s *Service) {
		if maxSteps > 0 {
			s.maxSteps = maxSteps
		}
	}
}

// WithMaxEventLog limits $eventlog entries
func WithMaxEventLog(maxEventLog int) Option {
	return func(s *Service) {
		if maxEventLog > 0 {
			s.maxEventLog = maxEventLog
		}
	}
}
