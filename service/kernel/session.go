package kernel

import (
	"context"
	"errors"
	"fmt"

	"github.com/viant/bpmnflow/extension"
	"github.com/viant/bpmnflow/model"
	"github.com/viant/bpmnflow/model/types"
)

// session keeps plugins initialized within one Run call and the split versions
type session struct {
	service     *Service
	initialized []extension.Plugin
	byName      map[string]bool
	splits      []*model.WorkItem
	depth       int
}

// chain returns plugins of the supplied model, initializing them on first use
func (s *session) chain(ctx context.Context, aModel *model.Model) ([]extension.Plugin, error) {
	names := s.service.pluginChain
	if names == nil {
		names = aModel.Definition().Plugins
	}
	ret := make([]extension.Plugin, 0, len(names))
	for _, name := range names {
		plugin := s.service.extensions.Plugin(name)
		if plugin == nil {
			return nil, types.NewPluginError("kernel", types.PluginNotRegistered, fmt.Sprintf("plugin %v not registered", name), name)
		}
		if !s.byName[plugin.Name()] {
			extCtx := &extension.Context{Logger: s.service.logger, Evaluator: s.service.evaluator}
			if err := plugin.Init(ctx, extCtx); err != nil {
				return nil, asPluginError(plugin.Name(), err)
			}
			s.byName[plugin.Name()] = true
			s.initialized = append(s.initialized, plugin)
		}
		ret = append(ret, plugin)
	}
	return ret, nil
}

func (s *session) runPlugins(ctx context.Context, aModel *model.Model, workitem *model.WorkItem, event *model.Event) (*model.WorkItem, error) {
	plugins, err := s.chain(ctx, aModel)
	if err != nil {
		return nil, err
	}
	for _, plugin := range plugins {
		result, err := plugin.Run(ctx, workitem, event)
		if err != nil {
			s.service.logger.Warn().Err(err).Str("plugin", plugin.Name()).Str("uniqueid", workitem.UniqueID()).Int("task", event.TaskID).Int("event", event.ID).Msg("plugin failed")
			return nil, asPluginError(plugin.Name(), err)
		}
		if result == nil {
			return nil, types.NewPluginError(plugin.Name(), types.PluginFailed, "plugin returned nil workitem")
		}
		workitem = result
	}
	return workitem, nil
}

// close closes initialized plugins in reverse order
func (s *session) close(rollback bool) error {
	var errs []error
	for i := len(s.initialized) - 1; i >= 0; i-- {
		if err := s.initialized[i].Close(rollback); err != nil {
			errs = append(errs, fmt.Errorf("failed to close plugin %v: %w", s.initialized[i].Name(), err))
		}
	}
	s.initialized = nil
	return errors.Join(errs...)
}

func asPluginError(name string, err error) error {
	var pluginErr *types.PluginError
	if errors.As(err, &pluginErr) {
		return err
	}
	var modelErr *types.ModelError
	if errors.As(err, &modelErr) {
		return err
	}
	return &types.PluginError{Context: name, Code: types.PluginFailed, Message: "plugin failed", Err: err}
}

func newSession(service *Service) *session {
	return &session{service: service, byName: map[string]bool{}}
}
