package kernel

import (
	"context"
	"errors"
	"strings"

	"github.com/viant/bpmnflow/extension"
	"github.com/viant/bpmnflow/model"
	"github.com/viant/bpmnflow/model/types"
)

// executeSignalAdapters runs adapters bound to the event
func (s *Service) executeSignalAdapters(ctx context.Context, workitem *model.WorkItem, event *model.Event) (*model.WorkItem, error) {
	ids := event.AdapterIDs
	if len(ids) == 0 {
		ids = event.Items.Strings(model.EventItemAdapterID)
	}
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		adapter := s.extensions.Adapter(id)
		if adapter == nil {
			return nil, types.NewModelError(types.InvalidModel, "adapter %v of event %d.%d not registered", id, event.TaskID, event.ID)
		}
		if extension.IsGeneric(adapter) {
			s.logger.Warn().Str("adapter", id).Msg("generic adapter bound to a signal event is skipped")
			continue
		}
		var err error
		if workitem, err = s.executeAdapter(ctx, adapter, workitem, event); err != nil {
			return nil, err
		}
	}
	return workitem, nil
}

func (s *Service) executeGenericAdapters(ctx context.Context, workitem *model.WorkItem, event *model.Event) (*model.WorkItem, error) {
	for _, adapter := range s.extensions.GenericAdapters() {
		var err error
		if workitem, err = s.executeAdapter(ctx, adapter, workitem, event); err != nil {
			return nil, err
		}
	}
	return workitem, nil
}

// executeAdapter records a failure in the adapter.error_* items, newest first, and aborts
func (s *Service) executeAdapter(ctx context.Context, adapter extension.Adapter, workitem *model.WorkItem, event *model.Event) (*model.WorkItem, error) {
	result, err := adapter.Execute(ctx, workitem, event)
	if err == nil {
		if result == nil {
			return workitem, nil
		}
		return result, nil
	}
	var adapterErr *types.AdapterError
	if !errors.As(err, &adapterErr) {
		adapterErr = &types.AdapterError{Context: adapter.Name(), Code: types.AdapterFailed, Message: err.Error(), Err: err}
	}
	s.logger.Warn().Err(err).Str("adapter", adapter.Name()).Str("uniqueid", workitem.UniqueID()).Int("task", event.TaskID).Int("event", event.ID).Msg("adapter failed")
	params := make([]interface{}, 0, len(adapterErr.Params))
	for _, param := range adapterErr.Params {
		params = append(params, param)
	}
	prepend(workitem, model.ItemAdapterErrorContext, adapterErr.Context)
	prepend(workitem, model.ItemAdapterErrorCode, adapterErr.Code)
	prepend(workitem, model.ItemAdapterErrorParams, params)
	prepend(workitem, model.ItemAdapterErrorMessage, adapterErr.Error())
	return nil, adapterErr
}

func prepend(workitem *model.WorkItem, name string, value interface{}) {
	values := append([]interface{}{value}, workitem.Items.Values(name)...)
	workitem.Items[strings.ToLower(name)] = values
}
