package extension

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/viant/bpmnflow/model"
	"github.com/viant/bpmnflow/service/evaluator"
)

// Context is passed to plugins on Init
type Context struct {
	Logger    zerolog.Logger
	Evaluator evaluator.Evaluator
}

// Plugin processes a workitem for every event, in the order of the model plugin list.
// A Run error aborts processing; Close(true) is then called on every initialized plugin.
type Plugin interface {
	Name() string
	Init(ctx context.Context, extCtx *Context) error
	Run(ctx context.Context, workitem *model.WorkItem, event *model.Event) (*model.WorkItem, error)
	Close(rollback bool) error
}

// Adapter executes an event bound side effect, bound by the event adapter.id item
type Adapter interface {
	Name() string
	Execute(ctx context.Context, workitem *model.WorkItem, event *model.Event) (*model.WorkItem, error)
}

// GenericAdapter marks an adapter executed for every event after the plugins
type GenericAdapter interface {
	Adapter
	Generic() bool
}

// IsGeneric returns true if adapter runs for every event
func IsGeneric(adapter Adapter) bool {
	generic, ok := adapter.(GenericAdapter)
	return ok && generic.Generic()
}
