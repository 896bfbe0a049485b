package history

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/viant/bpmnflow/extension"
	"github.com/viant/bpmnflow/internal/clock"
	"github.com/viant/bpmnflow/model"
	"github.com/viant/bpmnflow/model/types"
	"github.com/viant/bpmnflow/service/plugin"
)

const (
	// Name is the plugin registration name
	Name = "history"
	// EventItemMessage holds the history message of an event
	EventItemMessage = "history.message"
	// Item holds history entries [time, message, editor]
	Item = "$history"
	// ItemEditor holds the editor used when the processing context has none
	ItemEditor = "$editor"
	// DefaultMaxEntries bounds the number of history entries
	DefaultMaxEntries = 100
)

// Plugin appends the event history message to the workitem history
type Plugin struct {
	logger     zerolog.Logger
	once       sync.Once
	maxEntries int
}

func (p *Plugin) Name() string {
	return Name
}

// Init adopts the logger of the first session, a plugin instance is shared by concurrent sessions
func (p *Plugin) Init(_ context.Context, extCtx *extension.Context) error {
	p.once.Do(func() {
		if extCtx != nil {
			p.logger = extCtx.Logger
		}
	})
	return nil
}

func (p *Plugin) Run(ctx context.Context, workitem *model.WorkItem, event *model.Event) (*model.WorkItem, error) {
	message := strings.TrimSpace(event.Items.String(EventItemMessage))
	if message == "" {
		return workitem, nil
	}
	message, err := plugin.ExpandItemValues(message, workitem)
	if err != nil {
		return nil, types.NewPluginError(Name, types.InvalidFormat, err.Error())
	}
	editor := types.ProcessingValue(ctx, types.ContextEditor)
	if editor == "" {
		editor = workitem.Items.String(ItemEditor)
	}
	entries := append(workitem.Items.Values(Item), []interface{}{clock.Now(), message, editor})
	if overflow := len(entries) - p.maxEntries; overflow > 0 {
		entries = entries[overflow:]
	}
	workitem.Items[Item] = entries
	p.logger.Debug().Str("uniqueid", workitem.UniqueID()).Int("event", event.ID).Str("editor", editor).Msg("history entry added")
	return workitem, nil
}

func (p *Plugin) Close(bool) error {
	return nil
}

// Entries returns history entries, oldest first
func Entries(workitem *model.WorkItem) []Entry {
	values := workitem.Items.Values(Item)
	ret := make([]Entry, 0, len(values))
	for _, value := range values {
		if entry, ok := newEntry(value); ok {
			ret = append(ret, entry)
		}
	}
	return ret
}

// New creates a history plugin
func New(opts ...Option) *Plugin {
	ret := &Plugin{logger: zerolog.Nop(), maxEntries: DefaultMaxEntries}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}
