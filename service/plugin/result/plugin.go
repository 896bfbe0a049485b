package result

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/viant/toolbox"

	"github.com/viant/bpmnflow/extension"
	"github.com/viant/bpmnflow/internal/tag"
	"github.com/viant/bpmnflow/model"
	"github.com/viant/bpmnflow/model/types"
	"github.com/viant/bpmnflow/service/plugin"
)

// Name is the plugin registration name
const Name = "result"

// FileItem is the only $ prefixed item a result may set
const FileItem = "$file"

const itemTag = "item"

// Plugin applies <item name="" type="">value</item> tags of the event workflow result
type Plugin struct {
	logger zerolog.Logger
	once   sync.Once
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

func (p *Plugin) Run(_ context.Context, workitem *model.WorkItem, event *model.Event) (*model.WorkItem, error) {
	items, err := Evaluate(event.Result(), workitem)
	if err != nil {
		return nil, err
	}
	for _, name := range items.Names() {
		workitem.Items.Set(name, items.Values(name)...)
	}
	if len(items) > 0 {
		p.logger.Debug().Str("uniqueid", workitem.UniqueID()).Int("event", event.ID).Strs("items", items.Names()).Msg("result applied")
	}
	return workitem, nil
}

func (p *Plugin) Close(bool) error {
	return nil
}

// Evaluate returns items defined by result tags, repeated names collect multiple values
func Evaluate(result string, workitem *model.WorkItem) (model.Items, error) {
	ret := model.Items{}
	if strings.TrimSpace(result) == "" {
		return ret, nil
	}
	expanded, err := plugin.ExpandItemValues(result, workitem)
	if err != nil {
		return nil, invalidFormat(err.Error())
	}
	tags, err := tag.Find(expanded, itemTag)
	if err != nil {
		return nil, invalidFormat(err.Error())
	}
	for _, item := range tags {
		name := strings.ToLower(strings.TrimSpace(item.Attributes["name"]))
		if name == "" {
			return nil, invalidFormat("item tag without name")
		}
		if strings.HasPrefix(name, "$") && name != FileItem {
			return nil, invalidFormat(fmt.Sprintf("item %v must not start with $", name), name)
		}
		value, err := convert(strings.TrimSpace(item.Content), item.Attributes["type"], item.Attributes["format"])
		if err != nil {
			return nil, invalidFormat(fmt.Sprintf("item %v: %v", name, err), name)
		}
		ret.Append(name, value)
	}
	return ret, nil
}

func convert(value, kind, format string) (interface{}, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", "string":
		return value, nil
	case "boolean":
		return toolbox.ToBoolean(value)
	case "integer", "int", "long":
		return toolbox.ToInt(value)
	case "double", "float":
		return toolbox.ToFloat(value)
	case "date":
		if value == "" {
			return nil, nil
		}
		layouts := []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"}
		if format != "" {
			layouts = []string{toolbox.DateFormatToLayout(format)}
		}
		for _, layout := range layouts {
			if ret, err := time.Parse(layout, value); err == nil {
				return ret, nil
			}
		}
		return nil, fmt.Errorf("invalid date %q", value)
	}
	return nil, fmt.Errorf("unsupported type %q", kind)
}

func invalidFormat(message string, params ...string) error {
	return types.NewPluginError(Name, types.InvalidFormat, message, params...)
}

// New creates a result plugin
func New() *Plugin {
	return &Plugin{logger: zerolog.Nop()}
}
