package plugin

import (
	"strings"
	"time"

	"github.com/viant/toolbox"

	"github.com/viant/bpmnflow/internal/tag"
	"github.com/viant/bpmnflow/model"
)

// ItemValueTag is a placeholder replaced with workitem item values, e.g.
// <itemvalue separator=", " position="last" format="yyyy-MM-dd">_due</itemvalue>
const ItemValueTag = "itemvalue"

// DefaultSeparator joins multi value items
const DefaultSeparator = ", "

// ExpandItemValues replaces itemvalue placeholders with workitem item values
func ExpandItemValues(text string, workitem *model.WorkItem) (string, error) {
	if !strings.Contains(strings.ToLower(text), "<"+ItemValueTag) {
		return text, nil
	}
	return tag.Replace(text, ItemValueTag, func(placeholder *tag.Tag) (string, error) {
		name := strings.TrimSpace(placeholder.Content)
		values := workitem.Items.Values(name)
		switch strings.ToLower(placeholder.Attribute("position")) {
		case "first":
			if len(values) > 0 {
				values = values[:1]
			}
		case "last":
			if len(values) > 0 {
				values = values[len(values)-1:]
			}
		}
		separator := DefaultSeparator
		if placeholder.HasAttribute("separator") {
			separator = placeholder.Attribute("separator")
		}
		format := placeholder.Attribute("format")
		texts := make([]string, 0, len(values))
		for _, value := range values {
			texts = append(texts, formatValue(value, format))
		}
		return strings.Join(texts, separator), nil
	})
}

func formatValue(value interface{}, format string) string {
	switch actual := value.(type) {
	case time.Time:
		if format != "" {
			return actual.Format(toolbox.DateFormatToLayout(format))
		}
		return actual.Format(time.RFC3339)
	case *time.Time:
		if actual == nil {
			return ""
		}
		return formatValue(*actual, format)
	case nil:
		return ""
	}
	return toolbox.AsString(value)
}
