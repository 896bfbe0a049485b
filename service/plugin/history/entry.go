package history

import (
	"time"

	"github.com/viant/toolbox"
)

// Entry represents a history entry
type Entry struct {
	Time    time.Time
	Message string
	Editor  string
}

func newEntry(value interface{}) (Entry, bool) {
	values, ok := value.([]interface{})
	if !ok || len(values) < 2 {
		return Entry{}, false
	}
	ret := Entry{Message: toolbox.AsString(values[1])}
	if ts, ok := values[0].(time.Time); ok {
		ret.Time = ts
	}
	if len(values) > 2 {
		ret.Editor = toolbox.AsString(values[2])
	}
	return ret, true
}
