package kernel

import (
	"strconv"
	"strings"

	"github.com/viant/bpmnflow/internal/clock"
	"github.com/viant/bpmnflow/model"
)

// logEvent appends "timestamp|model|task.event|next|comment" to $eventlog
func (s *Service) logEvent(workitem *model.WorkItem, event *model.Event) {
	comment := strings.TrimSpace(workitem.Items.String(model.ItemEventLogComment))
	if comment == "" {
		comment = event.LogComment()
	}
	entry := strings.Join([]string{
		clock.Timestamp(),
		workitem.ModelVersion(),
		strconv.Itoa(event.TaskID) + "." + strconv.Itoa(event.ID),
		strconv.Itoa(event.NextTaskID),
		comment,
	}, "|")
	entries := append(workitem.Items.Values(model.ItemEventLog), entry)
	if overflow := len(entries) - s.maxEventLog; overflow > 0 {
		entries = entries[overflow:]
	}
	workitem.Set(model.ItemEventLog, entries...)
	workitem.Set(model.ItemLastEvent, event.ID)
}
