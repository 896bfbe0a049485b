package kernel

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/viant/bpmnflow/internal/tag"
	"github.com/viant/bpmnflow/model"
	"github.com/viant/bpmnflow/model/types"
	"github.com/viant/bpmnflow/service/evaluator"
)

// findNextTask evaluates exclusive then split conditions; an event= match turns
// the event into a follow-up on the current task. Without conditions the event
// target is used, follow-up events without a target keep the current task.
func (s *Service) findNextTask(ctx context.Context, aModel *model.Model, workitem *model.WorkItem, event *model.Event) (*model.Task, error) {
	if len(event.Exclusive) > 0 {
		task, matched, err := s.matchCondition(ctx, aModel, workitem, event, event.Exclusive.Ordered())
		if err != nil || matched {
			return task, err
		}
		return nil, &types.ModelError{Code: types.InvalidModel, Message: fmt.Sprintf("no matching condition in event %d.%d (%s)", event.TaskID, event.ID, aModel.Version()), Err: types.ErrNoMatchingCondition}
	}
	if len(event.Split) > 0 {
		task, matched, err := s.matchCondition(ctx, aModel, workitem, event, event.Split)
		if err != nil || matched {
			return task, err
		}
	}
	if event.NextTaskID > 0 {
		return aModel.Task(event.NextTaskID)
	}
	return aModel.Task(workitem.TaskID())
}

func (s *Service) matchCondition(ctx context.Context, aModel *model.Model, workitem *model.WorkItem, event *model.Event, conditions model.Conditions) (*model.Task, bool, error) {
	for _, condition := range conditions {
		matched, err := s.evaluate(ctx, workitem, event, condition)
		if err != nil {
			return nil, false, err
		}
		if !matched {
			continue
		}
		switch condition.Target.Kind {
		case model.TargetTask:
			task, err := aModel.Task(condition.Target.ID)
			return task, err == nil, err
		case model.TargetEvent:
			if _, err := aModel.Event(workitem.TaskID(), condition.Target.ID); err != nil {
				return nil, false, err
			}
			event.FollowUp = true
			event.NextEventID = condition.Target.ID
			task, err := aModel.Task(workitem.TaskID())
			return task, err == nil, err
		}
	}
	return nil, false, nil
}

func (s *Service) evaluate(ctx context.Context, workitem *model.WorkItem, event *model.Event, condition *model.Condition) (bool, error) {
	ret, err := evaluator.Bool(ctx, s.evaluator, condition.Expression, workitem)
	if err != nil {
		return false, &types.ModelError{Code: types.InvalidModel, Message: fmt.Sprintf("invalid condition %v of event %d.%d", condition.Target.Key(), event.TaskID, event.ID), Err: err}
	}
	return ret, nil
}

// updateEventList queues a follow-up event and pops the next pending event into $eventid
func (s *Service) updateEventList(workitem *model.WorkItem, event *model.Event) {
	pending := workitem.Items.Ints(model.ItemEventIDList)
	if event.FollowUp && event.NextEventID > 0 {
		pending = append(pending, event.NextEventID)
	}
	next := 0
	if len(pending) > 0 {
		next, pending = pending[0], pending[1:]
	}
	workitem.SetEventID(next)
	if len(pending) == 0 {
		workitem.Items.Remove(model.ItemEventIDList)
		return
	}
	values := make([]interface{}, len(pending))
	for i, id := range pending {
		values[i] = id
	}
	workitem.Set(model.ItemEventIDList, values...)
}

// updateModelVersion applies a <model version="" event="" task=""/> tag of the event result
func (s *Service) updateModelVersion(workitem *model.WorkItem, event *model.Event) error {
	result := event.Result()
	if !strings.Contains(strings.ToLower(result), "<model") {
		return nil
	}
	tags, err := tag.Find(result, "model")
	if err != nil {
		return &types.ModelError{Code: types.InvalidModel, Message: fmt.Sprintf("invalid model tag in event %d.%d", event.TaskID, event.ID), Err: err}
	}
	if len(tags) == 0 {
		return nil
	}
	modelTag := tags[0]
	version := strings.TrimSpace(modelTag.Attribute("version"))
	eventID, _ := strconv.Atoi(strings.TrimSpace(modelTag.Attribute("event")))
	taskID, _ := strconv.Atoi(strings.TrimSpace(modelTag.Attribute("task")))
	if version == "" || eventID <= 0 {
		return types.NewModelError(types.InvalidModel, "invalid model tag in event %d.%d: version and event are required", event.TaskID, event.ID)
	}
	target, resolved, err := s.models.Lookup(version, "")
	if err != nil {
		return err
	}
	workitem.SetModelVersion(resolved)
	workitem.SetEventID(eventID)
	if taskID > 0 {
		workitem.SetTaskID(taskID)
		if task, err := target.Task(taskID); err == nil {
			updateWorkflowStatus(workitem, task)
		}
	}
	s.logger.Info().Str("uniqueid", workitem.UniqueID()).Str("model", resolved).Int("event", eventID).Msg("model switched by event")
	return nil
}

func updateWorkflowStatus(workitem *model.WorkItem, task *model.Task) {
	workitem.SetTaskID(task.ID)
	workitem.Set(model.ItemWorkflowStatus, task.Name)
	workitem.Set(model.ItemWorkflowGroup, task.Group)
	if taskType := task.Type(); taskType != "" {
		workitem.Set(model.ItemType, taskType)
	}
}
