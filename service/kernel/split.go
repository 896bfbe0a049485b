package kernel

import (
	"context"
	"fmt"

	"github.com/viant/bpmnflow/internal/idgen"
	"github.com/viant/bpmnflow/model"
	"github.com/viant/bpmnflow/model/types"
)

// evaluateSplit creates a processed version for every event= split branch evaluating
// to false; a task= branch evaluating to false is a model error
func (s *Service) evaluateSplit(ctx context.Context, session *session, aModel *model.Model, workitem *model.WorkItem, event *model.Event) error {
	for _, condition := range event.Split {
		matched, err := s.evaluate(ctx, workitem, event, condition)
		if err != nil {
			return err
		}
		if matched {
			continue
		}
		switch condition.Target.Kind {
		case model.TargetTask:
			return types.NewModelError(types.InvalidModel, "split event %d.%d (%s) evaluating to false must not be connected to a task", event.TaskID, event.ID, aModel.Version())
		case model.TargetEvent:
			if _, err := aModel.Event(workitem.TaskID(), condition.Target.ID); err != nil {
				return err
			}
			version := createVersion(workitem)
			version.SetTaskID(workitem.TaskID())
			version.SetEventID(condition.Target.ID)
			version.Items.Remove(model.ItemEventIDList)
			version.Set(model.ItemIsVersion, true)
			if session.depth >= s.maxSteps {
				return types.NewModelError(types.LoopDetected, "maximum split depth %d exceeded at %d.%d", s.maxSteps, event.TaskID, event.ID)
			}
			session.depth++
			processed, err := s.process(ctx, session, version)
			session.depth--
			if err != nil {
				return fmt.Errorf("failed to process version %v of %v: %w", version.UniqueID(), workitem.UniqueID(), err)
			}
			processed.Items.Remove(model.ItemIsVersion)
			session.splits = append(session.splits, processed)
			if s.outbox != nil {
				if err = s.outbox.Publish(ctx, processed.Clone()); err != nil {
					return fmt.Errorf("failed to publish version %v: %w", processed.UniqueID(), err)
				}
			}
		}
	}
	return nil
}

func createVersion(source *model.WorkItem) *model.WorkItem {
	ret := source.Clone()
	ret.Set(model.ItemUniqueID, idgen.New())
	ret.Set(model.ItemUniqueIDSource, source.UniqueID())
	ret.Set(model.ItemCreatedVersion, source.Items.Value(model.ItemLastEventDate))
	ret.Items.Remove(model.ItemUniqueIDVersions)
	source.Items.Append(model.ItemUniqueIDVersions, ret.UniqueID())
	return ret
}
