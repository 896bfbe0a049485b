// Package bpmnflow provides a BPMN workflow engine processing workitems
// through event driven models.
//
// A model is loaded from a BPMN 2.0 diagram (or the equivalent YAML graph
// format), resolved into a read-only task/event catalog and registered by
// its version. The kernel then moves workitems from task to task by
// processing events, running plugins and adapters bound to the model:
//
//	srv := bpmnflow.New(bpmnflow.WithMetaBaseURL("file:///opt/models"))
//	if _, err := srv.LoadModel(ctx, "ticket.bpmn"); err != nil {
//		return err
//	}
//	workitem := model.NewWorkItem("1.0.0", 1000, 10)
//	workitem, err = srv.Process(ctx, workitem)
//
// Use NewFromConfig to build the service from a YAML, TOML or JSON
// configuration.
package bpmnflow
