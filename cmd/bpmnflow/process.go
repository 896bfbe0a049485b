package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/viant/bpmnflow/model"
)

// assignments collects repeated -set name=value flags
type assignments []string

func (a *assignments) String() string {
	return strings.Join(*a, ",")
}

func (a *assignments) Set(value string) error {
	if !strings.Contains(value, "=") {
		return fmt.Errorf("invalid assignment %q, expected name=value", value)
	}
	*a = append(*a, value)
	return nil
}

func process(ctx context.Context, args []string, w io.Writer) error {
	flags := flag.NewFlagSet("process", flag.ContinueOnError)
	configURL := configFlag(flags)
	modelURL := flags.String("model", "", "model diagram (bpmn or yaml)")
	version := flags.String("version", "", "workitem model version, defaults to the model version")
	taskID := flags.Int("task", 0, "current task id")
	eventID := flags.Int("event", 0, "event id to process")
	var items assignments
	flags.Var(&items, "set", "workitem item name=value, repeatable")
	if err := flags.Parse(args); err != nil {
		return err
	}
	srv, err := newService(ctx, *configURL)
	if err != nil {
		return err
	}
	if *modelURL != "" {
		aModel, err := srv.LoadModel(ctx, location(*modelURL))
		if err != nil {
			return err
		}
		if *version == "" {
			*version = aModel.Version()
		}
	}
	workitem := model.NewWorkItem(*version, *taskID, *eventID)
	for _, item := range items {
		name, value, _ := strings.Cut(item, "=")
		workitem.Set(strings.TrimSpace(name), value)
	}
	result, err := srv.Run(ctx, workitem)
	if err != nil {
		return err
	}
	if err = render(w, result.WorkItem); err != nil {
		return err
	}
	for _, version := range result.SplitWorkItems {
		fmt.Fprintln(w, "---")
		if err = render(w, version); err != nil {
			return err
		}
	}
	return nil
}

func render(w io.Writer, workitem *model.WorkItem) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(workitem.Items.Map()); err != nil {
		return err
	}
	return encoder.Close()
}
