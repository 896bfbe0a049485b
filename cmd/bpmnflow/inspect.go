package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/viant/bpmnflow/model"
)

var (
	headingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF")).Bold(true)
	taskStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50")).Bold(true)
	eventStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801"))
	detailStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#A0AEC0"))
)

func inspect(ctx context.Context, args []string, w io.Writer) error {
	flags := flag.NewFlagSet("inspect", flag.ContinueOnError)
	configURL := configFlag(flags)
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() != 1 {
		return fmt.Errorf("usage: bpmnflow inspect [-config file] <model>")
	}
	srv, err := newService(ctx, *configURL)
	if err != nil {
		return err
	}
	aModel, err := loadModel(ctx, srv, flags.Arg(0))
	if err != nil {
		return err
	}
	fmt.Fprintln(w, describe(aModel))
	return nil
}

func describe(aModel *model.Model) string {
	builder := &strings.Builder{}
	definition := aModel.Definition()
	builder.WriteString(headingStyle.Render("Model "+aModel.Version()) + "\n")
	if len(definition.Plugins) > 0 {
		builder.WriteString(detailStyle.Render("plugins: "+strings.Join(definition.Plugins, ", ")) + "\n")
	}
	for _, group := range aModel.Groups() {
		builder.WriteString("\n" + headingStyle.Render("Group "+group) + "\n")
		for _, task := range aModel.GroupTasks(group) {
			builder.WriteString(describeTask(aModel, task))
		}
	}
	return builder.String()
}

func describeTask(aModel *model.Model, task *model.Task) string {
	builder := &strings.Builder{}
	var flags []string
	if task.Start {
		flags = append(flags, "start")
	}
	if task.End {
		flags = append(flags, "end")
	}
	line := fmt.Sprintf("%d %s", task.ID, task.Name)
	if len(flags) > 0 {
		line += " [" + strings.Join(flags, ",") + "]"
	}
	builder.WriteString("  " + taskStyle.Render(line) + "\n")
	for _, event := range aModel.Events(task.ID) {
		builder.WriteString("    " + eventStyle.Render(fmt.Sprintf("%d %s -> %s", event.ID, event.Name, target(event))) + "\n")
		conditions := event.Conditions()
		if len(conditions) == 0 {
			conditions = event.SplitConditions()
		}
		keys := make([]string, 0, len(conditions))
		for key := range conditions {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			builder.WriteString("      " + detailStyle.Render(key+": "+conditions[key]) + "\n")
		}
	}
	return builder.String()
}

func target(event *model.Event) string {
	switch {
	case event.FollowUp:
		return fmt.Sprintf("event %d", event.NextEventID)
	case len(event.Exclusive) > 0:
		return "exclusive"
	case len(event.Split) > 0:
		return "split"
	}
	return fmt.Sprintf("task %d", event.NextTaskID)
}
