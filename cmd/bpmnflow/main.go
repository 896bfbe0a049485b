package main

import (
	"context"
	"fmt"
	"io"
	"os"
)

const usage = `usage: bpmnflow <command> [options]

commands:
  inspect  print model definition, groups, tasks and events
  diff     print a unified diff of two model catalogs
  process  process a workitem event and print the resulting items
`

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, w io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(w, usage)
		return fmt.Errorf("command was not specified")
	}
	switch args[0] {
	case "inspect":
		return inspect(ctx, args[1:], w)
	case "diff":
		return diff(ctx, args[1:], w)
	case "process":
		return process(ctx, args[1:], w)
	case "help", "-h", "--help":
		fmt.Fprint(w, usage)
		return nil
	}
	fmt.Fprint(w, usage)
	return fmt.Errorf("unknown command: %v", args[0])
}
