package main

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/viant/bpmnflow/service/catalog"
)

func diff(ctx context.Context, args []string, w io.Writer) error {
	flags := flag.NewFlagSet("diff", flag.ContinueOnError)
	configURL := configFlag(flags)
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() != 2 {
		return fmt.Errorf("usage: bpmnflow diff [-config file] <model> <model>")
	}
	srv, err := newService(ctx, *configURL)
	if err != nil {
		return err
	}
	from, err := loadModel(ctx, srv, flags.Arg(0))
	if err != nil {
		return err
	}
	to, err := loadModel(ctx, srv, flags.Arg(1))
	if err != nil {
		return err
	}
	text, err := catalog.Diff(from, to)
	if err != nil {
		return err
	}
	fmt.Fprint(w, text)
	return nil
}
