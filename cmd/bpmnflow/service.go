package main

import (
	"context"
	"flag"

	"github.com/viant/afs/file"
	"github.com/viant/afs/url"

	"github.com/viant/bpmnflow"
	"github.com/viant/bpmnflow/model"
)

// newService creates the engine from an optional config file
func newService(ctx context.Context, configURL string) (*bpmnflow.Service, error) {
	cfg := bpmnflow.DefaultConfig()
	cfg.Log.Level = "warn"
	cfg.Log.Pretty = true
	if configURL != "" {
		var err error
		if cfg, err = bpmnflow.LoadConfig(ctx, location(configURL)); err != nil {
			return nil, err
		}
	}
	return bpmnflow.NewFromConfig(ctx, cfg)
}

func loadModel(ctx context.Context, srv *bpmnflow.Service, URL string) (*model.Model, error) {
	return srv.ResolveModel(ctx, location(URL))
}

// location turns local paths into file URLs
func location(URL string) string {
	if url.Scheme(URL, "") != "" {
		return URL
	}
	return url.Normalize(URL, file.Scheme)
}

func configFlag(flags *flag.FlagSet) *string {
	return flags.String("config", "", "engine config (yaml, toml or json)")
}
