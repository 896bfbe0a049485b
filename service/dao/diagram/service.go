package diagram

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/rs/zerolog"
	"github.com/viant/afs"
	"github.com/viant/bpmnflow/model/graph"
	"github.com/viant/bpmnflow/service/meta"
	"github.com/viant/bpmnflow/tracing"
)

// Extensions lists supported diagram file extensions
var Extensions = []string{".bpmn", ".xml", ".yaml", ".yml"}

// Service loads diagrams into graphs
type Service struct {
	metaService *meta.Service
	logger      zerolog.Logger
}

// Load loads a diagram, the format is selected by URL extension
func (s *Service) Load(ctx context.Context, URL string) (*graph.Graph, error) {
	ctx, span := tracing.StartSpan(ctx, "model.load", "INTERNAL")
	span.WithAttributes(map[string]string{"url": URL})
	ret, err := s.load(ctx, URL)
	tracing.EndSpan(span, err)
	return ret, err
}

func (s *Service) load(ctx context.Context, URL string) (*graph.Graph, error) {
	data, err := s.metaService.Download(ctx, URL)
	if err != nil {
		return nil, err
	}
	ret, err := Decode(URL, data)
	if err != nil {
		return nil, err
	}
	s.logger.Debug().Str("url", URL).Int("nodes", len(ret.Nodes())).Int("flows", len(ret.Flows())).Msg("diagram loaded")
	return ret, nil
}

// List returns diagram URLs found under URL
func (s *Service) List(ctx context.Context, URL string) ([]string, error) {
	return s.metaService.List(ctx, URL, Extensions...)
}

// Decode decodes a diagram, the format is selected by source extension
func Decode(source string, data []byte) (*graph.Graph, error) {
	switch strings.ToLower(path.Ext(source)) {
	case ".bpmn", ".xml":
		return DecodeBPMN(source, data)
	case ".yaml", ".yml":
		return DecodeYAML(source, data)
	}
	return nil, fmt.Errorf("unsupported diagram format: %v", source)
}

// New creates a diagram service
func New(opts ...Option) *Service {
	ret := &Service{
		metaService: meta.New(afs.New(), ""),
		logger:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}
