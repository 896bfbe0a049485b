package meta

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/viant/afs"
	"github.com/viant/afs/option"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"
	"gopkg.in/yaml.v3"
)

// Service loads model and configuration assets relative to a base URL.
type Service struct {
	fs      afs.Service
	baseURL string
	options []storage.Option
}

// BaseURL returns the base URL
func (s *Service) BaseURL() string {
	return s.baseURL
}

// URL resolves URL against the base URL.
func (s *Service) URL(URL string) string {
	if URL == "" {
		return s.baseURL
	}
	if s.baseURL == "" || !url.IsRelative(URL) {
		return URL
	}
	return url.Join(s.baseURL, URL)
}

// Download returns raw asset content.
func (s *Service) Download(ctx context.Context, URL string) ([]byte, error) {
	URL = s.URL(URL)
	data, err := s.fs.DownloadWithURL(ctx, URL, s.options...)
	if err != nil {
		return nil, fmt.Errorf("failed to download %v: %w", URL, err)
	}
	return data, nil
}

// Exists returns true if asset exists.
func (s *Service) Exists(ctx context.Context, URL string) (bool, error) {
	return s.fs.Exists(ctx, s.URL(URL), s.options...)
}

// Load decodes asset into dest; the format is selected by extension (yaml, json or toml).
// ${env.KEY} expressions are expanded before decoding.
func (s *Service) Load(ctx context.Context, URL string, dest interface{}) error {
	data, err := s.Download(ctx, URL)
	if err != nil {
		return err
	}
	text := expandEnv(string(data))
	switch strings.ToLower(path.Ext(URL)) {
	case ".json":
		err = json.Unmarshal([]byte(text), dest)
	case ".toml":
		_, err = toml.Decode(text, dest)
	case ".yaml", ".yml", "":
		err = yaml.Unmarshal([]byte(text), dest)
	default:
		return fmt.Errorf("unsupported format: %v", URL)
	}
	if err != nil {
		return fmt.Errorf("failed to decode %v: %w", URL, err)
	}
	return nil
}

// LoadTOML decodes a TOML asset into dest and returns its metadata, so that
// callers can overlay only keys defined in the document.
func (s *Service) LoadTOML(ctx context.Context, URL string, dest interface{}) (toml.MetaData, error) {
	data, err := s.Download(ctx, URL)
	if err != nil {
		return toml.MetaData{}, err
	}
	ret, err := toml.Decode(expandEnv(string(data)), dest)
	if err != nil {
		return ret, fmt.Errorf("failed to decode %v: %w", URL, err)
	}
	return ret, nil
}

// List returns sorted asset URLs under URL with one of the supplied extensions.
func (s *Service) List(ctx context.Context, URL string, extensions ...string) ([]string, error) {
	URL = s.URL(URL)
	options := append([]storage.Option{option.NewRecursive(true)}, s.options...)
	objects, err := s.fs.List(ctx, URL, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to list %v: %w", URL, err)
	}
	var result []string
	for _, object := range objects {
		if object.IsDir() {
			continue
		}
		if !hasExtension(object.Name(), extensions) {
			continue
		}
		result = append(result, object.URL())
	}
	sort.Strings(result)
	return result, nil
}

func hasExtension(name string, extensions []string) bool {
	if len(extensions) == 0 {
		return true
	}
	ext := strings.ToLower(path.Ext(name))
	for _, candidate := range extensions {
		if strings.ToLower(candidate) == ext {
			return true
		}
	}
	return false
}

// New creates a meta service
func New(fs afs.Service, baseURL string, options ...storage.Option) *Service {
	return &Service{fs: fs, baseURL: baseURL, options: options}
}
