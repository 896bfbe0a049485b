package meta

import (
	"context"
	"embed"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	_ "github.com/viant/afs/embed"
)

//go:embed testdata/*
var testFS embed.FS

type sample struct {
	Name string `json:"name" yaml:"name" toml:"name"`
	Size int    `json:"size" yaml:"size" toml:"size"`
}

func TestService_Load(t *testing.T) {
	t.Setenv("BPMNFLOW_TEST_NAME", "yaml")
	srv := New(afs.New(), "embed:///testdata", &testFS)
	testCases := []struct {
		description string
		URL         string
		expect      sample
	}{
		{description: "yaml with env", URL: "config.yaml", expect: sample{Name: "yaml", Size: 3}},
		{description: "toml", URL: "config.toml", expect: sample{Name: "toml", Size: 4}},
		{description: "json", URL: "config.json", expect: sample{Name: "json", Size: 5}},
	}
	for _, testCase := range testCases {
		actual := sample{}
		err := srv.Load(context.Background(), testCase.URL, &actual)
		if !assert.NoError(t, err, testCase.description) {
			continue
		}
		assert.Equal(t, testCase.expect, actual, testCase.description)
	}
}

func TestService_List(t *testing.T) {
	srv := New(afs.New(), "embed:///testdata", &testFS)
	URLs, err := srv.List(context.Background(), "", ".yaml", ".toml")
	require.NoError(t, err)
	var names []string
	for _, URL := range URLs {
		names = append(names, path.Base(URL))
	}
	assert.ElementsMatch(t, []string{"config.yaml", "config.toml"}, names)

	_, err = srv.Download(context.Background(), "missing.yaml")
	assert.Error(t, err)
}

func TestService_LoadTOML(t *testing.T) {
	srv := New(afs.New(), "embed:///testdata", &testFS)
	actual := sample{Size: 10}
	metadata, err := srv.LoadTOML(context.Background(), "config.toml", &actual)
	require.NoError(t, err)
	assert.True(t, metadata.IsDefined("name"))
	assert.False(t, metadata.IsDefined("missing"))
	assert.Equal(t, sample{Name: "toml", Size: 4}, actual)
}
