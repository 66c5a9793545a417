package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cityobservatory/cityobservatory/internal/location"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("FEATURE_MAP", "false")
	t.Setenv("ARCHIVE_BACKEND", "memory")

	var out bytes.Buffer
	root := newRootCmd(&env{})
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCitiesCommand(t *testing.T) {
	out, err := run(t, "cities")
	require.NoError(t, err)
	assert.Contains(t, out, "札幌")
	assert.Contains(t, out, "naha")
}

func TestCitiesCommand_JSON(t *testing.T) {
	out, err := run(t, "cities", "--json")
	require.NoError(t, err)

	var cities []location.Location
	require.NoError(t, json.Unmarshal([]byte(out), &cities))
	assert.Len(t, cities, len(location.Cities()))
}

func TestCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown city", []string{"dashboard", "atlantis"}},
		{"bad range", []string{"dashboard", "tokyo", "--range", "1y"}},
		{"latitude without longitude", []string{"dashboard", "--lat", "35"}},
		{"compare needs two cities", []string{"compare", "tokyo"}},
		{"history unknown city", []string{"history", "atlantis"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestHistoryCommand_Empty(t *testing.T) {
	out, err := run(t, "history", "tokyo")
	require.NoError(t, err)
	assert.Contains(t, out, "no history recorded")
}
