package yaml

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/databind/deserialize"
)

type service struct {
	Name     string            `json:"name"`
	Replicas int               `json:"replicas"`
	Ports    []int             `json:"ports"`
	Labels   map[string]string `json:"labels"`
	Started  time.Time         `json:"started"`
	Extra    map[string]any    `json:",any"`
}

func TestUnmarshal(t *testing.T) {
	input := `
name: api
replicas: 3
ports: [80, 443]
labels:
  tier: web
started: 2024-01-02T03:04:05Z
debug: true
`
	var out service
	require.NoError(t, Unmarshal([]byte(input), &out))
	assert.Equal(t, "api", out.Name)
	assert.Equal(t, 3, out.Replicas)
	assert.Equal(t, []int{80, 443}, out.Ports)
	assert.Equal(t, map[string]string{"tier": "web"}, out.Labels)
	assert.Equal(t, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), out.Started)
	assert.Equal(t, map[string]any{"debug": true}, out.Extra)

	type strict struct {
		Name string `json:"name"`
	}
	var s strict
	require.NoError(t, Unmarshal([]byte("name: x\nother: 1\n"), &s))
	err := Unmarshal([]byte("name: x\nother: 1\n"), &s, deserialize.Enable(deserialize.FailOnUnknownProperties))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unrecognized field "other"`)
}

func TestDecoder_Decode(t *testing.T) {
	decoder := NewDecoder(strings.NewReader("name: a\n---\nname: b\n"))
	var names []string
	for {
		var out service
		err := decoder.Decode(context.Background(), &out)
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		names = append(names, out.Name)
	}
	assert.Equal(t, []string{"a", "b"}, names)
}
