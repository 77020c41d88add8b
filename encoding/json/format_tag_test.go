package json

import (
	"bytes"
	"io"
	"log/slog"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/tagly/format"
	"github.com/viant/tagly/format/text"

	"github.com/viant/databind"
	"github.com/viant/databind/deserialize"
)

func TestFormatTag_Unmarshal_AppliesCaseAndTimeLayout(t *testing.T) {
	type payload struct {
		UserName  string
		CreatedAt time.Time
	}

	var out payload
	tag := &format.Tag{
		CaseFormat: string(text.CaseFormatLowerUnderscore),
		TimeLayout: "2006-01-02",
	}
	err := Unmarshal([]byte(`{"user_name":"alice","created_at":"2026-02-24"}`), &out, WithFormatTag(tag))
	require.NoError(t, err)
	require.Equal(t, "alice", out.UserName)
	require.Equal(t, time.Date(2026, 2, 24, 0, 0, 0, 0, time.UTC), out.CreatedAt.UTC())
}

func TestFormatTag_WithCaseFormatOverride(t *testing.T) {
	type payload struct {
		UserName string
	}

	tag := &format.Tag{CaseFormat: string(text.CaseFormatLowerUnderscore)}
	var out payload
	err := Unmarshal([]byte(`{"userName":"alice"}`), &out, WithFormatTag(tag), WithCaseFormat(text.CaseFormatLowerCamel))
	require.NoError(t, err)
	require.Equal(t, "alice", out.UserName)
}

func TestFormatTag_TopLevelDateFormat(t *testing.T) {
	tag := &format.Tag{DateFormat: "yyyy-MM-dd"}
	var out time.Time
	err := Unmarshal([]byte(`"2026-02-24"`), &out, WithFormatTag(tag))
	require.NoError(t, err)
	require.Equal(t, time.Date(2026, 2, 24, 0, 0, 0, 0, time.UTC), out.UTC())
}

func TestDecoder_Decode(t *testing.T) {
	type event struct {
		Name string `json:"name"`
	}
	decoder, err := NewDecoder(bytes.NewReader([]byte(`{"name":"a"} {"name":"b"}
{"name":"c"}`)), WithMode(ModeStrict))
	require.NoError(t, err)
	var names []string
	for {
		var e event
		err := decoder.Decode(&e)
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"a", "b", "c"}, names)
}

type level int

func TestUnmarshal_ModuleAndMapper(t *testing.T) {
	module := deserialize.NewModule("levels")
	deserialize.AddEnum(module, level(0), level(1), level(2))
	type job struct {
		Level level `json:"level"`
	}
	var out job
	require.NoError(t, Unmarshal([]byte(`{"level":2}`), &out, WithModule(module), WithLogger(slog.New(slog.DiscardHandler))))
	assert.Equal(t, level(2), out.Level)

	mapper := deserialize.New(deserialize.Enable(deserialize.FailOnUnknownProperties))
	err := Unmarshal([]byte(`{"level":1,"x":1}`), &out, WithMapper(mapper))
	require.Error(t, err)
	s, err := mapper.Strategy(databind.TypeFor(reflect.TypeOf(out)))
	require.NoError(t, err)
	assert.Equal(t, deserialize.KindStructured, s.Kind())

	require.NoError(t, Unmarshal([]byte(`{"level":1,"x":1}`), &out, WithoutFeatures(deserialize.FailOnUnknownProperties)))
	err = Unmarshal([]byte(`{"level":1,"x":1}`), &out, WithFeatures(deserialize.FailOnUnknownProperties))
	require.Error(t, err)
}
