package tagutil

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	type sample struct {
		Plain     int
		Renamed   int            `json:"renamed"`
		Skipped   int            `json:"-"`
		Dash      int            `json:"-,"`
		Extra     map[string]any `json:",any"`
		Needed    int            `json:"needed,required"`
		Internal  int            `internal:"true"`
		Formatted int            `format:"name=fmtName"`
		Both      int            `json:"jsonName" format:"name=fmtName"`
		Cased     int            `format:"caseFormat=lowerUnderscore"`
		Ignored   int            `format:"ignore=true"`
		Created   string         `format:"timeLayout=2006-01-02"`
	}
	rType := reflect.TypeOf(sample{})
	field := func(name string) reflect.StructField {
		sf, _ := rType.FieldByName(name)
		return sf
	}
	var testCases = []struct {
		description string
		field       string
		expect      FieldTag
	}{
		{description: "untagged", field: "Plain", expect: FieldTag{Name: "Plain"}},
		{description: "json name", field: "Renamed", expect: FieldTag{Name: "renamed", Explicit: true}},
		{description: "json ignore", field: "Skipped", expect: FieldTag{Name: "Skipped", Explicit: true, Ignore: true}},
		{description: "dash name", field: "Dash", expect: FieldTag{Name: "-", Explicit: true}},
		{description: "any setter", field: "Extra", expect: FieldTag{Name: "Extra", Any: true}},
		{description: "required", field: "Needed", expect: FieldTag{Name: "needed", Explicit: true, Required: true}},
		{description: "internal", field: "Internal", expect: FieldTag{Name: "Internal", Ignore: true}},
		{description: "format name", field: "Formatted", expect: FieldTag{Name: "fmtName", Explicit: true}},
		{description: "json wins over format", field: "Both", expect: FieldTag{Name: "jsonName", Explicit: true}},
		{description: "format ignore", field: "Ignored", expect: FieldTag{Name: "Ignored", Ignore: true}},
		{description: "time layout", field: "Created", expect: FieldTag{Name: "Created", TimeLayout: "2006-01-02"}},
	}
	for _, testCase := range testCases {
		assert.Equal(t, testCase.expect, Resolve(field(testCase.field)), testCase.description)
	}

	cased := Resolve(field("Cased"))
	assert.True(t, cased.Explicit)
	assert.Equal(t, "cased", cased.Name)
}
