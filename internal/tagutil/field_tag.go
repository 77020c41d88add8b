// Package tagutil resolves struct field tags into property settings.
package tagutil

import (
	"reflect"
	"sync"

	"github.com/viant/tagly/format"
	ftime "github.com/viant/tagly/format/time"
)

// FieldTag is the resolved view of a field's `json` and `format` tags.
type FieldTag struct {
	Name       string
	Explicit   bool
	Ignore     bool
	Inline     bool
	Any        bool
	Required   bool
	TimeLayout string
}

type formatTag struct {
	name       string
	caseFormat string
	ignore     bool
	inline     bool
	timeLayout string
}

var formatTags sync.Map // raw struct tag -> formatTag

// Resolve resolves precedence among `json` and `format` tags:
// an explicit json name wins over format name or case format;
// ignore comes from json:"-", internal:"true" or format ignore;
// inline from anonymous fields, json inline or format inline.
func Resolve(sf reflect.StructField) FieldTag {
	jTag := ParseJSONTag(sf.Name, sf.Tag.Get("json"))
	fTag := loadFormatTag(sf.Tag)
	ret := FieldTag{
		Name:     jTag.Name,
		Explicit: jTag.Explicit,
		Ignore:   jTag.Ignore || sf.Tag.Get("internal") == "true" || fTag.ignore,
		Inline:   sf.Anonymous || jTag.Inline || fTag.inline,
		Any:      jTag.Any,
		Required: jTag.Required,
	}
	if !jTag.Explicit && (fTag.name != "" || fTag.caseFormat != "") {
		tag := &format.Tag{Name: fTag.name, CaseFormat: fTag.caseFormat}
		if tag.Name == "" {
			tag.Name = jTag.Name
		}
		if name := tag.CaseFormatName(""); name != "" {
			ret.Name = name
			ret.Explicit = true
		}
	}
	ret.TimeLayout = fTag.timeLayout
	return ret
}

func loadFormatTag(raw reflect.StructTag) formatTag {
	if v, ok := formatTags.Load(raw); ok {
		return v.(formatTag)
	}
	var ret formatTag
	if tag, err := format.Parse(raw); err == nil && tag != nil {
		ret = formatTag{
			name:       tag.Name,
			caseFormat: tag.CaseFormat,
			ignore:     tag.Ignore,
			inline:     tag.Inline,
			timeLayout: tag.TimeLayout,
		}
		if ret.timeLayout == "" && tag.DateFormat != "" {
			ret.timeLayout = ftime.DateFormatToTimeLayout(tag.DateFormat)
		}
	}
	formatTags.Store(raw, ret)
	return ret
}
