package tagutil

import "strings"

// JSONTag is a parsed `json` struct tag.
type JSONTag struct {
	Name     string
	Explicit bool
	Ignore   bool
	Inline   bool
	Any      bool
	Required bool
}

// ParseJSONTag parses raw `json` tag; defaultName is used when the tag has no name.
// Recognised options: inline, any (catch-all map) and required (creator parameter).
func ParseJSONTag(defaultName string, raw string) JSONTag {
	if raw == "" {
		return JSONTag{Name: defaultName}
	}
	if raw == "-" {
		return JSONTag{Name: defaultName, Explicit: true, Ignore: true}
	}
	name, options, _ := strings.Cut(raw, ",")
	tag := JSONTag{Name: name, Explicit: name != ""}
	if name == "" {
		tag.Name = defaultName
	}
	for options != "" {
		var option string
		option, options, _ = strings.Cut(options, ",")
		switch option {
		case "inline":
			tag.Inline = true
		case "any":
			tag.Any = true
		case "required":
			tag.Required = true
		}
	}
	return tag
}
