package databind

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
	"unsafe"

	"github.com/viant/tagly/format/text"
	"github.com/viant/xunsafe"

	"github.com/viant/databind/internal/lru"
	"github.com/viant/databind/internal/tagutil"
)

// AnySetter receives properties that match no declared property.
type AnySetter interface {
	SetProperty(name string, value any) error
}

// Initializer is called after an instance is created by the default creator.
type Initializer interface {
	Initialize() error
}

var (
	anySetterType       = reflect.TypeOf((*AnySetter)(nil)).Elem()
	initializerType     = reflect.TypeOf((*Initializer)(nil)).Elem()
	creatorProviderType = reflect.TypeOf((*CreatorProvider)(nil)).Elem()
)

// Creators holds at most one creator per kind; a nil field means no creator of that kind.
type Creators struct {
	Default    *Creator
	String     *Creator
	Int32      *Creator
	Int64      *Creator
	Float      *Creator
	Delegating *Creator
	Properties *Creator
}

func (c *Creators) slot(kind CreatorKind) **Creator {
	switch kind {
	case CreatorDefault:
		return &c.Default
	case CreatorString:
		return &c.String
	case CreatorInt32:
		return &c.Int32
	case CreatorInt64:
		return &c.Int64
	case CreatorFloat:
		return &c.Float
	case CreatorDelegating:
		return &c.Delegating
	case CreatorProperties:
		return &c.Properties
	}
	return nil
}

// Any returns true if any creator is declared.
func (c *Creators) Any() bool {
	return c.Default != nil || c.String != nil || c.Int32 != nil || c.Int64 != nil ||
		c.Float != nil || c.Delegating != nil || c.Properties != nil
}

type foldEntry struct {
	key      string
	property *Property
}

// Description is the introspected shape of a type.
type Description struct {
	Type       reflect.Type
	Holder     reflect.Type // struct holding properties; nil when the type has none
	Properties []*Property
	// Any is a map[string]V field receiving unmatched properties.
	Any         *Property
	AnySetter   bool
	Initializer bool
	Creators    Creators
	Marker      *Marker
	byName      map[string]*Property
	byFold      map[uint64][]foldEntry
	ignored     map[string]struct{}
}

// Lookup returns property by name; with fold, names are matched case-insensitively.
func (d *Description) Lookup(name string, fold bool) *Property {
	if p, ok := d.byName[name]; ok {
		return p
	}
	if !fold {
		return nil
	}
	for _, candidate := range d.byFold[foldedHash(name)] {
		if strings.EqualFold(candidate.key, name) {
			return candidate.property
		}
	}
	return nil
}

// IsIgnored returns true for explicitly ignored property names.
func (d *Description) IsIgnored(name string) bool {
	_, ok := d.ignored[name]
	return ok
}

// Names returns declared property names in declaration order.
func (d *Description) Names() []string {
	ret := make([]string, len(d.Properties))
	for i, p := range d.Properties {
		ret[i] = p.Name
	}
	return ret
}

// MarkPresent sets presence flag for p when the type declares a marker.
func (d *Description) MarkPresent(holder unsafe.Pointer, p *Property) {
	if d.Marker != nil {
		d.Marker.Mark(holder, p.leaf)
	}
}

func (d *Description) add(name string, p *Property) {
	if _, ok := d.byName[name]; !ok {
		d.byName[name] = p
	}
	h := foldedHash(name)
	for _, candidate := range d.byFold[h] {
		if candidate.property == p && candidate.key == name {
			return
		}
	}
	d.byFold[h] = append(d.byFold[h], foldEntry{key: name, property: p})
}

// Introspector describes properties and creators of types. It is safe for concurrent use.
type Introspector struct {
	caseFormat text.CaseFormat
	creators   map[reflect.Type][]*Creator
	cacheSize  int
	cache      *lru.Cache[reflect.Type, *Description]
}

// NewIntrospector creates an introspector.
func NewIntrospector(opts ...Option) *Introspector {
	ret := &Introspector{creators: map[reflect.Type][]*Creator{}, cacheSize: 2048}
	for _, opt := range opts {
		if opt != nil {
			opt.apply(ret)
		}
	}
	ret.cache = lru.New[reflect.Type, *Description](ret.cacheSize)
	return ret
}

// CaseFormat returns configured case format.
func (i *Introspector) CaseFormat() text.CaseFormat { return i.caseFormat }

// HasCreators returns true when creators were registered for t.
func (i *Introspector) HasCreators(t reflect.Type) bool {
	return len(i.creators[t]) > 0
}

// Describe returns description of t.
func (i *Introspector) Describe(t reflect.Type) (*Description, error) {
	return i.cache.GetOrCreate(t, func() (*Description, error) { return i.describe(t) })
}

// Purge removes cached descriptions.
func (i *Introspector) Purge() { i.cache.Purge() }

func (i *Introspector) describe(t reflect.Type) (*Description, error) {
	d := &Description{
		Type:    t,
		byName:  map[string]*Property{},
		byFold:  map[uint64][]foldEntry{},
		ignored: map[string]struct{}{},
	}
	holder := t
	if holder.Kind() == reflect.Pointer {
		holder = holder.Elem()
	}
	if holder.Kind() == reflect.Struct {
		d.Holder = holder
		if err := i.collect(d, holder, nil, "", true); err != nil {
			return nil, err
		}
		ptrType := reflect.PointerTo(holder)
		d.AnySetter = ptrType.Implements(anySetterType)
		d.Initializer = ptrType.Implements(initializerType)
	}
	for _, creator := range i.declaredCreators(t) {
		if err := i.addCreator(d, creator); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func (i *Introspector) declaredCreators(t reflect.Type) []*Creator {
	var ret []*Creator
	if t.Kind() != reflect.Interface {
		base := t
		if base.Kind() == reflect.Pointer {
			base = base.Elem()
		}
		if reflect.PointerTo(base).Implements(creatorProviderType) {
			provider := reflect.New(base).Interface().(CreatorProvider)
			for _, creator := range provider.Creators() {
				if creator != nil && creator.Type() == t {
					ret = append(ret, creator)
				}
			}
		}
	}
	return append(ret, i.creators[t]...)
}

func (i *Introspector) addCreator(d *Description, creator *Creator) error {
	if creator.Type() != d.Type {
		return fmt.Errorf("invalid %v: expected target type %v", creator, d.Type)
	}
	slot := d.Creators.slot(creator.Kind())
	if slot == nil {
		return fmt.Errorf("unsupported %v", creator)
	}
	if *slot != nil {
		return fmt.Errorf("conflicting %v creators for %v", creator.Kind(), d.Type)
	}
	if creator.Kind() == CreatorProperties {
		seen := map[string]bool{}
		for _, param := range creator.Params() {
			if param.Name == "" || param.Type == nil {
				return fmt.Errorf("invalid %v: parameter requires name and type", creator)
			}
			if seen[param.Name] {
				return fmt.Errorf("invalid %v: duplicate parameter %s", creator, param.Name)
			}
			seen[param.Name] = true
		}
	}
	if creator.Kind() == CreatorDelegating && creator.Delegate() == nil {
		return fmt.Errorf("invalid %v: missing delegate type", creator)
	}
	*slot = creator
	return nil
}

func (i *Introspector) collect(d *Description, t reflect.Type, parent []*xunsafe.Field, prefix string, topLevel bool) error {
	for j := 0; j < t.NumField(); j++ {
		sf := t.Field(j)
		if sf.PkgPath != "" {
			continue
		}
		if topLevel && IsSetMarker(sf.Tag) {
			d.Marker = newMarker(sf)
			continue
		}
		tag := tagutil.Resolve(sf)
		if tag.Ignore {
			d.ignored[tag.Name] = struct{}{}
			continue
		}
		chain := append(slices.Clone(parent), xunsafe.NewField(sf))
		if tag.Inline {
			if inner := EnsureStruct(sf.Type); inner != nil && inner != timeType {
				if err := i.collect(d, inner, chain, prefix+sf.Name+".", false); err != nil {
					return err
				}
				continue
			}
		}
		p := &Property{
			Name:       tag.Name,
			Field:      prefix + sf.Name,
			Type:       sf.Type,
			Required:   tag.Required,
			TimeLayout: tag.TimeLayout,
			leaf:       sf.Name,
			chain:      chain,
		}
		if tag.Any {
			if sf.Type.Kind() != reflect.Map || sf.Type.Key().Kind() != reflect.String {
				return fmt.Errorf("invalid any field %v.%s: expected map with string keys, but had %v", d.Type, p.Field, sf.Type)
			}
			d.Any = p
			continue
		}
		if _, exists := d.byName[p.Name]; exists {
			continue
		}
		p.Index = len(d.Properties)
		d.Properties = append(d.Properties, p)
		d.add(p.Name, p)
		if !tag.Explicit && i.caseFormat.IsDefined() {
			if alias := formatName(p.Name, i.caseFormat); alias != "" && alias != p.Name {
				d.add(alias, p)
			}
		}
	}
	return nil
}

func formatName(name string, to text.CaseFormat) string {
	if name == "ID" {
		switch to {
		case text.CaseFormatLower, text.CaseFormatLowerCamel, text.CaseFormatLowerUnderscore:
			return "id"
		}
	}
	from := text.DetectCaseFormat(name)
	if !from.IsDefined() {
		from = text.CaseFormatUpperCamel
	}
	return from.Format(name, to)
}

func foldedHash(s string) uint64 {
	const (
		offset64 = 1469598103934665603
		prime64  = 1099511628211
	)
	h := uint64(offset64)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		h ^= uint64(c)
		h *= prime64
	}
	return h
}
