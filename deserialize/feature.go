package deserialize

import "strings"

// Feature is a reconstruction switch; features combine as a bit set.
type Feature uint32

const (
	// FailOnUnknownProperties reports properties without a matching target.
	FailOnUnknownProperties Feature = 1 << iota
	// AcceptSingleValueAsArray treats a lone value as a one element array or collection.
	AcceptSingleValueAsArray
	// UseBigIntegerForInts makes untyped integers *big.Int.
	UseBigIntegerForInts
	// UseBigDecimalForFloats makes untyped floats decimal.Decimal.
	UseBigDecimalForFloats
	// UseGettersAsSetters extends existing non-nil containers instead of replacing them.
	UseGettersAsSetters
	// AcceptEmptyStringAsNull maps "" to the zero value of arrays, containers and structured values.
	AcceptEmptyStringAsNull
	// FailOnMissingCreatorProperties requires every properties creator parameter.
	FailOnMissingCreatorProperties
	// FailOnNullForPrimitives rejects null for scalar targets.
	FailOnNullForPrimitives
	// FailOnNumbersForEnums rejects integer ordinals for enums.
	FailOnNumbersForEnums
	// ReadUnknownEnumValuesAsNull maps unknown enum names to the zero value.
	ReadUnknownEnumValuesAsNull
	// CaseInsensitiveProperties matches property names ignoring case.
	CaseInsensitiveProperties
	// CaseInsensitiveEnums matches enum names ignoring case.
	CaseInsensitiveEnums
	// FailOnDuplicateKeys rejects repeated object keys.
	FailOnDuplicateKeys
	// FailOnTrailingTokens rejects input left after the root value.
	FailOnTrailingTokens
	// CoerceScalars converts between strings, numbers and booleans.
	CoerceScalars
	// AcceptFloatAsInt truncates floats assigned to integer targets.
	AcceptFloatAsInt
	// UseOrderedObjects makes untyped objects *tree.Object instead of map[string]any.
	UseOrderedObjects
)

// DefaultFeatures are enabled unless disabled explicitly.
const DefaultFeatures = FailOnUnknownProperties | UseGettersAsSetters | CoerceScalars | AcceptFloatAsInt | UseOrderedObjects

var featureNames = []string{
	"FailOnUnknownProperties",
	"AcceptSingleValueAsArray",
	"UseBigIntegerForInts",
	"UseBigDecimalForFloats",
	"UseGettersAsSetters",
	"AcceptEmptyStringAsNull",
	"FailOnMissingCreatorProperties",
	"FailOnNullForPrimitives",
	"FailOnNumbersForEnums",
	"ReadUnknownEnumValuesAsNull",
	"CaseInsensitiveProperties",
	"CaseInsensitiveEnums",
	"FailOnDuplicateKeys",
	"FailOnTrailingTokens",
	"CoerceScalars",
	"AcceptFloatAsInt",
	"UseOrderedObjects",
}

// Enabled returns true when every flag is set.
func (f Feature) Enabled(flag Feature) bool {
	return f&flag == flag
}

// With returns f with flags set.
func (f Feature) With(flags ...Feature) Feature {
	for _, flag := range flags {
		f |= flag
	}
	return f
}

// Without returns f with flags cleared.
func (f Feature) Without(flags ...Feature) Feature {
	for _, flag := range flags {
		f &^= flag
	}
	return f
}

func (f Feature) String() string {
	var names []string
	for i, name := range featureNames {
		if f&(1<<i) != 0 {
			names = append(names, name)
		}
	}
	return strings.Join(names, "|")
}
