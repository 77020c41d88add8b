package token

// Kind identifies a token in a structured document stream.
type Kind int

const (
	None Kind = iota
	ObjectStart
	ObjectEnd
	ArrayStart
	ArrayEnd
	FieldName
	String
	Int
	Float
	True
	False
	Null
	Embedded
)

var kindNames = [...]string{
	None:        "none",
	ObjectStart: "start object",
	ObjectEnd:   "end object",
	ArrayStart:  "start array",
	ArrayEnd:    "end array",
	FieldName:   "field name",
	String:      "string",
	Int:         "integer",
	Float:       "float",
	True:        "true",
	False:       "false",
	Null:        "null",
	Embedded:    "embedded value",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// IsScalar reports whether the token is a complete value on its own.
func (k Kind) IsScalar() bool {
	switch k {
	case String, Int, Float, True, False, Null, Embedded:
		return true
	}
	return false
}

// IsNumeric reports whether the token is a number.
func (k Kind) IsNumeric() bool {
	return k == Int || k == Float
}

// IsStart reports whether the token opens a container.
func (k Kind) IsStart() bool {
	return k == ObjectStart || k == ArrayStart
}

// IsEnd reports whether the token closes a container.
func (k Kind) IsEnd() bool {
	return k == ObjectEnd || k == ArrayEnd
}

// NumberType classifies the narrowest representation of a numeric token.
type NumberType int

const (
	NotNumber NumberType = iota
	Int32Number
	Int64Number
	BigIntNumber
	Float64Number
)

func (n NumberType) String() string {
	switch n {
	case Int32Number:
		return "int32"
	case Int64Number:
		return "int64"
	case BigIntNumber:
		return "big integer"
	case Float64Number:
		return "float64"
	}
	return "not a number"
}
