package models

// TelemetryKind identifies which variant of a TelemetryValue is populated.
type TelemetryKind int

const (
	// KindNone means no variant is populated.
	KindNone TelemetryKind = iota
	// KindFloat means the float variant is populated.
	KindFloat
	// KindInt means the integer variant is populated.
	KindInt
	// KindBinary means the binary/boolean variant is populated.
	KindBinary
)

// TelemetryValue is a tagged union: exactly one of the three variants is
// populated for any stored value. The bson field names are fixed by the
// existing store contents and must not change.
type TelemetryValue struct {
	Float  *float64 `bson:"float_value,omitempty" json:"float_value,omitempty"`
	Int    *int64   `bson:"int_value,omitempty" json:"int_value,omitempty"`
	Binary *bool    `bson:"binary_value,omitempty" json:"binary_value,omitempty"`
}

// FloatValue constructs a float-variant telemetry value.
func FloatValue(v float64) TelemetryValue {
	return TelemetryValue{Float: &v}
}

// IntValue constructs an integer-variant telemetry value.
func IntValue(v int64) TelemetryValue {
	return TelemetryValue{Int: &v}
}

// BinaryValue constructs a binary-variant telemetry value.
func BinaryValue(v bool) TelemetryValue {
	return TelemetryValue{Binary: &v}
}

// Kind reports which variant is populated. Variants are checked in the
// float, int, binary order, matching how the statistics pipeline averages
// each representation independently.
func (v TelemetryValue) Kind() TelemetryKind {
	switch {
	case v.Float != nil:
		return KindFloat
	case v.Int != nil:
		return KindInt
	case v.Binary != nil:
		return KindBinary
	default:
		return KindNone
	}
}
