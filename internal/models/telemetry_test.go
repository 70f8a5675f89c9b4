package models

import "testing"

func TestTelemetryValue_Kind(t *testing.T) {
	testCases := []struct {
		name  string
		value TelemetryValue
		want  TelemetryKind
	}{
		{"float", FloatValue(21.5), KindFloat},
		{"int", IntValue(3), KindInt},
		{"binary", BinaryValue(true), KindBinary},
		{"empty", TelemetryValue{}, KindNone},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.value.Kind(); got != tc.want {
				t.Errorf("Kind() = %v, want %v", got, tc.want)
			}
		})
	}
}
