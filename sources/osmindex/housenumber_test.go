package osmindex

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseHouseNumbers(t *testing.T) {
	tests := []struct {
		tag  string
		want []int
	}{
		{"7", []int{7}},
		{"3-5", []int{3, 4}},
		{"1,3;5-7", []int{1, 3, 5, 6}},
		{"12a", []int{12}},
		{"4 - 4", []int{4}},
		{"10-8", nil},
		{"2-4-6", []int{2, 3}},
	}

	for _, tt := range tests {
		got, err := ParseHouseNumbers(tt.tag)
		if err != nil {
			t.Errorf("ParseHouseNumbers(%q): unexpected error %v", tt.tag, err)
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParseHouseNumbers(%q) = %v; want %v", tt.tag, got, tt.want)
		}
	}
}

func TestParseHouseNumbersRejectsNonNumeric(t *testing.T) {
	for _, tag := range []string{"a", "", "1,b", "-"} {
		if _, err := ParseHouseNumbers(tag); !errors.Is(err, ErrHouseNumber) {
			t.Errorf("ParseHouseNumbers(%q): expected ErrHouseNumber, got %v", tag, err)
		}
	}
}
