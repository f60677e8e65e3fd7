package main

import (
	"reflect"
	"testing"
)

func TestNormalizeArgs(t *testing.T) {
	boolFlags := map[string]bool{"json": true}
	cases := []struct {
		name      string
		arguments []string
		want      []string
	}{
		{
			name:      "flags after positional",
			arguments: []string{"endevor+edited-element:abc", "--json"},
			want:      []string{"--json", "endevor+edited-element:abc"},
		},
		{
			name:      "value flag keeps its value",
			arguments: []string{"locator", "--ccid", "CCID1", "--json"},
			want:      []string{"--ccid", "CCID1", "--json", "locator"},
		},
		{
			name:      "equals form",
			arguments: []string{"locator", "--ccid=CCID1"},
			want:      []string{"--ccid=CCID1", "locator"},
		},
		{
			name:      "double dash stops flag parsing",
			arguments: []string{"--json", "--", "--not-a-flag"},
			want:      []string{"--json", "--not-a-flag"},
		},
		{
			name:      "empty",
			arguments: []string{},
			want:      []string{},
		},
	}
	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			got := normalizeArgs(testCase.arguments, boolFlags)
			if !reflect.DeepEqual(got, testCase.want) {
				t.Fatalf("got %v, want %v", got, testCase.want)
			}
		})
	}
}
