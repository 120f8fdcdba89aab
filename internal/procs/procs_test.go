package procs

import "testing"

func TestRecordWindowedRequiresTitleAndHandle(t *testing.T) {
	cases := []struct {
		name   string
		record Record
		want   bool
	}{
		{"title and handle", Record{WindowTitle: "Editor", WindowHandle: 0x10}, true},
		{"missing title", Record{WindowTitle: "", WindowHandle: 0x10}, false},
		{"zero handle", Record{WindowTitle: "Editor", WindowHandle: 0}, false},
		{"neither", Record{}, false},
	}
	for _, tc := range cases {
		if got := tc.record.Windowed(); got != tc.want {
			t.Fatalf("%s: Windowed() = %v, want %v", tc.name, got, tc.want)
		}
	}
}
