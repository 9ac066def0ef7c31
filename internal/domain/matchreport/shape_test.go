package matchreport

import (
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/google/go-cmp/cmp"
)

func TestAsList(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want int
	}{
		{name: "absent", raw: "", want: 0},
		{name: "null", raw: "null", want: 0},
		{name: "blank string", raw: `""`, want: 0},
		{name: "whitespace string", raw: `"  "`, want: 0},
		{name: "number scalar", raw: `7`, want: 0},
		{name: "single object", raw: `{"Nr":"1"}`, want: 1},
		{name: "empty array", raw: `[]`, want: 0},
		{name: "array", raw: `[{"Nr":"1"},{"Nr":"2"}]`, want: 2},
	}

	for _, tc := range tests {
		items, err := asList([]byte(tc.raw))
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if len(items) != tc.want {
			t.Fatalf("%s: len=%d want=%d", tc.name, len(items), tc.want)
		}
	}
}

func TestDecodeContainerSingleObjectMatchesOneElementList(t *testing.T) {
	t.Parallel()

	single, err := decodeContainer[CardNode]([]byte(`{"Sods":{"Laiks":"10:00","Nr":"4"}}`), "Sods")
	if err != nil {
		t.Fatalf("decode single: %v", err)
	}
	list, err := decodeContainer[CardNode]([]byte(`{"Sods":[{"Laiks":"10:00","Nr":"4"}]}`), "Sods")
	if err != nil {
		t.Fatalf("decode list: %v", err)
	}

	if diff := cmp.Diff(list, single); diff != "" {
		t.Fatalf("single object decoded differently (-list +single):\n%s", diff)
	}
	if len(single) != 1 || single[0].Nr != 4 || single[0].Clock != "10:00" {
		t.Fatalf("unexpected card nodes: %+v", single)
	}
}

func TestDecodeContainerWithoutWrapperKey(t *testing.T) {
	t.Parallel()

	goals, err := decodeContainer[GoalNode]([]byte(`{"Laiks":"05:00","Nr":"11"}`), "VG")
	if err != nil {
		t.Fatalf("decode goals: %v", err)
	}
	if len(goals) != 1 || goals[0].Nr != 11 {
		t.Fatalf("unexpected goals: %+v", goals)
	}
}

func TestNumberLenientDecode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want Number
	}{
		{raw: `"12"`, want: 12},
		{raw: `12`, want: 12},
		{raw: `" 7 "`, want: 7},
		{raw: `"9a"`, want: 9},
		{raw: `"x"`, want: 0},
		{raw: `null`, want: 0},
		{raw: `""`, want: 0},
	}

	for _, tc := range tests {
		var n Number
		if err := sonic.UnmarshalString(tc.raw, &n); err != nil {
			t.Fatalf("decode %s: %v", tc.raw, err)
		}
		if n != tc.want {
			t.Fatalf("decode %s=%d want=%d", tc.raw, n, tc.want)
		}
	}
}
