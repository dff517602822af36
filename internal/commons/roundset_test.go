package commons

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestRoundSetUnmarshalShapes(t *testing.T) {
	cases := map[string][]int{
		`[3, 1, 3]`: {1, 3},
		`2`:         {2},
		`"4"`:       {4},
		`"3,4, 9"`:  {3, 4, 9},
		`""`:        {},
		`null`:      {},
		`["5", 6]`:  {5, 6},
	}
	for input, want := range cases {
		var payload struct {
			Rounds RoundSet `json:"rounds"`
		}
		if err := json.Unmarshal([]byte(`{"rounds":`+input+`}`), &payload); err != nil {
			t.Fatalf("%s: unexpected error %v", input, err)
		}
		if got := payload.Rounds.Sorted(); !reflect.DeepEqual(got, want) {
			t.Fatalf("%s: got %v want %v", input, got, want)
		}
	}
}

func TestRoundSetRejectsInvalidRounds(t *testing.T) {
	for _, input := range []string{`[0]`, `-1`, `"two"`, `{"a":1}`, `[1.5]`} {
		var set RoundSet
		if err := json.Unmarshal([]byte(input), &set); err == nil {
			t.Fatalf("%s: expected an error", input)
		}
	}
}

func TestParseRoundSet(t *testing.T) {
	set, err := ParseRoundSet(" 1, 2;7 ")
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if !set.Contains(7) || set.Contains(3) {
		t.Fatalf("unexpected set %v", set.Sorted())
	}
	empty, err := ParseRoundSet("")
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected empty set, got %v %v", empty, err)
	}
}
