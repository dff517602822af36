package commons

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// RoundSet is the set of round numbers whose player names are disclosed.
type RoundSet map[int]struct{}

func NewRoundSet(rounds ...int) RoundSet {
	set := make(RoundSet, len(rounds))
	for _, round := range rounds {
		if round > 0 {
			set[round] = struct{}{}
		}
	}
	return set
}

func (s RoundSet) Contains(round int) bool {
	_, ok := s[round]
	return ok
}

// Sorted returns the members in ascending order.
func (s RoundSet) Sorted() []int {
	rounds := make([]int, 0, len(s))
	for round := range s {
		rounds = append(rounds, round)
	}
	sort.Ints(rounds)
	return rounds
}

// ParseRoundSet reads the owner's free-text list, e.g. "3,4, 5 9". Blank
// input is the empty set.
func ParseRoundSet(raw string) (RoundSet, error) {
	set := RoundSet{}
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' ' || r == ';' || r == '\t' || r == '\n'
	})
	for _, field := range fields {
		value, err := strconv.Atoi(field)
		if err != nil || value <= 0 {
			return nil, fmt.Errorf("invalid round number %q", field)
		}
		set[value] = struct{}{}
	}
	return set, nil
}

// UnmarshalJSON accepts a list of numbers, a single number, or a string in
// the ParseRoundSet format.
func (s *RoundSet) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		*s = RoundSet{}
		return nil
	}
	var list []json.Number
	if err := json.Unmarshal(data, &list); err == nil {
		set := RoundSet{}
		for _, item := range list {
			value, err := roundNumber(item)
			if err != nil {
				return err
			}
			set[value] = struct{}{}
		}
		*s = set
		return nil
	}
	var scalar json.Number
	if err := json.Unmarshal(data, &scalar); err == nil {
		value, err := roundNumber(scalar)
		if err != nil {
			return err
		}
		*s = NewRoundSet(value)
		return nil
	}
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return fmt.Errorf("rounds must be a list, a number or a string")
	}
	set, err := ParseRoundSet(text)
	if err != nil {
		return err
	}
	*s = set
	return nil
}

func (s RoundSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

func roundNumber(value json.Number) (int, error) {
	parsed, err := strconv.Atoi(value.String())
	if err != nil || parsed <= 0 {
		return 0, fmt.Errorf("invalid round number %q", value.String())
	}
	return parsed, nil
}
