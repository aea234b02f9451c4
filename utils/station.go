package utils

import (
	"fmt"
	"strconv"
	"unicode"
)

// StationCode is a parsed station id such as "KJ18": a 2-letter line
// prefix plus the stop's integer ordinal on that line.
type StationCode struct {
	Line    string
	Ordinal int
}

func (c StationCode) String() string {
	return fmt.Sprintf("%s%d", c.Line, c.Ordinal)
}

// ParseStationCode validates and splits a raw station code. Callers
// decide whether a failure skips the item or aborts the request.
func ParseStationCode(code string) (StationCode, error) {
	if len(code) < 3 {
		return StationCode{}, fmt.Errorf("station code %q too short", code)
	}
	prefix := code[:2]
	for _, r := range prefix {
		if !unicode.IsLetter(r) {
			return StationCode{}, fmt.Errorf("station code %q has non-letter prefix", code)
		}
	}
	ordinal, err := strconv.Atoi(code[2:])
	if err != nil || ordinal < 0 {
		return StationCode{}, fmt.Errorf("station code %q has invalid ordinal", code)
	}
	return StationCode{Line: prefix, Ordinal: ordinal}, nil
}

// StationInRange reports whether target sits between departing and
// destination on the line, inclusive of both ends. Symmetric in the
// departing/destination order.
func StationInRange(departing, destination, target StationCode) bool {
	lower := departing.Ordinal
	upper := destination.Ordinal
	if lower > upper {
		lower, upper = upper, lower
	}
	return lower <= target.Ordinal && target.Ordinal <= upper
}

// StationCodeInRange is the raw-string form: any unparsable code means
// the answer is an error, never a silent false.
func StationCodeInRange(departing, destination, target string) (bool, error) {
	dep, err := ParseStationCode(departing)
	if err != nil {
		return false, err
	}
	dest, err := ParseStationCode(destination)
	if err != nil {
		return false, err
	}
	tgt, err := ParseStationCode(target)
	if err != nil {
		return false, err
	}
	return StationInRange(dep, dest, tgt), nil
}
