package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStationCode(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		want    StationCode
		wantErr bool
	}{
		{name: "simple code", code: "KJ18", want: StationCode{Line: "KJ", Ordinal: 18}},
		{name: "single digit", code: "AG1", want: StationCode{Line: "AG", Ordinal: 1}},
		{name: "zero ordinal", code: "PY0", want: StationCode{Line: "PY", Ordinal: 0}},
		{name: "too short", code: "KJ", wantErr: true},
		{name: "empty", code: "", wantErr: true},
		{name: "digit in prefix", code: "K118", wantErr: true},
		{name: "non numeric ordinal", code: "KJxx", wantErr: true},
		{name: "negative ordinal", code: "KJ-1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStationCode(tt.code)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.code, got.String())
		})
	}
}

func TestStationInRange(t *testing.T) {
	tests := []struct {
		name              string
		dep, dest, target string
		want              bool
	}{
		{name: "inside range", dep: "KJ18", dest: "KJ22", target: "KJ20", want: true},
		{name: "lower bound inclusive", dep: "KJ18", dest: "KJ22", target: "KJ18", want: true},
		{name: "upper bound inclusive", dep: "KJ18", dest: "KJ22", target: "KJ22", want: true},
		{name: "below range", dep: "KJ18", dest: "KJ22", target: "KJ17", want: false},
		{name: "above range", dep: "KJ18", dest: "KJ22", target: "KJ23", want: false},
		{name: "single station range", dep: "KJ5", dest: "KJ5", target: "KJ5", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := StationCodeInRange(tt.dep, tt.dest, tt.target)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			// direction-agnostic by construction
			reversed, err := StationCodeInRange(tt.dest, tt.dep, tt.target)
			require.NoError(t, err)
			assert.Equal(t, got, reversed)
		})
	}
}

func TestStationCodeInRangeRejectsBadCodes(t *testing.T) {
	_, err := StationCodeInRange("KJ18", "KJ22", "garbage")
	assert.Error(t, err)

	_, err = StationCodeInRange("??", "KJ22", "KJ20")
	assert.Error(t, err)
}
