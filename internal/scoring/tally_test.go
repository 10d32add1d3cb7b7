package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTally_Code(t *testing.T) {
	tests := []struct {
		name string
		sums map[Axis]int64
		want string
	}{
		{
			name: "mixed signs",
			sums: map[Axis]int64{AxisEI: -3, AxisSN: 2, AxisTF: -1, AxisJP: 4},
			want: "ENTP",
		},
		{
			name: "all negative",
			sums: map[Axis]int64{AxisEI: -1, AxisSN: -7, AxisTF: -2, AxisJP: -5},
			want: "ESTJ",
		},
		{
			name: "all positive",
			sums: map[Axis]int64{AxisEI: 1, AxisSN: 7, AxisTF: 2, AxisJP: 5},
			want: "INFP",
		},
		{
			name: "zero sums tie to the high letter",
			sums: map[Axis]int64{AxisEI: 0, AxisSN: 0, AxisTF: 0, AxisJP: 0},
			want: "INFP",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var tally Tally
			for a, sum := range tt.sums {
				tally.Add(a, sum)
			}
			code, err := tally.Code()
			require.NoError(t, err)
			assert.Equal(t, tt.want, code)
			assert.True(t, IsValidCode(code))
		})
	}
}

func TestTally_ZeroBoundaryPerAxis(t *testing.T) {
	var tally Tally
	tally.Add(AxisEI, -2)
	tally.Add(AxisEI, 2)
	tally.Add(AxisSN, -1)
	tally.Add(AxisTF, -1)
	tally.Add(AxisJP, -1)

	code, err := tally.Code()
	require.NoError(t, err)
	assert.Equal(t, "ISTJ", code)
	assert.Equal(t, int64(0), tally.Sum(AxisEI))
}

func TestTally_MissingAxis(t *testing.T) {
	var tally Tally
	tally.AddTotal(AxisEI, -3, 2)
	tally.AddTotal(AxisTF, 1, 1)

	_, err := tally.Code()
	require.Error(t, err)

	var incomplete *IncompleteError
	require.ErrorAs(t, err, &incomplete)
	assert.Equal(t, []Axis{AxisSN, AxisJP}, incomplete.Missing)
	assert.Contains(t, err.Error(), "s_or_n, j_or_p")

	assert.Equal(t, map[string]int64{"e_or_i": -3, "t_or_f": 1}, tally.Sums())
}

func TestParseAxis(t *testing.T) {
	for _, a := range Axes {
		parsed, err := ParseAxis(a.Tag())
		require.NoError(t, err)
		assert.Equal(t, a, parsed)
	}

	_, err := ParseAxis("x_or_y")
	var unknown *UnknownAxisError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "x_or_y", unknown.Tag)
	assert.False(t, IsValidTag("E_OR_I"))
}

func TestAxis_Scan(t *testing.T) {
	var a Axis
	require.NoError(t, a.Scan([]byte("j_or_p")))
	assert.Equal(t, AxisJP, a)

	err := a.Scan("bogus")
	var unknown *UnknownAxisError
	assert.ErrorAs(t, err, &unknown)

	v, err := AxisSN.Value()
	require.NoError(t, err)
	assert.Equal(t, "s_or_n", v)
}

func TestIsValidCode(t *testing.T) {
	assert.True(t, IsValidCode("ESTJ"))
	assert.False(t, IsValidCode("EST"))
	assert.False(t, IsValidCode("estj"))
	assert.False(t, IsValidCode("SETJ"))
}
