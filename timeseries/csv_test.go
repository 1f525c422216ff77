package timeseries

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sartorproj/revcast/fault"
)

func TestReadCSV(t *testing.T) {
	t.Parallel()

	data := `date,revenue
2024-01-01,100
2024-01-02,101.5
2024-01-03,102`

	s, err := ReadCSV(strings.NewReader(data), nil)
	require.NoError(t, err)

	require.Equal(t, 3, s.Len())
	assert.Equal(t, []float64{100, 101.5, 102}, s.Values)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), s.FirstDate())
	assert.True(t, s.IsDaily())
}

func TestReadCSVNullsBecomeNaN(t *testing.T) {
	t.Parallel()

	data := `ds,revenue
2024-01-01,100
2024-01-02,NA
2024-01-03,
2024-01-04,null
2024-01-05,104`

	s, err := ReadCSV(strings.NewReader(data), nil)
	require.NoError(t, err)

	require.Equal(t, 5, s.Len())
	assert.Equal(t, 100.0, s.Values[0])
	assert.True(t, math.IsNaN(s.Values[1]))
	assert.True(t, math.IsNaN(s.Values[2]))
	assert.True(t, math.IsNaN(s.Values[3]))
	assert.Equal(t, 104.0, s.Values[4])
}

func TestReadCSVCustomColumns(t *testing.T) {
	t.Parallel()

	data := "day;earnings;country\n2024-03-01;5;NZ\n2024-03-02;6;NZ\n"
	opts := &CSVOptions{DateColumn: "day", ValueColumn: "earnings", Delimiter: ';'}

	s, err := ReadCSV(strings.NewReader(data), opts)
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 6}, s.Values)
	assert.Equal(t, "earnings", s.Name)
}

func TestReadCSVErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
	}{
		{"empty", ""},
		{"missing value column", "date,clicks\n2024-01-01,3\n"},
		{"missing date column", "revenue\n3\n"},
		{"header only", "date,revenue\n"},
		{"bad date", "date,revenue\nyesterday,3\n"},
		{"bad value", "date,revenue\n2024-01-01,three\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.data), nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, fault.ErrData)
		})
	}
}

func TestWriteCSVRoundTrip(t *testing.T) {
	t.Parallel()

	in := NewDaily(time.Date(2024, 5, 30, 0, 0, 0, 0, time.UTC), []float64{1.25, math.NaN(), 3})

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, in))
	assert.Equal(t, "date,revenue\n2024-05-30,1.25\n2024-05-31,\n2024-06-01,3\n", buf.String())

	out, err := ReadCSV(&buf, nil)
	require.NoError(t, err)
	assert.True(t, in.Equal(out))
}
