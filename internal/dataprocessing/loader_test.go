package dataprocessing

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "szncli/internal/errors"
)

func TestCSVLoaderBasic(t *testing.T) {
	input := strings.Join([]string{
		"Ticker,Date,Open,High,Low,Close,Volume",
		"TASC,2024-01-02,10.0,10.5,9.8,10.2,1500",
		"TASC,2024-01-03,10.2,10.4,10.0,10.1,900",
	}, "\n")

	bars, err := NewCSVLoader(nil).Load(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, bars, 2)

	assert.Equal(t, "TASC", bars[0].Ticker)
	assert.Equal(t, time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC), bars[0].Date)
	assert.Equal(t, 10.2, bars[0].Close)
	assert.Equal(t, 1500.0, bars[0].Volume)
	assert.Nil(t, bars[0].OpenInterest)
}

func TestCSVLoaderReorderedHeaderAndBOM(t *testing.T) {
	input := "\ufeffClose,Symbol,Date\n5.50,ACME,01/15/2024\n"

	bars, err := NewCSVLoader(nil).Load(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, bars, 1)

	assert.Equal(t, "ACME", bars[0].Ticker)
	assert.Equal(t, time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC), bars[0].Date)
	assert.Equal(t, 5.5, bars[0].Close)
	// Missing OHLC columns degrade to the close.
	assert.Equal(t, 5.5, bars[0].Open)
	assert.Equal(t, 5.5, bars[0].High)
	assert.Equal(t, 5.5, bars[0].Low)
}

func TestCSVLoaderOpenInterestAndThousandsSeparators(t *testing.T) {
	input := "ticker,date,close,volume,open_interest\nWTI,2024-03-04,82.1,\"1,250,000\",\"45,000\"\n"

	bars, err := NewCSVLoader(nil).Load(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, bars, 1)

	assert.Equal(t, 1250000.0, bars[0].Volume)
	require.NotNil(t, bars[0].OpenInterest)
	assert.Equal(t, 45000.0, *bars[0].OpenInterest)
}

func TestCSVLoaderMissingRequiredColumn(t *testing.T) {
	input := "Ticker,Open,High,Low,Close\nTASC,1,2,0.5,1.5\n"

	_, err := NewCSVLoader(nil).Load(strings.NewReader(input))
	require.Error(t, err)

	var app *apperrors.AppError
	require.ErrorAs(t, err, &app)
	assert.Equal(t, apperrors.ErrTypeParsing, app.Type)
	assert.Contains(t, err.Error(), "date")
}

func TestCSVLoaderBadRows(t *testing.T) {
	tests := []struct {
		name string
		row  string
	}{
		{"bad_date", "TASC,notadate,1.5"},
		{"bad_close", "TASC,2024-01-02,abc"},
		{"missing_ticker", ",2024-01-02,1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := "ticker,date,close\n" + tt.row + "\n"
			_, err := NewCSVLoader(nil).Load(strings.NewReader(input))
			require.Error(t, err)
		})
	}
}

func TestCSVLoaderEmptyInput(t *testing.T) {
	_, err := NewCSVLoader(nil).Load(strings.NewReader(""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestCSVLoaderLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tasc.csv")
	content := "ticker,date,close\nTASC,2024-01-02,10\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	bars, err := NewCSVLoader(nil).LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, bars, 1)

	_, err = NewCSVLoader(nil).LoadFile(filepath.Join(dir, "missing.csv"))
	require.Error(t, err)
}
