package fetcher

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV_SniffsSemicolon(t *testing.T) {
	t.Parallel()

	in := "reference;intitule;montant\n2024-A017;Gants d'examen;50000\n"
	rows, err := ReadCSV(strings.NewReader(in), CSVOptions{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"reference", "intitule", "montant"}, rows[0])
	assert.Equal(t, []string{"2024-A017", "Gants d'examen", "50000"}, rows[1])
}

func TestReadCSV_SniffsComma(t *testing.T) {
	t.Parallel()

	rows, err := ReadCSV(strings.NewReader("a,b,c\n1,2,3\n"), CSVOptions{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"1", "2", "3"}, rows[1])
}

func TestReadCSV_ExplicitDelimiterAndSkip(t *testing.T) {
	t.Parallel()

	in := "export du 15/03/2024\nref|lot\n2024-A017|1\n"
	rows, err := ReadCSV(strings.NewReader(in), CSVOptions{Delimiter: '|', SkipRows: 1})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"ref", "lot"}, rows[0])
}

func TestReadCSV_TrimsFields(t *testing.T) {
	t.Parallel()

	rows, err := ReadCSV(strings.NewReader(" a ; b \n"), CSVOptions{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"a", "b"}, rows[0])
}

func TestReadCSV_VariableFieldCounts(t *testing.T) {
	t.Parallel()

	rows, err := ReadCSV(strings.NewReader("a;b;c\nd;e\n"), CSVOptions{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Len(t, rows[1], 2)
}

func TestReadCSV_BadQuoting(t *testing.T) {
	t.Parallel()

	in := "a,\"b\nc,d\n"
	_, err := ReadCSV(strings.NewReader(in), CSVOptions{Delimiter: ','})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "csv: read row")

	rows, err := ReadCSV(strings.NewReader(in), CSVOptions{Delimiter: ',', LazyQuotes: true})
	require.NoError(t, err)
	assert.NotEmpty(t, rows)
}

func TestDetectDelimiter_TiePrefersSemicolon(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ';', detectDelimiter([]byte("a;b,c\n")))
	assert.Equal(t, '\t', detectDelimiter([]byte("a\tb\tc\n")))
	assert.Equal(t, ',', detectDelimiter([]byte("plain line\n")))
}
