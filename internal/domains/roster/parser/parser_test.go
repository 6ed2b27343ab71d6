package parser_test

import (
	"testing"

	"meetbook/internal/domains/roster/parser"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func workbook(t *testing.T, rows ...[]any) []byte {
	t.Helper()

	file := excelize.NewFile()
	t.Cleanup(func() { file.Close() })

	for i, row := range rows {
		cellName, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, file.SetSheetRow("Sheet1", cellName, &row))
	}

	buffer, err := file.WriteToBuffer()
	require.NoError(t, err)

	return buffer.Bytes()
}

func TestParse_Workbook(t *testing.T) {
	content := workbook(t,
		[]any{"Sr. No", "Email Address", "AcmeCo"},
		[]any{1, "a@x.com", "1PTR"},
		[]any{2, "b@x.com"},
	)

	rows, err := parser.Parse("Roster.XLSX", content)

	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Sr. No", "Email Address", "AcmeCo"}, rows[0])
	assert.Equal(t, []string{"1", "a@x.com", "1PTR"}, rows[1])
	assert.Equal(t, []string{"2", "b@x.com"}, rows[2])
}

func TestParse_CSV(t *testing.T) {
	content := []byte("\xEF\xBB\xBFEmail Address,AcmeCo,BetaCo\na@x.com,,1corp\nb@x.com\n")

	rows, err := parser.Parse("roster.csv", content)

	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Email Address", "AcmeCo", "BetaCo"},
		{"a@x.com", "", "1corp"},
		{"b@x.com"},
	}, rows)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		content  []byte
		wantIs   error
	}{
		{name: "unsupported extension", fileName: "roster.pdf", content: []byte("%PDF"), wantIs: parser.ErrUnsupportedFormat},
		{name: "corrupted workbook", fileName: "roster.xlsx", content: []byte("not a zip archive")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.Parse(tt.fileName, tt.content)

			require.Error(t, err)

			if tt.wantIs != nil {
				assert.ErrorIs(t, err, tt.wantIs)
			}
		})
	}
}
