package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expensedash/internal/models"
)

func TestImportDropsInvalidRows(t *testing.T) {
	csv := "Date,Category,Amount\n" +
		"2024-03-01,Food,15.5\n" +
		"bad-date,Food,10\n"

	records, result, err := Import(strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 1, result.Skipped)
	require.Len(t, records, 1)
	assert.Equal(t, "Food", records[0].Category)
	assert.Equal(t, 15.5, records[0].Amount)
	assert.Equal(t, models.DescriptionPlaceholder, records[0].Description)
}

func TestImportMissingColumnsRejectsWholesale(t *testing.T) {
	tests := []struct {
		name    string
		csv     string
		missing string
	}{
		{
			name:    "no amount",
			csv:     "Date,Category\n2024-03-01,Food\n",
			missing: "Amount",
		},
		{
			name:    "no date",
			csv:     "Category,Amount\nFood,10\n",
			missing: "Date",
		},
		{
			name:    "only description",
			csv:     "Description\nlunch\n",
			missing: "Date, Category, Amount",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, result, err := Import(strings.NewReader(tt.csv))
			require.Error(t, err)

			var missingErr *MissingColumnsError
			require.ErrorAs(t, err, &missingErr)
			assert.Contains(t, err.Error(), tt.missing)

			// Wholesale rejection: nothing imported at all.
			assert.Nil(t, records)
			assert.Equal(t, 0, result.Imported)
		})
	}
}

func TestImportOptionalDescription(t *testing.T) {
	csv := "Date,Category,Amount,Description\n" +
		"2024-03-01,Food,15.5,groceries\n" +
		"2024-03-02,Food,8,\n"

	records, result, err := Import(strings.NewReader(csv))
	require.NoError(t, err)
	require.Equal(t, 2, result.Imported)

	assert.Equal(t, "groceries", records[0].Description)
	assert.Equal(t, models.DescriptionPlaceholder, records[1].Description)
}

func TestImportIgnoresExtraColumns(t *testing.T) {
	csv := "Account,Date,Category,Amount,Balance\n" +
		"checking,2024-03-01,Transport,20,999\n"

	records, result, err := Import(strings.NewReader(csv))
	require.NoError(t, err)
	require.Equal(t, 1, result.Imported)

	assert.Equal(t, "Transport", records[0].Category)
	assert.Equal(t, 20.0, records[0].Amount)
}

func TestImportCoercesUnknownCategories(t *testing.T) {
	csv := "Date,Category,Amount\n2024-03-01,Lottery,5\n"

	records, _, err := Import(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, models.CategoryOther, records[0].Category)
}

func TestImportHeaderOnly(t *testing.T) {
	records, result, err := Import(strings.NewReader("Date,Category,Amount\n"))
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Equal(t, Result{}, result)
}

func TestImportEmptyInput(t *testing.T) {
	_, _, err := Import(strings.NewReader(""))
	assert.Error(t, err)
}

func TestImportTrimsHeaderWhitespace(t *testing.T) {
	csv := " Date , Category , Amount \n2024-03-01,Food,10\n"

	_, result, err := Import(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
}
