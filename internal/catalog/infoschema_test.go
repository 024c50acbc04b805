package catalog

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInfoSchemaInspectorPostgres(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(`SELECT TABLE_NAME FROM INFORMATION_SCHEMA.TABLES\s+WHERE TABLE_SCHEMA = current_schema\(\)`).
		WillReturnRows(sqlmock.NewRows([]string{"TABLE_NAME"}).
			AddRow("flights").
			AddRow("crew"))
	mock.ExpectQuery(`SELECT COLUMN_NAME, DATA_TYPE FROM INFORMATION_SCHEMA.COLUMNS`).
		WithArgs("flights").
		WillReturnRows(sqlmock.NewRows([]string{"COLUMN_NAME", "DATA_TYPE"}).
			AddRow("flight_id", "integer").
			AddRow("airline", "character varying").
			AddRow("departure", "timestamp with time zone"))
	mock.ExpectQuery(`SELECT COLUMN_NAME, DATA_TYPE FROM INFORMATION_SCHEMA.COLUMNS`).
		WithArgs("crew").
		WillReturnRows(sqlmock.NewRows([]string{"COLUMN_NAME", "DATA_TYPE"}).
			AddRow("badge", "bytea"))

	insp := infoSchemaInspector{schemaExpr: "current_schema()", placeholder: "$1"}
	schema, err := insp.Inspect(context.Background(), db)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	require.Len(t, schema, 2)
	require.Len(t, schema["flights"], 3)
	assert.Equal(t, CategoryNumeric, schema["flights"][0].Category)
	assert.Equal(t, CategoryText, schema["flights"][1].Category)
	assert.Equal(t, CategoryTemporal, schema["flights"][2].Category)
	// bytea carries none of the classification markers.
	assert.Equal(t, CategoryUnknown, schema["crew"][0].Category)
}

func TestInfoSchemaInspectorMySQL(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(`SELECT TABLE_NAME FROM INFORMATION_SCHEMA.TABLES\s+WHERE TABLE_SCHEMA = DATABASE\(\)`).
		WillReturnRows(sqlmock.NewRows([]string{"TABLE_NAME"}).
			AddRow("transactions"))
	mock.ExpectQuery(`SELECT COLUMN_NAME, DATA_TYPE FROM INFORMATION_SCHEMA.COLUMNS`).
		WithArgs("transactions").
		WillReturnRows(sqlmock.NewRows([]string{"COLUMN_NAME", "DATA_TYPE"}).
			AddRow("transaction_id", "bigint").
			AddRow("merchant", "varchar").
			AddRow("settled", "datetime"))

	insp := infoSchemaInspector{schemaExpr: "DATABASE()", placeholder: "?"}
	schema, err := insp.Inspect(context.Background(), db)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	cols := schema["transactions"]
	require.Len(t, cols, 3)
	assert.Equal(t, "transaction_id [numeric]", cols[0].Display())
	assert.Equal(t, "merchant [text]", cols[1].Display())
	assert.Equal(t, "settled [temporal]", cols[2].Display())
}

func TestInfoSchemaInspectorTablesError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(`SELECT TABLE_NAME FROM INFORMATION_SCHEMA.TABLES`).
		WillReturnError(assert.AnError)

	insp := infoSchemaInspector{schemaExpr: "current_schema()", placeholder: "$1"}
	_, err = insp.Inspect(context.Background(), db)
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}
