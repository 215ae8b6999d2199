package db

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"
)

func TestMigrate(t *testing.T) {
	t.Run("applies embedded schema", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS categories")).
			WillReturnResult(pgxmock.NewResult("CREATE", 0))

		require.NoError(t, Migrate(context.Background(), mock))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("wraps errors", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		execErr := errors.New("permission denied")
		mock.ExpectExec("CREATE TABLE").WillReturnError(execErr)

		err = Migrate(context.Background(), mock)

		require.ErrorIs(t, err, execErr)
		require.ErrorContains(t, err, "apply schema")
	})
}

func TestReset(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(regexp.QuoteMeta("TRUNCATE menu_items, subcategories, categories")).
		WillReturnResult(pgxmock.NewResult("TRUNCATE", 0))

	require.NoError(t, Reset(context.Background(), mock))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSchema(t *testing.T) {
	ddl := Schema()

	for _, table := range []string{"categories", "subcategories", "menu_items", "price_templates"} {
		require.Contains(t, ddl, "CREATE TABLE IF NOT EXISTS "+table)
	}
	require.Contains(t, ddl, "REFERENCES subcategories (category_id, id)")
}
