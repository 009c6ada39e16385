package database

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func TestGetTableColumns(t *testing.T) {
	// Setup In-Memory DB
	cfg := Config{
		Driver: "sqlite",
		Name:   ":memory:",
	}
	db, err := Connect(cfg)
	require.NoError(t, err)
	require.NotNil(t, db)

	err = db.Exec("CREATE TABLE dz_company (id INTEGER PRIMARY KEY, depcode VARCHAR(20) NOT NULL, depjob VARCHAR(100) NOT NULL, description TEXT)").Error
	require.NoError(t, err)

	columns, err := GetTableColumns(db, "dz_company")
	assert.NoError(t, err)
	assert.Len(t, columns, 4)

	colMap := make(map[string]ColumnInfo)
	for _, col := range columns {
		colMap[col.Field] = col
	}

	assert.Equal(t, "integer", colMap["id"].Type)
	assert.Equal(t, "varchar(20)", colMap["depcode"].Type)
	assert.Equal(t, "NO", colMap["depjob"].Null)
	assert.Equal(t, "YES", colMap["description"].Null)

	// PRAGMA table_info returns empty result for non-existent table
	cols, err := GetTableColumns(db, "non_existent")
	assert.NoError(t, err)
	assert.Empty(t, cols)
}

func TestRequireColumns(t *testing.T) {
	db, err := Connect(Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.Exec("CREATE TABLE DZ_COMPANY (DEPCODE TEXT, DEPJOB TEXT)").Error)

	t.Run("All present", func(t *testing.T) {
		assert.NoError(t, RequireColumns(db, "DZ_COMPANY", "DEPCODE", "depjob"))
	})

	t.Run("Missing column", func(t *testing.T) {
		err := RequireColumns(db, "DZ_COMPANY", "DEPCODE", "DEPJOB", "DESCRIPTION")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "DESCRIPTION")
	})

	t.Run("Missing table", func(t *testing.T) {
		err := RequireColumns(db, "NOPE", "DEPCODE")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})
}

func TestGetTableColumns_MySQL(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{})
	require.NoError(t, err)

	rows := sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"}).
		AddRow("DEPCODE", "VARCHAR(20)", "NO", "PRI", nil, "").
		AddRow("DEPJOB", "VARCHAR(100)", "NO", "PRI", nil, "").
		AddRow("DESCRIPTION", "VARCHAR(255)", "YES", "", nil, "")
	mock.ExpectQuery("SHOW COLUMNS FROM `DZ_COMPANY`").WillReturnRows(rows)

	columns, err := GetTableColumns(db, "DZ_COMPANY")
	require.NoError(t, err)
	require.Len(t, columns, 3)
	assert.Equal(t, "depcode", columns[0].Field)
	assert.Equal(t, "varchar(255)", columns[2].Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}
