package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/contract-archive/internal/model"
)

func TestMigrationStatementsPerDialect(t *testing.T) {
	pg := migrationStatements("postgres")
	require.Len(t, pg, len(model.Tables))
	assert.Contains(t, pg[0], "CREATE TABLE IF NOT EXISTS contracts")
	assert.Contains(t, pg[0], "JSONB")

	lite := migrationStatements("sqlite")
	require.Len(t, lite, len(model.Tables))
	assert.Contains(t, lite[4], "system_settings")
	assert.Contains(t, lite[4], "TEXT")
}
