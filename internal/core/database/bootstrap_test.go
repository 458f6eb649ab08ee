package db

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBootstrapScriptEmbedded(t *testing.T) {
	b, err := bootstrapFS.ReadFile("scripts/initdb.sql")
	require.NoError(t, err)
	sql := string(b)

	assert.Contains(t, sql, "CREATE TABLE IF NOT EXISTS invoice_analyses")
	assert.Contains(t, sql, "CREATE TABLE IF NOT EXISTS fatura_meta")
	// the recorded version must match what EnsureBootstrapped checks for
	assert.True(t, strings.Contains(sql, "VALUES (1)") && schemaVersion == 1)
}

func TestNewDatabaseClient_RequiresURL(t *testing.T) {
	_, err := NewDatabaseClient(context.Background(), nil)
	assert.Error(t, err)
}
