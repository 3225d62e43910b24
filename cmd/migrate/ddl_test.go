package main

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitDDLStatements(t *testing.T) {
	stmts := splitDDLStatements(`
-- comment
CREATE TABLE a (
  id STRING(36) NOT NULL,
) PRIMARY KEY (id);

CREATE INDEX a_by_id ON a(id);
`)

	require.Len(t, stmts, 2)
	assert.True(t, strings.HasPrefix(stmts[0], "CREATE TABLE a ("))
	assert.Equal(t, "CREATE INDEX a_by_id ON a(id)", stmts[1])
}

func TestSplitDDLStatements_InitialSchema(t *testing.T) {
	content, err := os.ReadFile("../../migrations/001_initial_schema.sql")
	require.NoError(t, err)

	stmts := splitDDLStatements(string(content))

	require.Len(t, stmts, 6)
	assert.Contains(t, stmts[1], "UNIQUE INDEX adverts_by_slug")
	for _, stmt := range stmts {
		assert.NotContains(t, stmt, "--")
	}
}
