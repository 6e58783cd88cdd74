package database

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// The statements run unconditionally on every start, so each must be a form
// PostgreSQL accepts when the object already exists. ADD CONSTRAINT has no
// IF NOT EXISTS variant and would abort the boot on the second run.
func TestConstraintStatementsAreIdempotent(t *testing.T) {
	for _, stmt := range constraintStatements {
		normalized := strings.Join(strings.Fields(stmt), " ")

		assert.NotContains(t, normalized, "ADD CONSTRAINT",
			"no idempotent ADD CONSTRAINT form exists: %s", normalized)
		assert.True(t,
			strings.HasPrefix(normalized, "CREATE UNIQUE INDEX IF NOT EXISTS") ||
				strings.HasPrefix(normalized, "CREATE INDEX IF NOT EXISTS"),
			"statement is not rerun-safe: %s", normalized)
	}
}
