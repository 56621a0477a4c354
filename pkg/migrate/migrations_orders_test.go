package migrate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsDirValidates(t *testing.T) {
	require.NoError(t, ValidateDir("migrations"))
}

func TestOrdersSchemaMigrationCoversCoreTables(t *testing.T) {
	entries, err := os.ReadDir("migrations")
	require.NoError(t, err)

	var schema string
	for _, e := range entries {
		if strings.Contains(e.Name(), "orders_schema") {
			b, err := os.ReadFile(filepath.Join("migrations", e.Name()))
			require.NoError(t, err)
			schema = string(b)
		}
	}
	require.NotEmpty(t, schema, "orders schema migration missing")

	assert.Contains(t, schema, "CREATE TABLE orders")
	assert.Contains(t, schema, "CREATE TABLE order_line_items")
	assert.Contains(t, schema, "CREATE TABLE order_status_events")
	assert.Contains(t, schema, "UNIQUE (order_number)")
	for _, status := range []string{"pending", "accepted", "rejected", "preparing", "out_for_delivery", "delivered", "completed", "cancelled"} {
		assert.Contains(t, schema, "'"+status+"'")
	}
}
