package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortable_OrderBy(t *testing.T) {
	tests := []struct {
		name     string
		spec     sortable
		key, dir string
		column   string
		desc     bool
	}{
		{"order default is newest first", orderSort, "", "", "order_date", true},
		{"alias resolves to column", orderSort, "total", "asc", "total_amount", false},
		{"direction is case insensitive", orderSort, "status", " DESC ", "status", true},
		{"partner default ascending", partnerSort, "", "", "name", false},
		{"unknown key falls back", partnerSort, "password", "desc", "name", true},
		{"unknown direction keeps default", productSort, "created_at", "sideways", "created_at", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.spec.orderBy(tt.key, tt.dir)
			assert.Equal(t, tt.column, got.Column.Name)
			assert.Equal(t, tt.desc, got.Desc)
		})
	}
}

func TestSortable_RejectsInjection(t *testing.T) {
	for _, payload := range []string{
		"id; DROP TABLE orders;--",
		"order_date' OR '1'='1",
		"order_date, (SELECT 1)",
		"order_date\n; DELETE FROM orders",
	} {
		got := orderSort.orderBy(payload, payload)
		assert.Equal(t, "order_date", got.Column.Name, payload)
		assert.True(t, got.Desc, payload)
	}
}
