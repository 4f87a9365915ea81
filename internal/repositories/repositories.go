// Package repositories holds the data access layer. Each repository owns the
// SQL for one table; cross-table writes run inside a pgx transaction.
package repositories

import "strings"

// prefixColumns qualifies a comma-separated column list with a table alias.
func prefixColumns(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, p := range parts {
		parts[i] = alias + "." + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}
