// internal/config/database.go
package config

import (
	"fmt"
	"strings"
)

// DSN renders the postgres connection string. The application name makes
// this service's sessions identifiable in pg_stat_activity.
func (d *DatabaseConfig) DSN() string {
	parts := []string{
		fmt.Sprintf("host=%s", d.Host),
		fmt.Sprintf("port=%s", d.Port),
		fmt.Sprintf("user=%s", d.User),
		fmt.Sprintf("password=%s", d.Password),
		fmt.Sprintf("dbname=%s", d.Database),
		fmt.Sprintf("sslmode=%s", d.SSLMode),
		"application_name=gameshare",
	}

	return strings.Join(parts, " ")
}
