package health

import (
	"context"
	"database/sql"
	"fmt"
	"os"
)

// DatabaseCheck returns a probe that pings a SQL database. It works for any
// database/sql backend, including the campaign store and the ad library.
//
// Example:
//
//	checker.RegisterCheck("store", health.DatabaseCheck(store.DB()))
func DatabaseCheck(db *sql.DB) CheckFunc {
	return func(ctx context.Context) error {
		if db == nil {
			return fmt.Errorf("database not initialized")
		}
		if err := db.PingContext(ctx); err != nil {
			return fmt.Errorf("database ping failed: %w", err)
		}
		return nil
	}
}

// DirectoryCheck returns a probe that verifies a directory exists, for
// output locations like the report directory.
func DirectoryCheck(path string) CheckFunc {
	return func(ctx context.Context) error {
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("directory %q not accessible: %w", path, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("%q is not a directory", path)
		}
		return nil
	}
}
