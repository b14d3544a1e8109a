// Package database handles database connections and schema inspection.
//
// Connect opens a GORM connection for the configured driver: MySQL in
// production, SQLite for local runs and tests. The SQLite pool is limited to a
// single connection so that ":memory:" databases are shared.
//
// GetTableColumns and MissingColumns let stores check that an existing table
// carries the columns they need before serving requests.
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", zap.Error(err))
//	}
package database
