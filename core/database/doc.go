// Package database handles database connections and schema inspection.
//
// It wraps GORM to open either a MySQL server or a SQLite file, depending on the
// configured driver. The database is optional: it only backs the sync run history.
//
// # Schema Inspection
//
// GetTableColumns lists the columns of a table for the server integrity check,
// which compares them with the columns GORM derives from the history model.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Warn("History disabled", zap.Error(err))
//	}
//
//	columns, err := database.GetTableColumns(db, "sync_runs")
package database
