// Package database handles database connections and schema migration.
//
// It provides a wrapper around GORM (Go Object Relational Mapping) to properly
// configure connections based on the application's configuration. MySQL is the
// production engine; sqlite backs local runs and in-memory test databases.
//
// # Connect
//
// The generic Connect function establishes a connection for the configured
// driver, applies pool settings and verifies the connection with a ping.
//
// # Migration
//
// Migrate wraps GORM's AutoMigrate for the entity tables a feature owns.
// Features pass their model list at startup; the reconciliation handlers
// assume the schema exists.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	err = database.Migrate(db, models.All()...)
package database
