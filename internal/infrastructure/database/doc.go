// Package database owns the hub's SQLite file.
//
// Only operational records live here, chiefly the audit trail. Live
// handler state is held in memory by the registry and never written.
// Schema changes are embedded migrations (see the migrations package)
// applied by Migrate at startup:
//
//	db, err := database.Open(cfg.Database)
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//	if err := db.Migrate(ctx); err != nil {
//	    return err
//	}
//
// Migrations are additive: new columns are nullable or defaulted, and
// each .up.sql ships with a .down.sql.
package database
