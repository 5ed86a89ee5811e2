package plink

// WhichSQLiteDriver names the database/sql driver used for indexes: "sqlite3"
// (cgo) or "sqlite" (pure Go).
func WhichSQLiteDriver() string {
	return whichSQLiteDriver
}
