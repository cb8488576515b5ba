package testutil

import (
	"database/sql"
	"fmt"
	configlibsql "olasagents-backend/lib/configutil/libsql"
	"olasagents-backend/lib/telemetry"
	"testing"
)

type ServiceParams struct {
	Name string
	// if unspecified, it will skip setting up a db
	DbSchema string
	// if unspecified, it will use `:memory:`
	DbPath string
}

type ServiceResult struct {
	DB *sql.DB
}

// SetupService installs test telemetry and opens the service database, both
// are torn down when the test ends.
func SetupService(t testing.TB, params ServiceParams) ServiceResult {
	t.Cleanup(telemetry.SetupForTesting(t, fmt.Sprintf("test:%s", params.Name)))

	if params.DbSchema == "" {
		return ServiceResult{}
	}

	dbpath := params.DbPath
	if dbpath == "" {
		dbpath = ":memory:"
	}
	db, err := configlibsql.Struct{File: dbpath}.OpenDB(params.DbSchema)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		db.Close()
	})

	return ServiceResult{DB: db}
}
