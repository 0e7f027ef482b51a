package testutil

import (
	"database/sql"
	"os"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	_ "github.com/go-sql-driver/mysql"
	. "github.com/smartystreets/goconvey/convey"
)

const (
	// EnvVarMySQLTest is the environment var, which must be present to run
	// MySQL tests
	EnvVarMySQLTest = "BANKTRANSFERD_MYSQLTEST"
	// EnvVarMySQLTestCrowdfundingDSN holds the DSN for the test crowdfunding database
	EnvVarMySQLTestCrowdfundingDSN = "BANKTRANSFERD_MYSQLTEST_DSN"
)

// WithCrowdfundingDB is a test decorator providing a DB connection to the test crowdfunding DB
func WithCrowdfundingDB(t *testing.T, f func(db *sql.DB)) func() {
	return func() {
		if os.Getenv(EnvVarMySQLTest) == "" {
			t.Skip("Skipping MySQL test")
			return
		}
		if os.Getenv(EnvVarMySQLTestCrowdfundingDSN) == "" {
			t.Skip("No crowdfunding DB DSN present. Skipping.")
			return
		}
		db, err := sql.Open("mysql", os.Getenv(EnvVarMySQLTestCrowdfundingDSN))

		So(err, ShouldBeNil)
		So(db, ShouldNotBeNil)

		err = db.Ping()
		So(err, ShouldBeNil)

		Reset(func() {
			db.Close()
		})

		f(db)
	}
}

// WithMockDB is a test decorator providing a sqlmock connection
//
// The expectations are not checked automatically.
func WithMockDB(f func(db *sql.DB, mock sqlmock.Sqlmock)) func() {
	return func() {
		db, mock, err := sqlmock.New()
		So(err, ShouldBeNil)

		Reset(func() {
			db.Close()
		})

		f(db, mock)
	}
}
