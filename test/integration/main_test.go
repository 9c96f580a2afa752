package integration

import (
	"log"
	"os"
	"testing"

	"github.com/fhuszti/images-ms-go/test/testutil"
)

var minioInfo *testutil.MinIOContainerInfo

func TestMain(m *testing.M) {
	mariaInfo, err := testutil.StartMariaDBContainer()
	if err != nil {
		log.Fatalf("could not start MariaDB: %v", err)
	}
	if err := os.Setenv("TEST_DB_DSN", mariaInfo.DSN); err != nil {
		log.Fatalf("could not set TEST_DB_DSN: %v", err)
	}

	minioInfo, err = testutil.StartMinIOContainer()
	if err != nil {
		mariaInfo.Cleanup()
		log.Fatalf("could not start MinIO: %v", err)
	}

	code := m.Run()

	minioInfo.Cleanup()
	mariaInfo.Cleanup()
	os.Exit(code)
}

func setupDB(t *testing.T) *testutil.TestDB {
	t.Helper()
	tdb, err := testutil.SetupTestDB()
	if err != nil {
		t.Fatalf("setup test DB: %v", err)
	}
	t.Cleanup(func() {
		if err := tdb.Cleanup(); err != nil {
			t.Logf("cleanup test DB: %v", err)
		}
	})
	return tdb
}
