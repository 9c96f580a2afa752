package e2e

import (
	"log"
	"os"
	"testing"

	"github.com/fhuszti/images-ms-go/test/testutil"
)

var (
	minioInfo *testutil.MinIOContainerInfo
	redisInfo *testutil.RedisContainerInfo
)

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

	redisInfo, err = testutil.StartRedisContainer()
	if err != nil {
		minioInfo.Cleanup()
		mariaInfo.Cleanup()
		log.Fatalf("could not start Redis: %v", err)
	}

	code := m.Run()

	redisInfo.Cleanup()
	minioInfo.Cleanup()
	mariaInfo.Cleanup()
	os.Exit(code)
}
