package testutil

import (
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
)

type MariaDBContainerInfo struct {
	DSN     string
	Cleanup func()
}

func StartMariaDBContainer() (*MariaDBContainerInfo, error) {
	const rootPassword = "root"

	dsnFor := func(hostAddr string) string {
		return fmt.Sprintf("root:%s@(%s)/mysql?parseTime=true", rootPassword, hostAddr)
	}

	c, err := startContainer(&dockertest.RunOptions{
		Repository: "mariadb",
		Tag:        "10.11",
		Env:        []string{"MARIADB_ROOT_PASSWORD=" + rootPassword},
	}, "3306/tcp", func(hostAddr string) error {
		db, err := sql.Open("mysql", dsnFor(hostAddr))
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()
		return db.Ping()
	})
	if err != nil {
		return nil, err
	}

	return &MariaDBContainerInfo{DSN: dsnFor(c.HostAddr), Cleanup: c.purge}, nil
}
