package postgres

import (
	"database/sql"
	"os"
	"testing"

	"github.com/ory/dockertest/v3"
	"github.com/sirupsen/logrus"

	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data/digitalaccess"
	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data/digitalaccess/tests"

	postgrestest "github.com/franRappazzini/boltick-contracts/pkg/database/postgres/test"

	_ "github.com/jackc/pgx/v4/stdlib"
)

const (
	// Used for testing ONLY, the table and migrations are external to this repository
	tableCreate = `
		CREATE TABLE boltick__ticketing_digitalaccess(
			id SERIAL NOT NULL PRIMARY KEY,

			address TEXT NOT NULL UNIQUE,
			event TEXT NOT NULL,
			access_id SMALLINT NOT NULL,

			price BIGINT NOT NULL CHECK (price >= 0),
			max_supply BIGINT NOT NULL CHECK (max_supply > 0),
			current_minted BIGINT NOT NULL CHECK (current_minted >= 0 AND current_minted <= max_supply),

			name TEXT NOT NULL,
			symbol TEXT NOT NULL,
			description TEXT NOT NULL,
			uri TEXT NOT NULL,

			bump SMALLINT NOT NULL,

			version BIGINT NOT NULL,

			created_at TIMESTAMP WITH TIME ZONE NOT NULL,
			last_updated_at TIMESTAMP WITH TIME ZONE NOT NULL,

			CONSTRAINT boltick__ticketing_digitalaccess__uniq__event__and__access_id UNIQUE (event, access_id)
		);
	`

	// Used for testing ONLY, the table and migrations are external to this repository
	tableDestroy = `
		DROP TABLE boltick__ticketing_digitalaccess;
	`
)

var (
	testStore digitalaccess.Store
	teardown  func()
)

func TestMain(m *testing.M) {
	log := logrus.StandardLogger()

	testPool, err := dockertest.NewPool("")
	if err == nil {
		err = testPool.Client.Ping()
	}
	if err != nil {
		log.WithError(err).Warn("Docker is unavailable, skipping postgres tests")
		os.Exit(m.Run())
	}

	db, cleanUpFunc, err := postgrestest.StartPostgresDB(testPool)
	if err != nil {
		log.WithError(err).Error("Error starting postgres image")
		os.Exit(1)
	}
	defer db.Close()

	if err := createTestTables(db); err != nil {
		log.WithError(err).Error("Error creating test tables")
		cleanUpFunc()
		os.Exit(1)
	}

	testStore = New(db)
	teardown = func() {
		if pc := recover(); pc != nil {
			cleanUpFunc()
			panic(pc)
		}

		if err := resetTestTables(db); err != nil {
			log.WithError(err).Error("Error resetting test tables")
			cleanUpFunc()
			os.Exit(1)
		}
	}

	code := m.Run()
	cleanUpFunc()
	os.Exit(code)
}

func TestDigitalAccessPostgresStore(t *testing.T) {
	if testStore == nil {
		t.Skip("requires docker")
	}
	tests.RunTests(t, testStore, teardown)
}

func createTestTables(db *sql.DB) error {
	_, err := db.Exec(tableCreate)
	if err != nil {
		logrus.StandardLogger().WithError(err).Error("could not create test tables")
		return err
	}
	return nil
}

func resetTestTables(db *sql.DB) error {
	_, err := db.Exec(tableDestroy)
	if err != nil {
		logrus.StandardLogger().WithError(err).Error("could not drop test tables")
		return err
	}

	return createTestTables(db)
}
