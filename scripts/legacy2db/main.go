package main

import (
	"context"
	"encoding/json"
	"io/ioutil"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/sirupsen/logrus"

	serviceimpl "github.com/nocturna-net/selene/internal/service/impl"
	"github.com/nocturna-net/selene/internal/storage/sqlite"
	"github.com/nocturna-net/selene/internal/storage/sqlite/migrations"
	"github.com/nocturna-net/selene/internal/wallet"
)

var opts = struct {
	Dump string `long:"dump" env:"DUMP" default:"dump.json" description:"path to the legacy browser dump"`
	DB   string `long:"db" env:"DB" default:"selene.db" description:"path to the sqlite database file"`
}{}

func main() {
	parser := flags.NewParser(&opts, flags.Default)
	parser.ShortDescription = "legacy2db"
	parser.LongDescription = "Legacy browser dump to database importer"

	_, err := parser.Parse()

	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			parser.WriteHelp(os.Stdout)
			os.Exit(0)
		}
		logrus.WithError(err).Fatal("error occurred while parsing flags")
	}

	logrus.Info("legacy2db started")
	logrus.Infof("%+v", opts)

	b, err := ioutil.ReadFile(opts.Dump)
	if err != nil {
		logrus.WithError(err).Fatal("failed to read dump")
	}

	records, err := extractRecords(b)
	if err != nil {
		logrus.WithError(err).Fatal("failed to unmarshal dump")
	}

	db, err := sqlite.Open(opts.DB)
	if err != nil {
		logrus.WithError(err).Fatal("failed to open database")
	}
	defer db.Close()

	if err := migrations.Up(db); err != nil {
		logrus.WithError(err).Fatal("failed to migrate db")
	}

	svc := serviceimpl.New(sqlite.New(db), wallet.NewMemory(0))

	report, err := svc.ImportLegacy(context.Background(), records)
	if err != nil {
		logrus.WithError(err).Fatal("failed to import dump")
	}

	for _, e := range report.Errors {
		logrus.Warn(e)
	}

	logrus.Infof("%d records imported, %d skipped", report.Imported, report.Skipped)
	logrus.Info("done")
}

// extractRecords accepts both dump shapes: a bare array of records and
// an object with a records field.
func extractRecords(b []byte) ([]json.RawMessage, error) {
	var records []json.RawMessage
	if err := json.Unmarshal(b, &records); err == nil {
		return records, nil
	}

	var wrapped struct {
		Records []json.RawMessage `json:"records"`
	}
	if err := json.Unmarshal(b, &wrapped); err != nil {
		return nil, err
	}

	return wrapped.Records, nil
}
