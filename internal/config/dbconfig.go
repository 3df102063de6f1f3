package config

//
// dbconfig.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"gitlab.com/kabes/go-integwatch/internal/aerr"
)

const (
	DriverSqlite   = "sqlite3"
	DriverPostgres = "postgres"
)

// DBConfig select subscribers registry database.
type DBConfig struct {
	Driver  string
	Connstr string
}

func NewDBConfig(driver, connstr string) DBConfig {
	return DBConfig{
		Driver:  mapDriverName(driver),
		Connstr: connstr,
	}
}

func (d *DBConfig) Validate() error {
	if d.Connstr == "" {
		return aerr.ErrValidation.WithUserMsg("db.connstr argument can't be empty")
	}

	switch d.Driver {
	case "":
		return aerr.ErrValidation.WithUserMsg("db.driver argument can't be empty")
	case DriverSqlite, DriverPostgres:
		return nil
	default:
		return aerr.ErrValidation.WithUserMsg("invalid (unsupported) db.driver %q", d.Driver)
	}
}

func mapDriverName(driver string) string {
	switch driver {
	case "sqlite", "sqlite3":
		return DriverSqlite
	case "pg", "postgresql", "postgres":
		return DriverPostgres
	}

	return driver
}
