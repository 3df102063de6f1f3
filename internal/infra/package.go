package infra

//
// package.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"github.com/samber/do/v2"
	"gitlab.com/kabes/go-integwatch/internal/config"
	"gitlab.com/kabes/go-integwatch/internal/infra/pg"
	"gitlab.com/kabes/go-integwatch/internal/infra/sqlite"
	"gitlab.com/kabes/go-integwatch/internal/repository"
)

type repo interface {
	repository.Subscribers
	repository.Maintenance
}

func newRepository(i do.Injector) repo { //nolint:ireturn
	if do.MustInvoke[config.DBConfig](i).Driver == config.DriverPostgres {
		return pg.Repository{}
	}

	return sqlite.Repository{}
}

// Package provide database and repositories for configured db driver.
var Package = do.Package(
	do.Lazy(func(i do.Injector) (repository.Database, error) {
		if do.MustInvoke[config.DBConfig](i).Driver == config.DriverPostgres {
			database, err := pg.NewDatabaseI(i)
			if err != nil {
				return nil, err
			}

			return database, nil
		}

		database, err := sqlite.NewDatabaseI(i)
		if err != nil {
			return nil, err
		}

		return database, nil
	}),
	do.Lazy(func(i do.Injector) (repository.Subscribers, error) {
		return newRepository(i), nil
	}),
	do.Lazy(func(i do.Injector) (repository.Maintenance, error) {
		return newRepository(i), nil
	}),
)
