package service

//
// maintenance.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"

	"github.com/samber/do/v2"
	"gitlab.com/kabes/go-integwatch/internal/aerr"
	"gitlab.com/kabes/go-integwatch/internal/db"
	"gitlab.com/kabes/go-integwatch/internal/repository"
)

type MaintenanceSrv struct {
	db        repository.Database
	maintRepo repository.Maintenance
}

func NewMaintenanceSrv(i do.Injector) (*MaintenanceSrv, error) {
	return &MaintenanceSrv{
		db:        do.MustInvoke[repository.Database](i),
		maintRepo: do.MustInvoke[repository.Maintenance](i),
	}, nil
}

func (m *MaintenanceSrv) MaintainDatabase(ctx context.Context) error {
	err := db.InConnection(ctx, m.db, m.maintRepo.Maintenance)
	if err != nil {
		return aerr.ApplyFor(ErrRepositoryError, err)
	}

	return nil
}
