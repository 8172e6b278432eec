package main

import (
	"time"

	"github.com/packmart-lab/backend/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

const reconcileBatchSize = 100

func (s *srv) startReconciler(cctx *cli.Context) error {
	s.loadConfig(cctx)
	s.loadLogger()
	s.loadEndpoint()
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())
	s.migrateDB()
	s.loadRedisClient()
	s.loadMintingCaller()
	s.loadRepos()
	s.loadDomains()

	interval := xcontext.Configs(s.ctx).Minting.ReconcileInterval
	xcontext.Logger(s.ctx).Infof("Starting reconciler with interval %s", interval)

	for ; ; time.Sleep(interval) {
		if err := s.minter.ReconcileStale(s.ctx, reconcileBatchSize); err != nil {
			xcontext.Logger(s.ctx).Errorf("Cannot reconcile stale mints: %v", err)
		}
	}
}
