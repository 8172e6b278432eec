package main

import (
	"net/http"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/packmart-lab/backend/internal/domain/minting"
	"github.com/packmart-lab/backend/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startMinting(cctx *cli.Context) error {
	s.loadConfig(cctx)
	s.loadLogger()

	cfg := xcontext.Configs(s.ctx).Minting
	manager := minting.NewManager(s.ctx)

	rpcHandler := rpc.NewServer()
	defer rpcHandler.Stop()
	if err := rpcHandler.RegisterName(cfg.RPCName, manager); err != nil {
		xcontext.Logger(s.ctx).Errorf("Cannot register minting manager: %v", err)
		return err
	}

	xcontext.Logger(s.ctx).Infof("Starting minting service on %s", cfg.ServerAddress)
	httpSrv := &http.Server{
		Handler: rpcHandler,
		Addr:    cfg.ServerAddress,
	}

	if err := httpSrv.ListenAndServe(); err != nil {
		xcontext.Logger(s.ctx).Errorf("An error occurs when running rpc server: %v", err)
		return err
	}

	return nil
}
