package main

import (
	"net/http"

	"github.com/packmart-lab/backend/internal/middleware"
	"github.com/packmart-lab/backend/pkg/router"
	"github.com/packmart-lab/backend/pkg/xcontext"

	"github.com/urfave/cli/v2"
)

func (s *srv) startApi(cctx *cli.Context) error {
	s.loadConfig(cctx)
	s.loadLogger()
	s.loadEndpoint()
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())
	s.migrateDB()
	s.loadRedisClient()
	s.loadMintingCaller()
	s.loadRepos()
	s.loadDomains()
	s.loadRouter()

	cfg := xcontext.Configs(s.ctx)
	s.server = &http.Server{
		Addr:    cfg.ApiServer.Address(),
		Handler: s.router.Handler(),
	}

	xcontext.Logger(s.ctx).Infof("Starting server on port: %s", cfg.ApiServer.Port)
	if err := s.server.ListenAndServe(); err != nil {
		panic(err)
	}
	xcontext.Logger(s.ctx).Infof("Server stop")
	return nil
}

func (s *srv) loadRouter() {
	s.router = router.New(s.ctx)
	s.router.AddCloser(middleware.Logger())

	// These following APIs need authentication with an access token.
	authRouter := s.router.Branch()
	authVerifier := middleware.NewAuthVerifier().WithAccessToken()
	authRouter.Before(authVerifier.Middleware())
	authRouter.After(middleware.HandleSaveSession())
	{
		// Claim API
		router.POST(authRouter, "/claimFreePack", s.packDomain.ClaimFree)
		router.POST(authRouter, "/claimRedeemPack", s.packDomain.ClaimByRedeemCode)
		router.POST(authRouter, "/claimPack", s.packDomain.ClaimDirect)

		// Lifecycle API
		router.POST(authRouter, "/mintPack", s.packDomain.MintPack)
		router.GET(authRouter, "/getMintStatus", s.packDomain.GetMintStatus)
		router.POST(authRouter, "/transferPack", s.packDomain.Transfer)
		router.GET(authRouter, "/getTransferStatus", s.packDomain.GetTransferStatus)
		router.POST(authRouter, "/revokePack", s.packDomain.Revoke)

		// Owner API
		router.GET(authRouter, "/getMyPacks", s.packDomain.GetByOwner)
		router.GET(authRouter, "/getUntransferredPacks", s.packDomain.GetUntransferred)
		router.GET(authRouter, "/getUser", s.userDomain.Get)

		// Admin API
		router.POST(authRouter, "/createPackTemplate", s.packDomain.CreateTemplate)
		router.POST(authRouter, "/generatePacks", s.packDomain.GeneratePacks)
	}

	// Public API.
	router.GET(s.router, "/getPack", s.packDomain.Get)
	router.GET(s.router, "/getPackTemplateBySlug", s.packDomain.GetBySlug)
	router.GET(s.router, "/getListPackTemplate", s.packDomain.GetList)
	router.GET(s.router, "/getRedeemablePack", s.packDomain.GetRedeemable)
	router.POST(s.router, "/createUser", s.userDomain.Create)
}
