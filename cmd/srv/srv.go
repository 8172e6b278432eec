package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/bwmarrin/snowflake"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/gorilla/sessions"
	"github.com/packmart-lab/backend/config"
	"github.com/packmart-lab/backend/internal/client"
	"github.com/packmart-lab/backend/internal/domain"
	"github.com/packmart-lab/backend/internal/domain/packclaim"
	"github.com/packmart-lab/backend/internal/model"
	"github.com/packmart-lab/backend/internal/repository"
	"github.com/packmart-lab/backend/migration"
	"github.com/packmart-lab/backend/pkg/authenticator"
	"github.com/packmart-lab/backend/pkg/logger"
	"github.com/packmart-lab/backend/pkg/router"
	"github.com/packmart-lab/backend/pkg/xcontext"
	"github.com/packmart-lab/backend/pkg/xredis"
	"github.com/urfave/cli/v2"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type srv struct {
	ctx context.Context
	app *cli.App

	packRepo     repository.PackRepository
	templateRepo repository.PackTemplateRepository
	ticketRepo   repository.MintingTicketRepository
	transferRepo repository.TransferRecordRepository
	userRepo     repository.UserRepository

	packDomain domain.PackDomain
	userDomain domain.UserDomain

	minter *packclaim.Minter

	mintingCaller client.MintingCaller
	redisClient   xredis.Client

	router *router.Router
	server *http.Server
}

func (s *srv) loadConfig(cctx *cli.Context) {
	cfg := config.Configs{
		Env: "local",
		Database: config.DatabaseConfigs{
			Host:     "localhost",
			Port:     "3306",
			User:     "packmart",
			Database: "packmart",
		},
		ApiServer: config.ServerConfigs{
			Port:         "8080",
			MaxLimit:     50,
			DefaultLimit: 20,
		},
		Auth: config.AuthConfigs{
			AccessToken: config.TokenConfigs{
				Name:       "access_token",
				Expiration: 24 * time.Hour,
			},
		},
		Session: config.SessionConfigs{
			Name: "session",
		},
		Redis: config.RedisConfigs{
			Addr: "localhost:6379",
		},
		Minting: config.MintingConfigs{
			RPCName:           "mint",
			RPCUrl:            "http://localhost:8545",
			ServerAddress:     "localhost:8545",
			Chain:             "devnet",
			SubmitTimeout:     10 * time.Second,
			QueryTimeout:      10 * time.Second,
			StatusFreshness:   30 * time.Second,
			ReconcileInterval: time.Minute,
			ConfirmDelay:      15 * time.Second,
		},
		Pack: config.PackConfigs{
			RedeemCodeLength: 12,
		},
	}

	path := cctx.String("config")
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			panic(err)
		}
	}

	s.ctx = xcontext.WithConfigs(context.Background(), cfg)
}

func (s *srv) loadLogger() {
	level := logger.INFO
	if xcontext.Configs(s.ctx).Env == "local" {
		level = logger.DEBUG
	}

	s.ctx = xcontext.WithLogger(s.ctx, logger.NewLogger(level))
}

func (s *srv) loadEndpoint() {
	cfg := xcontext.Configs(s.ctx)

	node, err := snowflake.NewNode(0)
	if err != nil {
		panic(err)
	}

	s.ctx = xcontext.WithSnowFlake(s.ctx, node)
	s.ctx = xcontext.WithTokenEngine(s.ctx,
		authenticator.NewTokenEngine[model.AccessToken](cfg.Auth.AccessToken))
	s.ctx = xcontext.WithSessionStore(s.ctx,
		sessions.NewCookieStore([]byte(cfg.Session.Secret)))
}

func (s *srv) newDatabase() *gorm.DB {
	cfg := xcontext.Configs(s.ctx)
	db, err := gorm.Open(mysql.Open(cfg.Database.ConnectionString()), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	return db
}

func (s *srv) migrateDB() {
	if err := migration.AutoMigrate(s.ctx); err != nil {
		panic(err)
	}
}

func (s *srv) loadRedisClient() {
	var err error
	s.redisClient, err = xredis.NewClient(s.ctx)
	if err != nil {
		panic(err)
	}
}

func (s *srv) loadMintingCaller() {
	rpcClient, err := rpc.DialContext(s.ctx, xcontext.Configs(s.ctx).Minting.RPCUrl)
	if err != nil {
		panic(err)
	}

	s.mintingCaller = client.NewMintingCaller(rpcClient)
}

func (s *srv) loadRepos() {
	s.packRepo = repository.NewPackRepository()
	s.templateRepo = repository.NewPackTemplateRepository(s.redisClient)
	s.ticketRepo = repository.NewMintingTicketRepository()
	s.transferRepo = repository.NewTransferRecordRepository()
	s.userRepo = repository.NewUserRepository()
}

func (s *srv) loadDomains() {
	arbiter := packclaim.NewArbiter(s.packRepo)
	s.minter = packclaim.NewMinter(s.packRepo, s.ticketRepo, s.userRepo, s.mintingCaller)
	transferManager := packclaim.NewTransferManager(s.packRepo, s.ticketRepo, s.transferRepo)

	s.packDomain = domain.NewPackDomain(
		s.packRepo, s.templateRepo, s.transferRepo, s.userRepo,
		arbiter, s.minter, transferManager)
	s.userDomain = domain.NewUserDomain(s.userRepo)
}
