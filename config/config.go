package config

import (
	"fmt"
	"time"
)

type Configs struct {
	Env string

	Database  DatabaseConfigs
	ApiServer ServerConfigs
	Auth      AuthConfigs
	Session   SessionConfigs
	Redis     RedisConfigs
	Minting   MintingConfigs
	Pack      PackConfigs
}

type DatabaseConfigs struct {
	Host     string
	Port     string
	Database string
	User     string
	Password string
}

func (d *DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type ServerConfigs struct {
	Host string
	Port string
	Cert string
	Key  string

	MaxLimit     int
	DefaultLimit int

	AllowCORS []string
}

func (c ServerConfigs) Address() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

type AuthConfigs struct {
	AccessToken TokenConfigs
}

type TokenConfigs struct {
	Name       string
	Secret     string
	Expiration time.Duration
}

type SessionConfigs struct {
	Secret string
	Name   string
}

type RedisConfigs struct {
	Addr string
}

type MintingConfigs struct {
	// RPCName prefixes every method on the external minting backend, the
	// same way chain rpc namespaces do.
	RPCName string
	RPCUrl  string `toml:"rpc_url"`
	Chain   string `toml:"chain"`

	// ServerAddress is where the built-in minting service listens when it
	// is run from this binary instead of an external deployment.
	ServerAddress string `toml:"server_address"`

	// SubmitTimeout bounds a single submitMint call.
	SubmitTimeout time.Duration `toml:"submit_timeout"`

	// QueryTimeout bounds a single queryMint call. A timeout means status
	// unknown, not failure.
	QueryTimeout time.Duration `toml:"query_timeout"`

	// StatusFreshness is how long a locally cached ticket status is
	// answered without re-querying the backend.
	StatusFreshness time.Duration `toml:"status_freshness"`

	// ReconcileInterval drives the reconciler worker loop.
	ReconcileInterval time.Duration `toml:"reconcile_interval"`

	// ConfirmDelay is how long the built-in minting service keeps a mint
	// pending before confirming it.
	ConfirmDelay time.Duration `toml:"confirm_delay"`
}

type PackConfigs struct {
	RedeemCodeLength uint
}
