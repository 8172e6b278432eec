package xcontext

import (
	"context"
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/gorilla/sessions"
	"github.com/packmart-lab/backend/config"
	"github.com/packmart-lab/backend/internal/model"
	"github.com/packmart-lab/backend/pkg/authenticator"
	"github.com/packmart-lab/backend/pkg/logger"
	"gorm.io/gorm"
)

type (
	dbKey            struct{}
	txKey            struct{}
	configsKey       struct{}
	loggerKey        struct{}
	snowflakeKey     struct{}
	requestUserIDKey struct{}
	tokenEngineKey   struct{}
	sessionStoreKey  struct{}
	httpRequestKey   struct{}
	httpWriterKey    struct{}
	errorKey         struct{}
	responseKey      struct{}
)

func WithDB(ctx context.Context, db *gorm.DB) context.Context {
	return context.WithValue(ctx, dbKey{}, db)
}

// DB returns the database handle of this context. If a transaction was
// opened with WithDBTransaction, the transaction is returned instead.
func DB(ctx context.Context) *gorm.DB {
	if tx := currentTx(ctx); tx != nil {
		return tx.tx
	}

	db, ok := ctx.Value(dbKey{}).(*gorm.DB)
	if !ok {
		panic("no database in context")
	}

	return db
}

type txState struct {
	tx   *gorm.DB
	done bool
}

func currentTx(ctx context.Context) *txState {
	tx, ok := ctx.Value(txKey{}).(*txState)
	if !ok {
		return nil
	}

	return tx
}

// WithDBTransaction begins a transaction and makes DB() return it until
// the transaction is committed or rolled back.
func WithDBTransaction(ctx context.Context) context.Context {
	db, ok := ctx.Value(dbKey{}).(*gorm.DB)
	if !ok {
		panic("no database in context")
	}

	return context.WithValue(ctx, txKey{}, &txState{tx: db.Begin()})
}

// WithCommitDBTransaction commits the current transaction. It is a no-op
// if no transaction is in progress.
func WithCommitDBTransaction(ctx context.Context) {
	if tx := currentTx(ctx); tx != nil && !tx.done {
		tx.tx.Commit()
		tx.done = true
	}
}

// WithRollbackDBTransaction rollbacks the current transaction. It is a
// no-op if the transaction was already committed, so it is safe to defer
// right after WithDBTransaction.
func WithRollbackDBTransaction(ctx context.Context) {
	if tx := currentTx(ctx); tx != nil && !tx.done {
		tx.tx.Rollback()
		tx.done = true
	}
}

func WithConfigs(ctx context.Context, cfg config.Configs) context.Context {
	return context.WithValue(ctx, configsKey{}, cfg)
}

func Configs(ctx context.Context) config.Configs {
	cfg, ok := ctx.Value(configsKey{}).(config.Configs)
	if !ok {
		panic("no configs in context")
	}

	return cfg
}

func WithLogger(ctx context.Context, l logger.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

func Logger(ctx context.Context) logger.Logger {
	l, ok := ctx.Value(loggerKey{}).(logger.Logger)
	if !ok {
		panic("no logger in context")
	}

	return l
}

func WithSnowFlake(ctx context.Context, node *snowflake.Node) context.Context {
	return context.WithValue(ctx, snowflakeKey{}, node)
}

func SnowFlake(ctx context.Context) *snowflake.Node {
	node, ok := ctx.Value(snowflakeKey{}).(*snowflake.Node)
	if !ok {
		panic("no snowflake node in context")
	}

	return node
}

func WithRequestUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestUserIDKey{}, id)
}

func RequestUserID(ctx context.Context) string {
	id, _ := ctx.Value(requestUserIDKey{}).(string)
	return id
}

func WithTokenEngine(ctx context.Context, engine authenticator.TokenEngine[model.AccessToken]) context.Context {
	return context.WithValue(ctx, tokenEngineKey{}, engine)
}

func TokenEngine(ctx context.Context) authenticator.TokenEngine[model.AccessToken] {
	engine, ok := ctx.Value(tokenEngineKey{}).(authenticator.TokenEngine[model.AccessToken])
	if !ok {
		panic("no token engine in context")
	}

	return engine
}

func WithSessionStore(ctx context.Context, store sessions.Store) context.Context {
	return context.WithValue(ctx, sessionStoreKey{}, store)
}

func SessionStore(ctx context.Context) sessions.Store {
	store, ok := ctx.Value(sessionStoreKey{}).(sessions.Store)
	if !ok {
		panic("no session store in context")
	}

	return store
}

func WithHTTPRequest(ctx context.Context, r *http.Request) context.Context {
	return context.WithValue(ctx, httpRequestKey{}, r)
}

func HTTPRequest(ctx context.Context) *http.Request {
	r, _ := ctx.Value(httpRequestKey{}).(*http.Request)
	return r
}

func WithHTTPWriter(ctx context.Context, w http.ResponseWriter) context.Context {
	return context.WithValue(ctx, httpWriterKey{}, w)
}

func HTTPWriter(ctx context.Context) http.ResponseWriter {
	w, _ := ctx.Value(httpWriterKey{}).(http.ResponseWriter)
	return w
}
