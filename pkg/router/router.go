package router

import (
	"context"
	"net/http"

	"github.com/packmart-lab/backend/pkg/xcontext"
	"github.com/rs/cors"
	"golang.org/x/exp/slices"
)

type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

// MiddlewareFunc can derive a new context for the rest of the request. A
// nil returned context keeps the current one.
type MiddlewareFunc func(ctx context.Context) (context.Context, error)

// CloserFunc always runs after the handler, even if a middleware or the
// handler failed.
type CloserFunc func(ctx context.Context)

type Router struct {
	mux     *http.ServeMux
	baseCtx context.Context

	befores []MiddlewareFunc
	afters  []MiddlewareFunc
	closers []CloserFunc
}

// New creates a router whose handlers run on contexts derived from ctx.
// Everything loaded into ctx (database, configs, logger, token engine) is
// visible to every handler.
func New(ctx context.Context) *Router {
	return &Router{
		mux:     http.NewServeMux(),
		baseCtx: ctx,
	}
}

// Branch creates a router sharing the same mux but with an independent
// middleware chain.
func (r *Router) Branch() *Router {
	return &Router{
		mux:     r.mux,
		baseCtx: r.baseCtx,
		befores: slices.Clone(r.befores),
		afters:  slices.Clone(r.afters),
		closers: slices.Clone(r.closers),
	}
}

func (r *Router) Before(middleware MiddlewareFunc) {
	r.befores = append(r.befores, middleware)
}

func (r *Router) After(middleware MiddlewareFunc) {
	r.afters = append(r.afters, middleware)
}

func (r *Router) AddCloser(closer CloserFunc) {
	r.closers = append(r.closers, closer)
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.mux.HandleFunc(pattern, wrapHandler(r, http.MethodGet, handler))
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.mux.HandleFunc(pattern, wrapHandler(r, http.MethodPost, handler))
}

func (r *Router) Static(pattern, root string) {
	r.mux.Handle(pattern, http.FileServer(http.Dir(root)))
}

func (r *Router) Handler() http.Handler {
	cfg := xcontext.Configs(r.baseCtx).ApiServer
	return cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowCORS,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler(r.mux)
}
