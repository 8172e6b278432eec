package router

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/mitchellh/mapstructure"
	"github.com/packmart-lab/backend/pkg/errorx"
	"github.com/packmart-lab/backend/pkg/xcontext"
)

func wrapHandler[Request, Response any](
	router *Router,
	method string,
	handler HandlerFunc[Request, Response],
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := xcontext.WithHTTPRequest(router.baseCtx, r)
		ctx = xcontext.WithHTTPWriter(ctx, w)
		ctx = xcontext.WithError(ctx)
		ctx = xcontext.WithResponse(ctx)

		defer func() {
			writeResponse(ctx)
			for _, closer := range router.closers {
				closer(ctx)
			}
		}()

		if r.Method != method {
			xcontext.SetError(ctx, errorx.New(errorx.NotFound, "Not found resource"))
			return
		}

		var req Request
		var err error
		switch method {
		case http.MethodGet:
			err = bindQuery(r, &req)
		case http.MethodPost:
			err = bindBody(r, &req)
		}
		if err != nil {
			xcontext.Logger(ctx).Debugf("Cannot bind the request: %v", err)
			xcontext.SetError(ctx, errorx.New(errorx.BadRequest, "Cannot bind the request"))
			return
		}

		for _, middleware := range router.befores {
			newCtx, err := middleware(ctx)
			if err != nil {
				xcontext.SetError(ctx, err)
				return
			}

			if newCtx != nil {
				ctx = newCtx
			}
		}

		resp, err := handler(ctx, &req)
		if err != nil {
			xcontext.SetError(ctx, err)
			return
		}

		if resp != nil {
			xcontext.SetResponse(ctx, resp)
		}

		for _, middleware := range router.afters {
			newCtx, err := middleware(ctx)
			if err != nil {
				xcontext.SetError(ctx, err)
				return
			}

			if newCtx != nil {
				ctx = newCtx
			}
		}
	}
}

// bindQuery decodes url query parameters into the request struct using its
// json field names.
func bindQuery(r *http.Request, req any) error {
	values := map[string]any{}
	for key := range r.URL.Query() {
		values[key] = r.URL.Query().Get(key)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           req,
	})
	if err != nil {
		return err
	}

	return decoder.Decode(values)
}

func bindBody(r *http.Request, req any) error {
	if r.Body == nil {
		return nil
	}

	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(req); err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	return nil
}
