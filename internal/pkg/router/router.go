// Package router is the HTTP front door: httprouter routing, a JSON envelope
// for results and errors, and the shared middleware chain.
package router

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/shandysiswandi/otpauth/internal/pkg/config"
	"github.com/shandysiswandi/otpauth/internal/pkg/instrument"
	"github.com/shandysiswandi/otpauth/internal/pkg/jwt"
	"github.com/shandysiswandi/otpauth/internal/pkg/uid"
)

// Handler returns a payload to wrap in the success envelope, or an error for
// the error codec.
type Handler func(r *Request) (any, error)

// Config holds the router's collaborators.
type Config struct {
	Config     config.Config
	UUID       uid.StringID
	JWT        jwt.JWT
	Instrument instrument.Instrumentation
}

// Router implements http.Handler.
type Router struct {
	hr  *httprouter.Router
	jwt jwt.JWT
	mws []Middleware
}

func NewRouter(cfg Config) *Router {
	hr := &httprouter.Router{
		RedirectTrailingSlash:  true,
		RedirectFixedPath:      true,
		HandleMethodNotAllowed: true,
		HandleOPTIONS:          true,
		SaveMatchedRoutePath:   true,
		NotFound: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, errorResponse{Message: "endpoint not found"}, http.StatusNotFound)
		}),
		MethodNotAllowed: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, errorResponse{Message: "method not allowed"}, http.StatusMethodNotAllowed)
		}),
	}

	r := &Router{
		hr:  hr,
		jwt: cfg.JWT,
		mws: []Middleware{
			recoverer,
			realIP,
			correlationID(cfg.UUID),
			observability(cfg.Config, cfg.Instrument),
			maintenance(cfg.Config),
		},
	}

	r.GET("/health", func(*Request) (any, error) { return healthResponse{Status: "ok"}, nil })

	return r
}

type healthResponse struct {
	Status string `json:"status"`
}

func (healthResponse) Message() string { return "service is healthy" }

// Authenticated rejects requests without a valid bearer token and stores the
// verified claims in the request context (see jwt.GetAuth).
func (r *Router) Authenticated() Middleware {
	return authenticate(r.jwt)
}

func (r *Router) GET(path string, h Handler, mws ...Middleware) {
	r.handle(http.MethodGet, path, h, mws)
}

func (r *Router) POST(path string, h Handler, mws ...Middleware) {
	r.handle(http.MethodPost, path, h, mws)
}

func (r *Router) handle(method, path string, h Handler, mws []Middleware) {
	final := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		resp, err := h(&Request{Request: req})
		if err != nil {
			if rec, ok := w.(*statusRecorder); ok {
				rec.err = err
			}
			writeError(req.Context(), w, err)
			return
		}
		writeSuccess(w, resp)
	})

	chain := make([]Middleware, 0, len(r.mws)+len(mws))
	chain = append(chain, r.mws...)
	chain = append(chain, mws...)

	r.hr.Handler(method, path, Chain(final, chain...))
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.hr.ServeHTTP(w, req)
}
