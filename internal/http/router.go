package http

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"jobdesk/internal/domain/user"
	"jobdesk/internal/http/handlers"
	"jobdesk/internal/http/metrics"
	httpmw "jobdesk/internal/http/middleware"
)

type RouterDependencies struct {
	AuthHandler        *handlers.AuthHandler
	JobHandler         *handlers.JobHandler
	ApplicationHandler *handlers.ApplicationHandler
	AuthMiddleware     *httpmw.AuthMiddleware
	Limiter            httpmw.Limiter
	Metrics            *metrics.Collector
	Logger             *slog.Logger
	RequestTimeout     time.Duration
}

type Router struct {
	deps           RouterDependencies
	metricsHandler *metrics.Handler
}

const maxBodyBytes = 10 << 20

func NewRouter(deps RouterDependencies) http.Handler {
	return &Router{deps: deps, metricsHandler: metrics.NewHandler(deps.Metrics)}
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	handler := httpmw.Chain(r.baseHandler(),
		httpmw.RequestID,
		httpmw.Logging(r.deps.Logger),
		httpmw.CORS,
		httpmw.BodyLimit(maxBodyBytes),
		httpmw.Recover,
		httpmw.Metrics(r.deps.Metrics),
		httpmw.Timeout(r.deps.RequestTimeout))
	handler.ServeHTTP(w, req)
}

func (r *Router) baseHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		path := req.URL.Path

		switch {
		case req.Method == http.MethodGet && path == "/health":
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
			return
		case req.Method == http.MethodGet && path == "/metrics":
			r.metricsHandler.ServeHTTP(w, req)
			return
		case req.Method == http.MethodPost && path == "/auth/register":
			r.deps.AuthHandler.Register(w, req)
			return
		case req.Method == http.MethodPost && path == "/auth/login":
			r.deps.AuthHandler.Login(w, req)
			return
		case req.Method == http.MethodGet && path == "/jobs":
			r.deps.JobHandler.ListAccepted(w, req)
			return
		case req.Method == http.MethodGet && strings.HasPrefix(path, "/jobs/"):
			// Optional identity: owners and admins see unmoderated postings.
			r.deps.AuthMiddleware.OptionalAuthenticate(http.HandlerFunc(r.deps.JobHandler.Get)).ServeHTTP(w, req)
			return
		case req.Method == http.MethodPost && path == "/applications":
			// Submission is open to guests; an invalid credential degrades to
			// a guest submission instead of failing.
			submit := httpmw.RateLimit(r.deps.Limiter, submitKey, 10, time.Minute)(http.HandlerFunc(r.deps.ApplicationHandler.Submit))
			r.deps.AuthMiddleware.OptionalAuthenticate(submit).ServeHTTP(w, req)
			return
		case req.Method == http.MethodGet && path == "/applications/public":
			httpmw.RateLimit(r.deps.Limiter, lookupKey, 30, time.Minute)(http.HandlerFunc(r.deps.ApplicationHandler.PublicLookup)).ServeHTTP(w, req)
			return
		}

		if strings.HasPrefix(path, "/applications") || strings.HasPrefix(path, "/jobs") || strings.HasPrefix(path, "/employers") {
			protected := r.deps.AuthMiddleware.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				r.handleProtected(w, req)
			}))
			protected.ServeHTTP(w, req)
			return
		}

		http.NotFound(w, req)
	})
}

func (r *Router) handleProtected(w http.ResponseWriter, req *http.Request) {
	path := req.URL.Path

	switch {
	case req.Method == http.MethodGet && path == "/applications":
		r.deps.ApplicationHandler.ListForOwner(w, req)
		return
	case req.Method == http.MethodGet && path == "/applications/mine":
		r.deps.ApplicationHandler.ListMine(w, req)
		return
	case req.Method == http.MethodPost && strings.HasPrefix(path, "/applications/") && strings.HasSuffix(path, "/respond"):
		r.deps.ApplicationHandler.Respond(w, req)
		return
	case req.Method == http.MethodPost && path == "/jobs":
		httpmw.RequireRole(user.RoleEmployer)(http.HandlerFunc(r.deps.JobHandler.Create)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && path == "/employers/jobs":
		httpmw.RequireRole(user.RoleEmployer)(http.HandlerFunc(r.deps.JobHandler.ListOwn)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPatch && strings.HasPrefix(path, "/jobs/") && strings.HasSuffix(path, "/status"):
		httpmw.RequireRole(user.RoleAdmin)(http.HandlerFunc(r.deps.JobHandler.UpdateStatus)).ServeHTTP(w, req)
		return
	}

	http.NotFound(w, req)
}

func submitKey(r *http.Request) string {
	return "submit:" + httpmw.ClientIP(r)
}

func lookupKey(r *http.Request) string {
	return "lookup:" + httpmw.ClientIP(r)
}
