package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mercadito/console/internal/config"
	"github.com/mercadito/console/internal/controller"
	"github.com/mercadito/console/internal/observability"
	"github.com/mercadito/console/internal/session"
	"github.com/mercadito/console/model"
)

// Dependencies holds all injected dependencies for the HTTP transport layer.
type Dependencies struct {
	Config     *config.Config
	Logger     *zap.Logger
	Sessions   *session.Manager
	Emails     EmailChecker
	Categories *controller.Categories
	Products   *controller.Products
	Metrics    *observability.Metrics
	Readiness  observability.ReadinessChecks
}

// NewRouter creates a chi.Router with the full middleware pipeline and all
// route registrations. Login, session probing, health, readiness, and
// metrics bypass the session guard.
func NewRouter(deps Dependencies) chi.Router {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()

	// Global middleware: applied to all routes including health.
	r.Use(Recovery(logger))
	r.Use(CORS(deps.Config.Server.CORS))
	r.Use(RequestID)
	r.Use(SecurityHeaders)
	if deps.Metrics != nil {
		r.Use(deps.Metrics.MetricsMiddleware)
	}
	if deps.Config.Observability.Tracing.Enabled {
		r.Use(observability.TracingMiddleware)
	}

	// Public routes.
	r.Get("/ui/health", observability.HandleHealth())
	r.Get("/ui/ready", observability.HandleReady(deps.Readiness))
	if deps.Config.Observability.Metrics.Enabled {
		r.Method(http.MethodGet, deps.Config.Observability.Metrics.Path, observability.Handler())
	}

	sessionCfg := deps.Config.Session
	r.Post("/ui/login", handleLogin(deps.Sessions, sessionCfg))
	r.Post("/ui/logout", handleLogout(deps.Sessions, sessionCfg))
	r.Get("/ui/session", handleSession(deps.Sessions, sessionCfg))
	r.Get("/ui/check-email", handleCheckEmail(deps.Emails))

	// Guarded catalog routes.
	r.Group(func(r chi.Router) {
		r.Use(SessionGuard(deps.Sessions, sessionCfg.CookieName))
		r.Use(HandlerTimeout(deps.Config.Server.WriteTimeout))
		r.Use(RequestLogging(logger))

		cats := deps.Categories
		r.Get("/ui/categories", handleList(cats.Resource, cats.Collection))
		r.Post("/ui/categories", handleCreate(cats.Resource, cats.Collection))
		r.Post("/ui/categories/{id}/edit-request", handleEditRequest(cats.Resource, categoryWithID))
		r.Post("/ui/categories/{id}/delete-request", handleDeleteRequest(cats.Resource))
		r.Post("/ui/categories/pending/confirm", handleConfirm(cats.Resource, cats.Collection))
		r.Post("/ui/categories/pending/cancel", handleCancel(cats.Resource))

		prods := deps.Products
		r.Get("/ui/products", handleProductList(cats, prods))
		r.Post("/ui/products", handleCreate(prods.Resource, prods.Views))
		r.Post("/ui/products/{id}/edit-request", handleEditRequest(prods.Resource, productWithID))
		r.Post("/ui/products/{id}/delete-request", handleDeleteRequest(prods.Resource))
		r.Post("/ui/products/pending/confirm", handleConfirm(prods.Resource, prods.Views))
		r.Post("/ui/products/pending/cancel", handleCancel(prods.Resource))
		r.Get("/ui/products/category-options", handleCategoryOptions(cats, prods))
	})

	return r
}

func categoryWithID(d model.CategoryDraft, id model.ID) model.CategoryDraft {
	d.ID = id
	return d
}

func productWithID(d model.ProductDraft, id model.ID) model.ProductDraft {
	d.ID = id
	return d
}
