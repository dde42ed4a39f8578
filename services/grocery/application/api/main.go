package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ghuser/grocerylist/pkg/app"
	"github.com/ghuser/grocerylist/pkg/errhttp"
	"github.com/ghuser/grocerylist/pkg/logger"
	"github.com/ghuser/grocerylist/services/grocery/application/handlers"
	appsvcs "github.com/ghuser/grocerylist/services/grocery/application/services"
)

// ItemRoutes registers item endpoints on the provided chi router using the
// store selected by the application's configuration.
func ItemRoutes(r chi.Router, a *app.Application) error {
	svcs, err := appsvcs.New(a)
	if err != nil {
		return err
	}
	Routes(r, svcs, a.Logger)
	return nil
}

// Routes mounts the /items resource backed by svcs.
func Routes(r chi.Router, svcs *appsvcs.Services, log logger.Logger) {
	r.Route("/items", func(r chi.Router) {
		r.Use(middleware.StripSlashes)
		r.MethodNotAllowed(errhttp.MethodNotAllowed)

		r.Get("/", handlers.NewListItemsHandler(svcs, log).Execute)
		r.Post("/", handlers.NewPostItemHandler(svcs, log).Execute)

		r.Get("/{id}", handlers.NewGetItemHandler(svcs, log).Execute)
		r.Patch("/{id}", handlers.NewPatchItemHandler(svcs, log).Execute)
		r.Delete("/{id}", handlers.NewDeleteItemHandler(svcs, log).Execute)
		r.Put("/{id}", handlers.PutItem)
	})
}
