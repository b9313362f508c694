package routes

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"

	"github.com/janisto/servlet-greeting/internal/http/health"
	"github.com/janisto/servlet-greeting/internal/http/v1/hello"
	"github.com/janisto/servlet-greeting/internal/service/greeting"
)

// Dependencies are the capabilities the route table hands to handlers.
type Dependencies struct {
	Greeting greeting.Provider
	Version  string
}

// Register builds the route table once at startup. Plain operational handlers
// go on the chi router; API operations go through huma.
func Register(router chi.Router, api huma.API, deps Dependencies) {
	router.Get("/health", health.NewHandler(deps.Version))

	hello.Register(api, hello.NewHandler(deps.Greeting))
}
