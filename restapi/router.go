// Package restapi wires the REST routes and the GraphQL endpoint.
package restapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/stackwatch/stackwatch-backend/restapi/modules/technologies"
)

// SetupRoutes mounts every REST route and the GraphQL handler on the app.
func SetupRoutes(app *fiber.App, deps technologies.Deps, schema graphql.Schema) {
	deps.EnsureBulkState()

	api := app.Group("/api/v1")

	tech := api.Group("/technologies")
	tech.Post("/", technologies.PostTechnology(deps))
	tech.Get("/", technologies.GetTechnologies(deps))
	tech.Post("/analyze-all", technologies.PostAnalyzeAll(deps))
	tech.Get("/analyze-all/status", technologies.GetAnalyzeAllStatus(deps))
	tech.Post("/import", technologies.PostImport(deps))
	tech.Get("/export", technologies.GetExport(deps))
	tech.Delete("/", technologies.DeleteTechnologies(deps))
	tech.Get("/:key", technologies.GetTechnology(deps))
	tech.Put("/:key", technologies.PutTechnology(deps))
	tech.Delete("/:key", technologies.DeleteTechnology(deps))
	tech.Post("/:key/analyze", technologies.PostAnalyze(deps))

	api.Get("/suggestions", technologies.GetSuggestions(deps))

	app.Post("/graphql", GraphQLHandler(schema))
}
