// Package graphql serves a graphql-go schema over HTTP.
package graphql

import (
	"net/http"

	"github.com/graphql-go/graphql"

	"github.com/shashiranjanraj/bookshelf/pkg/bind"
	"github.com/shashiranjanraj/bookshelf/pkg/logger"
	"github.com/shashiranjanraj/bookshelf/pkg/response"
)

// NewSchema creates a read-only schema from a root query object.
func NewSchema(query *graphql.Object) (graphql.Schema, error) {
	return graphql.NewSchema(graphql.SchemaConfig{
		Query: query,
	})
}

// Request is the JSON body of a GraphQL POST.
type Request struct {
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables"`
	OperationName string                 `json:"operationName"`
}

// Handler executes POSTed queries against schema. Query errors are reported
// in the result body with status 200, as GraphQL clients expect.
func Handler(schema graphql.Schema) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req Request
		if err := bind.Decode(r, &req); err != nil {
			response.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		if req.Query == "" {
			response.Error(w, http.StatusBadRequest, "query is required")
			return
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        r.Context(),
		})
		if result.HasErrors() {
			logger.WithCtx(r.Context()).Debug("graphql: query errors", "errors", len(result.Errors))
		}
		response.JSON(w, http.StatusOK, result)
	}
}
