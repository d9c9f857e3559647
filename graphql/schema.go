// Package graphql assembles the GraphQL schema from the query modules.
package graphql

import (
	"github.com/graphql-go/graphql"
	"github.com/ortelius/vulnwatch-backend/graphql/modules/advisories"
	"github.com/ortelius/vulnwatch-backend/graphql/modules/dashboard"
	"github.com/ortelius/vulnwatch-backend/internal/catalog"
	"github.com/ortelius/vulnwatch-backend/internal/engine"
)

// CreateSchema builds the root query over the catalog. defaultScope applies to
// dashboard queries that do not pass a scope.
func CreateSchema(cat *catalog.Catalog, defaultScope engine.StatsScope) (graphql.Schema, error) {
	fields := graphql.Fields{}
	for _, module := range []graphql.Fields{
		advisories.GetQueryFields(cat),
		dashboard.GetQueryFields(cat, defaultScope),
	} {
		for name, field := range module {
			fields[name] = field
		}
	}

	rootQuery := graphql.NewObject(graphql.ObjectConfig{
		Name:   "Query",
		Fields: fields,
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: rootQuery,
	})
}
