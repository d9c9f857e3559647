package advisories

import (
	"github.com/graphql-go/graphql"
	"github.com/ortelius/vulnwatch-backend/internal/catalog"
)

// GetQueryFields returns the advisory queries to be mounted in the root schema
func GetQueryFields(cat *catalog.Catalog) graphql.Fields {
	return graphql.Fields{
		"advisories": &graphql.Field{
			Type: AdvisoryListType,
			Args: graphql.FieldConfigArgument{
				"filter":    &graphql.ArgumentConfig{Type: AdvisoryFilterInput},
				"sort":      &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: "published_date"},
				"direction": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: "desc"},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return ResolveAdvisories(cat, p.Args)
			},
		},
		"advisory": &graphql.Field{
			Type: AdvisoryType,
			Args: graphql.FieldConfigArgument{
				"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				id, _ := p.Args["id"].(string)
				return ResolveAdvisory(cat, id)
			},
		},
		"filterOptions": &graphql.Field{
			Type: FilterOptionsType,
			Resolve: func(_ graphql.ResolveParams) (interface{}, error) {
				return ResolveFilterOptions(cat), nil
			},
		},
	}
}
