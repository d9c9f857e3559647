// Package dashboard defines the GraphQL queries for the dashboard.
package dashboard

import (
	"github.com/graphql-go/graphql"
	"github.com/ortelius/vulnwatch-backend/graphql/modules/advisories"
	"github.com/ortelius/vulnwatch-backend/internal/catalog"
	"github.com/ortelius/vulnwatch-backend/internal/engine"
)

// GetQueryFields returns the dashboard queries to be mounted in the root schema.
// Each query aggregates the whole catalog or only the advisories matching filter,
// as chosen by scope (defaultScope when omitted).
func GetQueryFields(cat *catalog.Catalog, defaultScope engine.StatsScope) graphql.Fields {
	scoped := func() graphql.FieldConfigArgument {
		return graphql.FieldConfigArgument{
			"scope":  &graphql.ArgumentConfig{Type: graphql.String},
			"filter": &graphql.ArgumentConfig{Type: advisories.AdvisoryFilterInput},
		}
	}

	vendorArgs := scoped()
	vendorArgs["limit"] = &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 8}

	return graphql.Fields{
		// Section 1: Top Cards (Overview)
		"dashboardOverview": &graphql.Field{
			Type: DashboardOverviewType,
			Args: scoped(),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return ResolveOverview(cat, defaultScope, p.Args)
			},
		},
		// Section 2: Charts (Severity)
		"dashboardSeverity": &graphql.Field{
			Type: SeverityDistributionType,
			Args: scoped(),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return ResolveSeverityDistribution(cat, defaultScope, p.Args)
			},
		},
		// Section 3: Charts (Vendors)
		"dashboardVendors": &graphql.Field{
			Type: graphql.NewList(VendorCountType),
			Args: vendorArgs,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				limit, _ := p.Args["limit"].(int)
				return ResolveTopVendors(cat, defaultScope, p.Args, limit)
			},
		},
		// Section 4: Trend Line (Advisories per day)
		"dashboardTimeline": &graphql.Field{
			Type: graphql.NewList(AdvisoryTimelineType),
			Args: scoped(),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return ResolveTimeline(cat, defaultScope, p.Args)
			},
		},
	}
}
