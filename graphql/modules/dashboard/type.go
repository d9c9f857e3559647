// Package dashboard defines the GraphQL types for the application dashboard.
package dashboard

import (
	"github.com/graphql-go/graphql"
)

// DashboardOverviewType represents the high-level metrics for the top cards
var DashboardOverviewType = graphql.NewObject(graphql.ObjectConfig{
	Name: "DashboardOverview",
	Fields: graphql.Fields{
		"total":      &graphql.Field{Type: graphql.Int},
		"critical":   &graphql.Field{Type: graphql.Int},
		"high":       &graphql.Field{Type: graphql.Int},
		"medium_low": &graphql.Field{Type: graphql.Int},
		"vendors":    &graphql.Field{Type: graphql.Int},
		"scope":      &graphql.Field{Type: graphql.String},
	},
})

// SeverityDistributionType represents the data for the pie/bar charts
var SeverityDistributionType = graphql.NewObject(graphql.ObjectConfig{
	Name: "SeverityDistribution",
	Fields: graphql.Fields{
		"critical": &graphql.Field{Type: graphql.Int},
		"high":     &graphql.Field{Type: graphql.Int},
		"medium":   &graphql.Field{Type: graphql.Int},
		"low":      &graphql.Field{Type: graphql.Int},
		"total":    &graphql.Field{Type: graphql.Int},
	},
})

// VendorCountType is one bar of the vendor chart
var VendorCountType = graphql.NewObject(graphql.ObjectConfig{
	Name: "VendorCount",
	Fields: graphql.Fields{
		"vendor": &graphql.Field{Type: graphql.String},
		"count":  &graphql.Field{Type: graphql.Int},
	},
})

// AdvisoryTimelineType represents the advisories published on one day
var AdvisoryTimelineType = graphql.NewObject(graphql.ObjectConfig{
	Name: "AdvisoryTimeline",
	Fields: graphql.Fields{
		"date":     &graphql.Field{Type: graphql.String},
		"count":    &graphql.Field{Type: graphql.Int},
		"critical": &graphql.Field{Type: graphql.Int},
		"high":     &graphql.Field{Type: graphql.Int},
		"medium":   &graphql.Field{Type: graphql.Int},
		"low":      &graphql.Field{Type: graphql.Int},
	},
})
