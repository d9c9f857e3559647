// Package advisories defines the GraphQL types and queries for the advisory table
// and detail view.
package advisories

import (
	"github.com/graphql-go/graphql"
)

// AdvisoryType is one row of the advisory table, with the detail view fields.
var AdvisoryType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Advisory",
	Fields: graphql.Fields{
		"id":                &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"vendor":            &graphql.Field{Type: graphql.String},
		"cve_id":            &graphql.Field{Type: graphql.String},
		"severity":          &graphql.Field{Type: graphql.String},
		"summary":           &graphql.Field{Type: graphql.String},
		"headline":          &graphql.Field{Type: graphql.String},
		"product":           &graphql.Field{Type: graphql.String},
		"published_date":    &graphql.Field{Type: graphql.String},
		"published_at":      &graphql.Field{Type: graphql.String},
		"url":               &graphql.Field{Type: graphql.String},
		"affected_versions": &graphql.Field{Type: graphql.String},
		"inserted_at":       &graphql.Field{Type: graphql.String},
	},
})

// AdvisoryListType is the table page: rows plus counts.
var AdvisoryListType = graphql.NewObject(graphql.ObjectConfig{
	Name: "AdvisoryList",
	Fields: graphql.Fields{
		"advisories":     &graphql.Field{Type: graphql.NewList(AdvisoryType)},
		"total":          &graphql.Field{Type: graphql.Int},
		"matched":        &graphql.Field{Type: graphql.Int},
		"active_filters": &graphql.Field{Type: graphql.Int},
	},
})

// FilterOptionsType lists the picker values.
var FilterOptionsType = graphql.NewObject(graphql.ObjectConfig{
	Name: "FilterOptions",
	Fields: graphql.Fields{
		"vendors":    &graphql.Field{Type: graphql.NewList(graphql.String)},
		"products":   &graphql.Field{Type: graphql.NewList(graphql.String)},
		"severities": &graphql.Field{Type: graphql.NewList(graphql.String)},
	},
})

// AdvisoryFilterInput mirrors the dashboard filter panel. Dates are ISO-8601; the
// range applies only when both are given.
var AdvisoryFilterInput = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "AdvisoryFilterInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"vendors":    &graphql.InputObjectFieldConfig{Type: graphql.NewList(graphql.String)},
		"severities": &graphql.InputObjectFieldConfig{Type: graphql.NewList(graphql.String)},
		"products":   &graphql.InputObjectFieldConfig{Type: graphql.NewList(graphql.String)},
		"start":      &graphql.InputObjectFieldConfig{Type: graphql.String},
		"end":        &graphql.InputObjectFieldConfig{Type: graphql.String},
		"search":     &graphql.InputObjectFieldConfig{Type: graphql.String},
	},
})
