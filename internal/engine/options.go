package engine

import (
	"slices"

	"github.com/ortelius/vulnwatch-backend/model"
	"github.com/samber/lo"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// FilterOptions lists the values offered by the vendor and product pickers.
type FilterOptions struct {
	Vendors    []string         `json:"vendors"`
	Products   []string         `json:"products"`
	Severities []model.Severity `json:"severities"`
}

// BuildFilterOptions collects the distinct vendors and products of advisories,
// sorted by English collation.
func BuildFilterOptions(advisories []model.Advisory) FilterOptions {
	vendors := lo.Uniq(lo.Map(advisories, func(a model.Advisory, _ int) string { return a.Vendor }))
	products := lo.Uniq(lo.Map(advisories, func(a model.Advisory, _ int) string { return a.Product }))

	coll := collate.New(language.English)
	slices.SortFunc(vendors, coll.CompareString)
	slices.SortFunc(products, coll.CompareString)

	return FilterOptions{
		Vendors:    lo.Compact(vendors),
		Products:   lo.Compact(products),
		Severities: model.Severities(),
	}
}
