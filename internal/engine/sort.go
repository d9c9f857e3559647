package engine

import (
	"cmp"
	"slices"

	"github.com/ortelius/vulnwatch-backend/model"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortAdvisories returns a stably sorted copy of advisories.
//
// Severity sorts by rank (Critical first in asc), vendor and CVE id by English
// collation, and the published date by instant. Advisories with an unparseable
// published date are placed after all dated ones in either direction.
func SortAdvisories(advisories []model.Advisory, s model.SortState) []model.Advisory {
	out := slices.Clone(advisories)
	compare := comparator(s)
	slices.SortStableFunc(out, compare)
	return out
}

func comparator(s model.SortState) func(a, b model.Advisory) int {
	sign := 1
	if s.Direction == model.SortDesc {
		sign = -1
	}

	switch s.Field {
	case model.SortBySeverity:
		return func(a, b model.Advisory) int {
			return sign * cmp.Compare(a.Severity.Rank(), b.Severity.Rank())
		}
	case model.SortByVendor:
		coll := collate.New(language.English)
		return func(a, b model.Advisory) int {
			return sign * coll.CompareString(a.Vendor, b.Vendor)
		}
	case model.SortByCveID:
		coll := collate.New(language.English)
		return func(a, b model.Advisory) int {
			return sign * coll.CompareString(a.CveID, b.CveID)
		}
	default:
		return func(a, b model.Advisory) int {
			ta, okA := a.Published()
			tb, okB := b.Published()
			switch {
			case !okA && !okB:
				return 0
			case !okA:
				return 1
			case !okB:
				return -1
			}
			return sign * ta.Compare(tb)
		}
	}
}
