package search

import (
	"sort"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/tripplanner/internal/pkg/geo"
)

// Where renders every filter of the query as one conjunction
func (q *Query) Where(s Schema) squirrel.And {
	where := squirrel.And{}
	for _, f := range q.Filters {
		where = append(where, f.SQL(s))
	}
	return where
}

// DistanceColumn returns the select expression for the distance from the center,
// or false when the query has no center.
func (q *Query) DistanceColumn(s Schema, alias string) (squirrel.Sqlizer, bool) {
	if q.Center == nil {
		return nil, false
	}
	expr, args := geo.DistanceSQL(*q.Center, s.Point)
	return squirrel.Alias(squirrel.Expr(expr, args...), alias), true
}

// Order appends the ORDER BY of the query's sort strategy. The id is always the
// final key so that pages are stable.
func (q *Query) Order(sb squirrel.SelectBuilder, s Schema) squirrel.SelectBuilder {
	switch q.Sort {
	case SortDistance:
		expr, args := geo.DistanceSQL(*q.Center, s.Point)
		sb = sb.OrderByClause(expr+" ASC", args...)
		return sb.OrderBy(s.ID + " ASC")
	case SortRating:
		return sb.OrderBy(s.Rating+" DESC", s.TotalReviews+" DESC", s.ID+" ASC")
	case SortPriceAsc:
		return sb.OrderBy(s.Price+" ASC", s.ID+" ASC")
	case SortPriceDesc:
		return sb.OrderBy(s.Price+" DESC", s.ID+" ASC")
	case SortPopularity:
		for _, col := range s.Popularity {
			sb = sb.OrderBy(col + " DESC")
		}
		return sb.OrderBy(s.ID + " ASC")
	default:
		return sb.OrderBy(s.CreatedAt+" DESC", s.ID+" DESC")
	}
}

// Paginate applies the limit and offset of the requested page
func (q *Query) Paginate(sb squirrel.SelectBuilder) squirrel.SelectBuilder {
	return sb.Limit(uint64(q.Limit)).Offset(q.Offset())
}

// Match reports whether r satisfies every filter
func (q *Query) Match(r Record) bool {
	for _, f := range q.Filters {
		if !f.Match(r) {
			return false
		}
	}
	return true
}

// Less orders two records the way Order orders rows
func (q *Query) Less(a, b Record) bool {
	switch q.Sort {
	case SortDistance:
		da, db := geo.DistanceFrom(*q.Center, a.Point), geo.DistanceFrom(*q.Center, b.Point)
		if da != db {
			return da < db
		}
	case SortRating:
		if a.Rating != b.Rating {
			return a.Rating > b.Rating
		}
		if a.TotalReviews != b.TotalReviews {
			return a.TotalReviews > b.TotalReviews
		}
	case SortPriceAsc:
		if a.Price != b.Price {
			return a.Price < b.Price
		}
	case SortPriceDesc:
		if a.Price != b.Price {
			return a.Price > b.Price
		}
	case SortPopularity:
		for i := 0; i < len(a.Popularity) && i < len(b.Popularity); i++ {
			if a.Popularity[i] != b.Popularity[i] {
				return a.Popularity[i] > b.Popularity[i]
			}
		}
	default:
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	}
	return a.ID < b.ID
}

// Apply filters, sorts and pages records in memory. It returns the indices of the
// page rows into records together with the total number of matches.
func (q *Query) Apply(records []Record) ([]int, int64) {
	matched := make([]int, 0, len(records))
	for i, r := range records {
		if q.Match(r) {
			matched = append(matched, i)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return q.Less(records[matched[i]], records[matched[j]])
	})

	total := len(matched)
	offset := int(q.Offset())
	if offset >= total {
		return []int{}, int64(total)
	}
	end := offset + q.Limit
	if end > total {
		end = total
	}
	return matched[offset:end], int64(total)
}
