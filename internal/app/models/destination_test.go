package models

import (
	"testing"

	"github.com/yigit/tripplanner/internal/pkg/search"
)

func TestDestinationPopularityOrder(t *testing.T) {
	q := &search.Query{Sort: search.SortPopularity}

	liked := &Destination{ID: 1, TotalLikes: 9, TotalCheckins: 3}
	visited := &Destination{ID: 2, TotalLikes: 1, TotalCheckins: 3}
	if !q.Less(liked.SearchRecord(), visited.SearchRecord()) {
		t.Error("more likes must rank first")
	}

	busy := &Destination{ID: 3, TotalLikes: 9, TotalCheckins: 7}
	if !q.Less(busy.SearchRecord(), liked.SearchRecord()) {
		t.Error("equal likes must break on check-ins descending")
	}
}
