package response

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name     string
		page     int
		pageSize int
		count    int
		total    int64
		expected Pagination
	}{
		{
			name: "first of three pages",
			page: 1, pageSize: 10, count: 10, total: 25,
			expected: Pagination{Page: 1, PageSize: 10, TotalPages: 3, TotalItems: 25, HasMore: true, From: 1, To: 10},
		},
		{
			name: "last partial page",
			page: 3, pageSize: 10, count: 5, total: 25,
			expected: Pagination{Page: 3, PageSize: 10, TotalPages: 3, TotalItems: 25, HasMore: false, From: 21, To: 25},
		},
		{
			name: "empty result set",
			page: 1, pageSize: 20, count: 0, total: 0,
			expected: Pagination{Page: 1, PageSize: 20, TotalPages: 0, TotalItems: 0, HasMore: false, From: 0, To: 0},
		},
		{
			name: "exact multiple of page size",
			page: 2, pageSize: 5, count: 5, total: 10,
			expected: Pagination{Page: 2, PageSize: 5, TotalPages: 2, TotalItems: 10, HasMore: false, From: 6, To: 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, &tt.expected, NewPagination(tt.page, tt.pageSize, tt.count, tt.total))
		})
	}
}
