package dto_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"meetbook/shared/constant"
	"meetbook/shared/dto"
	"meetbook/shared/model"

	"github.com/stretchr/testify/assert"
)

func TestMetadata_FromModel(t *testing.T) {
	createdAt := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	modifiedAt := time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC)

	metadata := dto.Metadata{}
	metadata.FromModel(model.Metadata{
		CreatedAt:  createdAt,
		ModifiedAt: modifiedAt,
		CreatedBy:  "creator",
		ModifiedBy: "modifier",
	})

	assert.NotEmpty(t, metadata.CreatedAt)
	assert.NotEmpty(t, metadata.ModifiedAt)
	assert.Equal(t, "creator", metadata.CreatedBy)
	assert.Equal(t, "modifier", metadata.ModifiedBy)
}

func TestQueryParams_FromRequest(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		defaultRequest bool
		expected       dto.QueryParams
	}{
		{
			name:     "all parameters",
			query:    "page=2&limit=20&sort_by=email&sort_dir=asc",
			expected: dto.QueryParams{Page: 2, Limit: 20, SortBy: "email", SortDir: dto.SortDirAsc},
		},
		{
			name:           "defaults when empty",
			defaultRequest: true,
			expected:       dto.QueryParams{Page: constant.DefaultValuePage, Limit: constant.DefaultValueLimit},
		},
		{
			name:           "invalid values fall back to defaults",
			query:          "page=-1&limit=abc&sort_dir=sideways",
			defaultRequest: true,
			expected:       dto.QueryParams{Page: constant.DefaultValuePage, Limit: constant.DefaultValueLimit},
		},
		{
			name:     "no defaults",
			expected: dto.QueryParams{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/v1/events?"+tt.query, nil)

			params := dto.QueryParams{}
			params.FromRequest(req, tt.defaultRequest)

			assert.Equal(t, tt.expected, params)
		})
	}
}

func TestFilter_GetWhereClause(t *testing.T) {
	tests := []struct {
		name      string
		filter    dto.Filter
		wantWhere string
		wantArgs  map[string]any
	}{
		{
			name:      "equal",
			filter:    dto.Filter{Field: "status", Value: "pending", Operator: dto.FilterOperatorEq, Table: "attendees"},
			wantWhere: "attendees.status = :status",
			wantArgs:  map[string]any{"status": "pending"},
		},
		{
			name:      "case-insensitive equal",
			filter:    dto.Filter{Field: "company", Value: "Acme", Operator: dto.FilterOperatorIEq, Table: "slots"},
			wantWhere: "LOWER(slots.company) = LOWER(:company)",
			wantArgs:  map[string]any{"company": "Acme"},
		},
		{
			name:      "like with custom arg name",
			filter:    dto.Filter{ArgName: "q", Field: "email", Value: "acme", Operator: dto.FilterOperatorLike},
			wantWhere: "LOWER(email) LIKE LOWER(:q) ",
			wantArgs:  map[string]any{"q": "%acme%"},
		},
		{
			name:      "in with slice",
			filter:    dto.Filter{Field: "id", Value: []string{"a", "b"}, Operator: dto.FilterOperatorIn},
			wantWhere: "id IN (:id_0, :id_1) ",
			wantArgs:  map[string]any{"id_0": "a", "id_1": "b"},
		},
		{
			name:      "in with scalar",
			filter:    dto.Filter{Field: "status", Value: "pending", Operator: dto.FilterOperatorIn},
			wantWhere: "status IN (:status) ",
			wantArgs:  map[string]any{"status": "pending"},
		},
		{
			name:      "unknown operator",
			filter:    dto.Filter{Field: "status", Value: "pending", Operator: "between"},
			wantWhere: "",
			wantArgs:  map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := tt.filter.GetWhereClause()

			assert.Equal(t, tt.wantWhere, where)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestFilterGroup_Nested(t *testing.T) {
	group := dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters: []any{
			dto.Filter{Field: "event_id", Value: "e1", Operator: dto.FilterOperatorEq},
			dto.FilterGroup{
				Operator: dto.FilterGroupOperatorOr,
				Filters: []any{
					dto.Filter{Field: "status", Value: "pending", Operator: dto.FilterOperatorEq},
					dto.Filter{ArgName: "status_2", Field: "status", Value: "scheduled", Operator: dto.FilterOperatorEq},
				},
			},
		},
	}

	where, args := group.GetWhereClause()

	assert.Equal(t, "(event_id = :event_id AND (status = :status OR status = :status_2))", where)
	assert.Len(t, args, 3)
	assert.Equal(t, "event_id=e1&status=pending&status_2=scheduled", dto.SortedArgs(args))
}

func TestFilterGroup_SkipsEmptyClauses(t *testing.T) {
	group := dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters: []any{
			dto.Filter{Field: "event_id", Value: "e1", Operator: dto.FilterOperatorEq},
			dto.FilterGroup{Operator: dto.FilterGroupOperatorOr},
			dto.Filter{Field: "status", Value: "pending", Operator: "between"},
			"not a filter",
		},
	}

	where, args := group.GetWhereClause()

	assert.Equal(t, "(event_id = :event_id)", where)
	assert.Equal(t, map[string]any{"event_id": "e1"}, args)
}
