package httpapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/fittrack/internal/common"
	srvmodels "github.com/dmitrijs2005/fittrack/internal/server/models"
)

// parseListQuery reads the listing parameters from the URL. Malformed
// numeric or timestamp values are a client error.
func parseListQuery(r *http.Request, defaultSortBy string) (srvmodels.ListQuery, error) {
	var q srvmodels.ListQuery
	values := r.URL.Query()

	var err error
	if q.Page, err = intParam(values.Get("page")); err != nil {
		return q, fmt.Errorf("invalid page")
	}
	if q.PageSize, err = intParam(values.Get("pageSize")); err != nil {
		return q, fmt.Errorf("invalid pageSize")
	}

	q.SortBy = values.Get("sortBy")
	q.SortOrder = values.Get("sortOrder")
	q.IncludeArchived = values.Get("archived") == "true"

	if v := values.Get("updatedAfter"); v != "" {
		if _, err := common.ParseISO(v); err != nil {
			return q, fmt.Errorf("invalid updatedAfter")
		}
		q.UpdatedAfter = v
	}
	q.DateFrom = values.Get("dateFrom")
	q.DateTo = values.Get("dateTo")

	q.Normalize(defaultSortBy)
	return q, nil
}

func intParam(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}
