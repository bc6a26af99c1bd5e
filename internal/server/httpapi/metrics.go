package httpapi

import (
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/fittrack/internal/common"
	"github.com/dmitrijs2005/fittrack/internal/models"
)

type createMetricRequest struct {
	ID string `json:"id"`
	models.MetricPayload
}

type createMetricRecordRequest struct {
	ID string `json:"id"`
	models.MetricRecordPayload
}

func validateMetric(p models.MetricPayload) error {
	if err := validateName(p.Name); err != nil {
		return err
	}
	if p.Unit == "" {
		return fmt.Errorf("unit is required")
	}
	return nil
}

func (a *API) createMetric(w http.ResponseWriter, r *http.Request) {
	var req createMetricRequest
	if !a.decode(w, r, &req) {
		return
	}

	id, err := resolveID(req.ID)
	if err == nil {
		err = validateMetric(req.MetricPayload)
	}
	if err != nil {
		a.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.metrics.Create(r.Context(), userID(r), id, req.MetricPayload); err != nil {
		a.writeRepoError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, okResponse{OK: true})
}

func (a *API) updateMetric(w http.ResponseWriter, r *http.Request) {
	id, ok := a.pathID(w, r)
	if !ok {
		return
	}

	var p models.MetricPayload
	if !a.decode(w, r, &p) {
		return
	}
	if err := validateMetric(p); err != nil {
		a.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.metrics.Update(r.Context(), userID(r), id, p); err != nil {
		a.writeRepoError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, okResponse{OK: true})
}

func (a *API) archiveMetric(w http.ResponseWriter, r *http.Request) {
	id, ok := a.pathID(w, r)
	if !ok {
		return
	}
	if err := a.metrics.Archive(r.Context(), userID(r), id); err != nil {
		a.writeRepoError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, okResponse{OK: true})
}

func (a *API) listMetrics(w http.ResponseWriter, r *http.Request) {
	q, err := parseListQuery(r, "name")
	if err != nil {
		a.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	list, total, err := a.metrics.List(r.Context(), userID(r), q)
	if err != nil {
		a.writeRepoError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, models.ListResponse[models.Metric]{
		List:       list,
		Pagination: models.Pagination{Page: q.Page, PageSize: q.PageSize, Total: total},
	})
}

func validateMetricRecord(p models.MetricRecordPayload) error {
	if !common.IsValidID(p.MetricID) {
		return fmt.Errorf("invalid metricId")
	}
	if p.Date == "" {
		return fmt.Errorf("date is required")
	}
	if _, err := common.ParseISO(p.Date); err != nil {
		return fmt.Errorf("invalid date")
	}
	return nil
}

func (a *API) createMetricRecord(w http.ResponseWriter, r *http.Request) {
	var req createMetricRecordRequest
	if !a.decode(w, r, &req) {
		return
	}

	id, err := resolveID(req.ID)
	if err == nil {
		err = validateMetricRecord(req.MetricRecordPayload)
	}
	if err != nil {
		a.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.metrics.CreateRecord(r.Context(), userID(r), id, req.MetricRecordPayload); err != nil {
		a.writeRepoError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, okResponse{OK: true})
}

func (a *API) updateMetricRecord(w http.ResponseWriter, r *http.Request) {
	id, ok := a.pathID(w, r)
	if !ok {
		return
	}

	var p models.MetricRecordPayload
	if !a.decode(w, r, &p) {
		return
	}
	if err := validateMetricRecord(p); err != nil {
		a.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.metrics.UpdateRecord(r.Context(), userID(r), id, p); err != nil {
		a.writeRepoError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, okResponse{OK: true})
}

func (a *API) archiveMetricRecord(w http.ResponseWriter, r *http.Request) {
	id, ok := a.pathID(w, r)
	if !ok {
		return
	}
	if err := a.metrics.ArchiveRecord(r.Context(), userID(r), id); err != nil {
		a.writeRepoError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, okResponse{OK: true})
}

func (a *API) listMetricRecords(w http.ResponseWriter, r *http.Request) {
	q, err := parseListQuery(r, "date")
	if err != nil {
		a.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	list, total, err := a.metrics.ListRecords(r.Context(), userID(r), q)
	if err != nil {
		a.writeRepoError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, models.ListResponse[models.MetricRecord]{
		List:       list,
		Pagination: models.Pagination{Page: q.Page, PageSize: q.PageSize, Total: total},
	})
}
