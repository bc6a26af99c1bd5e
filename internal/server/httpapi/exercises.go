package httpapi

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/fittrack/internal/common"
	"github.com/dmitrijs2005/fittrack/internal/models"
)

// Create requests carry the client-chosen id next to the payload fields so
// that offline-created records keep their id after upload.
type createExerciseRequest struct {
	ID string `json:"id"`
	models.ExercisePayload
}

type createExerciseRecordRequest struct {
	ID string `json:"id"`
	models.ExerciseRecordPayload
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("name is required")
	}
	if len(name) > models.MaxNameLength {
		return fmt.Errorf("name exceeds %d characters", models.MaxNameLength)
	}
	return nil
}

func validateExerciseType(t models.ExerciseType) error {
	if t != models.ExerciseTypeReps && t != models.ExerciseTypeTime {
		return fmt.Errorf("type must be REPS or TIME")
	}
	return nil
}

// resolveID validates or generates the record id on create.
func resolveID(id string) (string, error) {
	if id == "" {
		return common.NewID(), nil
	}
	if !common.IsValidID(id) {
		return "", fmt.Errorf("invalid id")
	}
	return id, nil
}

func (a *API) pathID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if !common.IsValidID(id) {
		a.writeError(w, http.StatusBadRequest, "invalid id")
		return "", false
	}
	return id, true
}

func (a *API) createExercise(w http.ResponseWriter, r *http.Request) {
	var req createExerciseRequest
	if !a.decode(w, r, &req) {
		return
	}

	id, err := resolveID(req.ID)
	if err == nil {
		err = validateName(req.Name)
	}
	if err == nil {
		err = validateExerciseType(req.Type)
	}
	if err != nil {
		a.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.exercises.Create(r.Context(), userID(r), id, req.ExercisePayload); err != nil {
		a.writeRepoError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, okResponse{OK: true})
}

func (a *API) updateExercise(w http.ResponseWriter, r *http.Request) {
	id, ok := a.pathID(w, r)
	if !ok {
		return
	}

	var p models.ExercisePayload
	if !a.decode(w, r, &p) {
		return
	}
	if err := validateName(p.Name); err != nil {
		a.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validateExerciseType(p.Type); err != nil {
		a.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.exercises.Update(r.Context(), userID(r), id, p); err != nil {
		a.writeRepoError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, okResponse{OK: true})
}

func (a *API) archiveExercise(w http.ResponseWriter, r *http.Request) {
	id, ok := a.pathID(w, r)
	if !ok {
		return
	}
	if err := a.exercises.Archive(r.Context(), userID(r), id); err != nil {
		a.writeRepoError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, okResponse{OK: true})
}

func (a *API) listExercises(w http.ResponseWriter, r *http.Request) {
	q, err := parseListQuery(r, "name")
	if err != nil {
		a.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	list, total, err := a.exercises.List(r.Context(), userID(r), q)
	if err != nil {
		a.writeRepoError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, models.ListResponse[models.Exercise]{
		List:       list,
		Pagination: models.Pagination{Page: q.Page, PageSize: q.PageSize, Total: total},
	})
}

func validateExerciseRecord(p models.ExerciseRecordPayload) error {
	if !common.IsValidID(p.ExerciseID) {
		return fmt.Errorf("invalid exerciseId")
	}
	if err := validateExerciseType(p.Kind); err != nil {
		return fmt.Errorf("kind must be REPS or TIME")
	}
	if p.Date == "" {
		return fmt.Errorf("date is required")
	}
	if _, err := common.ParseISO(p.Date); err != nil {
		return fmt.Errorf("invalid date")
	}
	return nil
}

func (a *API) createExerciseRecord(w http.ResponseWriter, r *http.Request) {
	var req createExerciseRecordRequest
	if !a.decode(w, r, &req) {
		return
	}

	id, err := resolveID(req.ID)
	if err == nil {
		err = validateExerciseRecord(req.ExerciseRecordPayload)
	}
	if err != nil {
		a.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.exercises.CreateRecord(r.Context(), userID(r), id, req.ExerciseRecordPayload); err != nil {
		a.writeRepoError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, okResponse{OK: true})
}

func (a *API) updateExerciseRecord(w http.ResponseWriter, r *http.Request) {
	id, ok := a.pathID(w, r)
	if !ok {
		return
	}

	var p models.ExerciseRecordPayload
	if !a.decode(w, r, &p) {
		return
	}
	if err := validateExerciseRecord(p); err != nil {
		a.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.exercises.UpdateRecord(r.Context(), userID(r), id, p); err != nil {
		a.writeRepoError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, okResponse{OK: true})
}

func (a *API) archiveExerciseRecord(w http.ResponseWriter, r *http.Request) {
	id, ok := a.pathID(w, r)
	if !ok {
		return
	}
	if err := a.exercises.ArchiveRecord(r.Context(), userID(r), id); err != nil {
		a.writeRepoError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, okResponse{OK: true})
}

func (a *API) listExerciseRecords(w http.ResponseWriter, r *http.Request) {
	q, err := parseListQuery(r, "date")
	if err != nil {
		a.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	list, total, err := a.exercises.ListRecords(r.Context(), userID(r), q)
	if err != nil {
		a.writeRepoError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, models.ListResponse[models.ExerciseRecord]{
		List:       list,
		Pagination: models.Pagination{Page: q.Page, PageSize: q.PageSize, Total: total},
	})
}
