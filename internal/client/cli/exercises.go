package cli

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/fittrack/internal/common"
	"github.com/dmitrijs2005/fittrack/internal/models"
)

func (a *App) listExercises(ctx context.Context) {
	if !a.isLoggedIn() {
		printlnFn("Log in first")
		return
	}

	list, err := a.entities.GetAllExercises(ctx)
	if err != nil {
		printlnFn("Error:", err.Error())
		return
	}

	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })

	shown := 0
	for _, e := range list {
		if e.Archived {
			continue
		}
		printlnFn(fmt.Sprintf("%s  %-30s %-5s %s", e.ID, e.Name, e.Type, strings.Join(e.Muscles, ",")))
		shown++
	}
	if shown == 0 {
		printlnFn("No exercises yet. Use 'addex' to add one.")
	}
}

func (a *App) addExercise(ctx context.Context) {
	if !a.isLoggedIn() {
		printlnFn("Log in first")
		return
	}

	name, err := getSimpleText(a.reader, "Exercise name", stdout())
	if err != nil || name == "" {
		printlnFn("Cancelled")
		return
	}

	kindStr, err := getSimpleText(a.reader, "Type: reps or time [reps]", stdout())
	if err != nil {
		printlnFn("Cancelled")
		return
	}
	kind := models.ExerciseTypeReps
	if strings.EqualFold(kindStr, "time") {
		kind = models.ExerciseTypeTime
	}

	musclesStr, _ := getSimpleText(a.reader, "Muscle codes, comma-separated (optional)", stdout())

	rec, err := a.recorder.UpsertExercise(ctx, "", models.ExercisePayload{
		Name:    name,
		Type:    kind,
		Muscles: splitCSV(musclesStr),
	})
	if err != nil {
		printlnFn("Error:", err.Error())
		return
	}
	printlnFn("Added exercise", rec.ID)
}

func (a *App) logExercise(ctx context.Context) {
	if !a.isLoggedIn() {
		printlnFn("Log in first")
		return
	}

	exerciseID, err := getSimpleText(a.reader, "Exercise id", stdout())
	if err != nil || !common.IsValidID(exerciseID) {
		printlnFn("Invalid exercise id")
		return
	}

	exercise, err := a.entities.GetExercise(ctx, exerciseID)
	if err != nil {
		printlnFn("Error:", err.Error())
		return
	}
	if exercise == nil {
		printlnFn("Unknown exercise id")
		return
	}

	payload := models.ExerciseRecordPayload{
		ExerciseID: exerciseID,
		Kind:       exercise.Type,
		Date:       common.NowISO(),
	}

	if exercise.Type == models.ExerciseTypeTime {
		secStr, _ := getSimpleText(a.reader, "Duration (seconds)", stdout())
		sec, convErr := strconv.ParseFloat(secStr, 64)
		if convErr != nil || sec <= 0 {
			printlnFn("Invalid duration")
			return
		}
		ms := int64(sec * 1000)
		payload.DurationMs = &ms
	} else {
		repsStr, _ := getSimpleText(a.reader, "Reps", stdout())
		reps, convErr := strconv.Atoi(repsStr)
		if convErr != nil || reps <= 0 {
			printlnFn("Invalid rep count")
			return
		}
		payload.RepsAmount = &reps
	}

	if weightStr, _ := getSimpleText(a.reader, "Weight (optional)", stdout()); weightStr != "" {
		weight, convErr := strconv.ParseFloat(weightStr, 64)
		if convErr != nil {
			printlnFn("Invalid weight")
			return
		}
		payload.Weight = &weight
	}

	note, _ := getSimpleText(a.reader, "Note (optional)", stdout())
	payload.Note = note

	rec, err := a.recorder.UpsertExerciseRecord(ctx, "", payload)
	if err != nil {
		printlnFn("Error:", err.Error())
		return
	}
	printlnFn("Logged", exercise.Name, "as", rec.ID)
}

func (a *App) listExerciseRecords(ctx context.Context, args []string) {
	if !a.isLoggedIn() {
		printlnFn("Log in first")
		return
	}

	from, to, err := dateRange(args)
	if err != nil {
		printlnFn(err.Error())
		return
	}

	list, err := a.entities.GetExerciseRecordsByDate(ctx, from, to)
	if err != nil {
		printlnFn("Error:", err.Error())
		return
	}

	for _, r := range list {
		name := r.ExerciseID
		if r.Exercise != nil {
			name = r.Exercise.Name
		}
		amount := ""
		switch {
		case r.RepsAmount != nil:
			amount = fmt.Sprintf("%d reps", *r.RepsAmount)
		case r.DurationMs != nil:
			amount = fmt.Sprintf("%.1fs", float64(*r.DurationMs)/1000)
		}
		if r.Weight != nil {
			amount += fmt.Sprintf(" @ %.1f", *r.Weight)
		}
		printlnFn(fmt.Sprintf("%s  %s  %-25s %s", r.ID, day(r.Date), name, amount))
	}
	if len(list) == 0 {
		printlnFn("No records in this range")
	}
}

// dateRange converts optional YYYY-MM-DD arguments into inclusive ISO
// timestamp bounds.
func dateRange(args []string) (from, to string, err error) {
	if len(args) > 0 {
		if len(args[0]) != 10 {
			return "", "", fmt.Errorf("invalid date %q, expected YYYY-MM-DD", args[0])
		}
		from = args[0] + "T00:00:00.000Z"
	}
	if len(args) > 1 {
		if len(args[1]) != 10 {
			return "", "", fmt.Errorf("invalid date %q, expected YYYY-MM-DD", args[1])
		}
		to = args[1] + "T23:59:59.999Z"
	}
	return from, to, nil
}

// day trims an ISO timestamp to its date part.
func day(date string) string {
	if len(date) >= 10 {
		return date[:10]
	}
	return date
}

func splitCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
