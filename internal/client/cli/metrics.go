package cli

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/dmitrijs2005/fittrack/internal/common"
	"github.com/dmitrijs2005/fittrack/internal/models"
)

func (a *App) listMetrics(ctx context.Context) {
	if !a.isLoggedIn() {
		printlnFn("Log in first")
		return
	}

	list, err := a.entities.GetAllMetrics(ctx)
	if err != nil {
		printlnFn("Error:", err.Error())
		return
	}

	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })

	shown := 0
	for _, m := range list {
		if m.Archived {
			continue
		}
		printlnFn(fmt.Sprintf("%s  %-30s %s", m.ID, m.Name, m.Unit))
		shown++
	}
	if shown == 0 {
		printlnFn("No metrics yet. Use 'addmetric' to add one.")
	}
}

func (a *App) addMetric(ctx context.Context) {
	if !a.isLoggedIn() {
		printlnFn("Log in first")
		return
	}

	name, err := getSimpleText(a.reader, "Metric name", stdout())
	if err != nil || name == "" {
		printlnFn("Cancelled")
		return
	}

	unit, err := getSimpleText(a.reader, "Unit (kg, lb, cm, bpm, kcal, count or custom)", stdout())
	if err != nil || unit == "" {
		printlnFn("Cancelled")
		return
	}

	rec, err := a.recorder.UpsertMetric(ctx, "", models.MetricPayload{Name: name, Unit: unit})
	if err != nil {
		printlnFn("Error:", err.Error())
		return
	}
	printlnFn("Added metric", rec.ID)
}

func (a *App) logMetric(ctx context.Context) {
	if !a.isLoggedIn() {
		printlnFn("Log in first")
		return
	}

	metricID, err := getSimpleText(a.reader, "Metric id", stdout())
	if err != nil || !common.IsValidID(metricID) {
		printlnFn("Invalid metric id")
		return
	}

	metric, err := a.entities.GetMetric(ctx, metricID)
	if err != nil {
		printlnFn("Error:", err.Error())
		return
	}
	if metric == nil {
		printlnFn("Unknown metric id")
		return
	}

	valueStr, _ := getSimpleText(a.reader, fmt.Sprintf("Value (%s)", metric.Unit), stdout())
	value, convErr := strconv.ParseFloat(valueStr, 64)
	if convErr != nil {
		printlnFn("Invalid value")
		return
	}

	note, _ := getSimpleText(a.reader, "Note (optional)", stdout())

	rec, err := a.recorder.UpsertMetricRecord(ctx, "", models.MetricRecordPayload{
		MetricID: metricID,
		Value:    value,
		Date:     common.NowISO(),
		Note:     note,
	})
	if err != nil {
		printlnFn("Error:", err.Error())
		return
	}
	printlnFn("Logged", metric.Name, "as", rec.ID)
}

func (a *App) listMetricRecords(ctx context.Context, args []string) {
	if !a.isLoggedIn() {
		printlnFn("Log in first")
		return
	}

	from, to, err := dateRange(args)
	if err != nil {
		printlnFn(err.Error())
		return
	}

	list, err := a.entities.GetMetricRecordsByDate(ctx, from, to)
	if err != nil {
		printlnFn("Error:", err.Error())
		return
	}

	for _, r := range list {
		name := r.MetricID
		unit := ""
		if r.Metric != nil {
			name = r.Metric.Name
			unit = r.Metric.Unit
		}
		printlnFn(fmt.Sprintf("%s  %s  %-25s %g %s", r.ID, day(r.Date), name, r.Value, unit))
	}
	if len(list) == 0 {
		printlnFn("No values in this range")
	}
}

func (a *App) archive(ctx context.Context, args []string) {
	if !a.isLoggedIn() {
		printlnFn("Log in first")
		return
	}
	if len(args) != 2 {
		printlnFn("Usage: archive <exercise|metric|record|value> <id>")
		return
	}
	kind, id := args[0], args[1]
	if !common.IsValidID(id) {
		printlnFn("Invalid id")
		return
	}

	var err error
	switch kind {
	case "exercise":
		err = a.recorder.ArchiveExercise(ctx, id)
	case "metric":
		err = a.recorder.ArchiveMetric(ctx, id)
	case "record":
		err = a.recorder.ArchiveExerciseRecord(ctx, id)
	case "value":
		err = a.recorder.ArchiveMetricRecord(ctx, id)
	default:
		printlnFn("Usage: archive <exercise|metric|record|value> <id>")
		return
	}
	if err != nil {
		printlnFn("Error:", err.Error())
		return
	}
	printlnFn("Archived", kind, id)
}
