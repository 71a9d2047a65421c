package analytics

import (
	"fmt"
	"time"

	"github.com/localdrive/driveindex/internal/index"
)

func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

func monthKey(t time.Time) string {
	return fmt.Sprintf("%04d-%02d", t.Year(), t.Month())
}

// weekKey returns the ISO week's Monday as YYYY-MM-DD.
func weekKey(t time.Time) string {
	isoWeekday := int(t.Weekday())
	if isoWeekday == 0 {
		isoWeekday = 7
	}

	monday := t.AddDate(0, 0, -(isoWeekday - 1))

	return dateKey(monday)
}

func addToSeries(series map[string]TimeBucket, key string, size int64) {
	b := series[key]
	b.Count++
	b.TotalSize += size
	series[key] = b
}

func newSeries() (day, week, month map[string]TimeBucket) {
	return make(map[string]TimeBucket), make(map[string]TimeBucket), make(map[string]TimeBucket)
}

// ComputeTimeline buckets non-folder files by day, ISO week (Monday start),
// and month, for both their created and modified timestamps.
func ComputeTimeline(files []*index.FileRecord) Timeline {
	createdDay, createdWeek, createdMonth := newSeries()
	modifiedDay, modifiedWeek, modifiedMonth := newSeries()

	for _, f := range files {
		if f.IsFolder() {
			continue
		}

		size := fileSize(f)

		if cdt, err := time.Parse(time.RFC3339, f.CreatedTime); err == nil {
			addToSeries(createdDay, dateKey(cdt), size)
			addToSeries(createdWeek, weekKey(cdt), size)
			addToSeries(createdMonth, monthKey(cdt), size)
		}

		if mdt, err := time.Parse(time.RFC3339, f.ModifiedTime); err == nil {
			addToSeries(modifiedDay, dateKey(mdt), size)
			addToSeries(modifiedWeek, weekKey(mdt), size)
			addToSeries(modifiedMonth, monthKey(mdt), size)
		}
	}

	return Timeline{
		Created:  TimeSeries{Day: createdDay, Week: createdWeek, Month: createdMonth},
		Modified: TimeSeries{Day: modifiedDay, Week: modifiedWeek, Month: modifiedMonth},
	}
}
