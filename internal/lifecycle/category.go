package lifecycle

import (
	"sort"
	"time"

	"github.com/thedreamteamconsultancy/workstatus/internal/models/task"
)

// Categorize buckets a task by the calendar day of its deadline relative to
// now, both read in loc. Unfinished work from earlier days stays in present.
func Categorize(t *task.Task, now time.Time, loc *time.Location) task.Category {
	if loc == nil {
		loc = time.Local
	}
	deadlineDay := calendarDay(t.Deadline, loc)
	today := calendarDay(now, loc)

	switch {
	case deadlineDay.Before(today):
		if t.Status != task.StatusCompleted {
			return task.CategoryPresent
		}
		return task.CategoryPast
	case deadlineDay.Equal(today):
		return task.CategoryPresent
	default:
		return task.CategoryFuture
	}
}

func calendarDay(ts time.Time, loc *time.Location) time.Time {
	y, m, d := ts.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type Buckets struct {
	Present []*task.Task `json:"present"`
	Future  []*task.Task `json:"future"`
	Past    []*task.Task `json:"past"`
}

// Group categorises every task; each bucket is ordered by deadline.
func Group(tasks []*task.Task, now time.Time, loc *time.Location) Buckets {
	b := Buckets{
		Present: []*task.Task{},
		Future:  []*task.Task{},
		Past:    []*task.Task{},
	}
	for _, t := range tasks {
		switch Categorize(t, now, loc) {
		case task.CategoryPresent:
			b.Present = append(b.Present, t)
		case task.CategoryFuture:
			b.Future = append(b.Future, t)
		case task.CategoryPast:
			b.Past = append(b.Past, t)
		}
	}
	for _, list := range [][]*task.Task{b.Present, b.Future, b.Past} {
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].Deadline.Before(list[j].Deadline)
		})
	}
	return b
}
