package tasks

import "time"

// Categorize partitions tasks into the six temporal buckets relative to
// now. Completed tasks go to the Completed list and never into a bucket.
// Within each bucket, derivation order is preserved.
//
// Boundaries, with every due date normalized to local midnight:
//
//	due <  today            -> Overdue
//	due == today            -> Today
//	due == today+1d         -> Tomorrow
//	today < due <= today+7d -> ThisWeek
//	due >  today+7d         -> Later
//
// The 7-day boundary is inclusive: a task due exactly a week out is still
// "this week".
func Categorize(all []Task, now time.Time) Categorized {
	today := midnight(now)
	tomorrow := today.AddDate(0, 0, 1)
	nextWeek := today.AddDate(0, 0, 7)

	var c Categorized
	for _, task := range all {
		if task.Completed {
			c.Completed = append(c.Completed, task)
			continue
		}
		if !task.HasDue {
			c.NoDate = append(c.NoDate, task)
			continue
		}

		due := midnight(task.Due)
		switch {
		case due.Before(today):
			c.Overdue = append(c.Overdue, task)
		case due.Equal(today):
			c.Today = append(c.Today, task)
		case due.Equal(tomorrow):
			c.Tomorrow = append(c.Tomorrow, task)
		case !due.After(nextWeek):
			c.ThisWeek = append(c.ThisWeek, task)
		default:
			c.Later = append(c.Later, task)
		}
	}

	return c
}

// Incomplete returns the number of tasks placed in buckets.
func (c Categorized) Incomplete() int {
	return len(c.Overdue) + len(c.Today) + len(c.Tomorrow) +
		len(c.ThisWeek) + len(c.Later) + len(c.NoDate)
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
