package fastq

import "sort"

// SortByTime orders records chronologically by their start_time. The
// sort is stable: reads sharing a timestamp keep their archive order.
func SortByTime(recs []Record) {
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Time.Before(recs[j].Time)
	})
}
