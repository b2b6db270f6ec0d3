package dtc

// Order moves complete records (timestamp and odometer both present) ahead
// of the others. Relative order inside each group is preserved and the
// input slice is left untouched.
func Order(records []Record) []Record {
	out := make([]Record, 0, len(records))
	var rest []Record
	for _, r := range records {
		if r.Complete() {
			out = append(out, r)
		} else {
			rest = append(rest, r)
		}
	}
	return append(out, rest...)
}
