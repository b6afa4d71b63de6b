package expiry

// Summary counts classified batches per status.
type Summary struct {
	Expired int `json:"expired"`
	Urgent  int `json:"urgent"`
	Healthy int `json:"healthy"`
	Total   int `json:"total"`
}

// Add counts one result.
func (s *Summary) Add(r Result) {
	switch r.Status {
	case StatusExpired:
		s.Expired++
	case StatusUrgent:
		s.Urgent++
	case StatusHealthy:
		s.Healthy++
	}
	s.Total++
}

// Summarize counts the given results.
func Summarize(results []Result) Summary {
	var s Summary
	for _, r := range results {
		s.Add(r)
	}
	return s
}
