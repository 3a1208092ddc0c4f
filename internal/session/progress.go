package session

// Tally counts answers within one run.
type Tally struct {
	Total   int
	Correct int
}

// Record adds one answer result.
func (t *Tally) Record(correct bool) {
	t.Total++
	if correct {
		t.Correct++
	}
}

// Accuracy returns Correct / Total as a fraction in [0,1], or 0 when
// nothing was answered.
func (t Tally) Accuracy() float64 {
	if t.Total == 0 {
		return 0
	}
	return float64(t.Correct) / float64(t.Total)
}

// Percent returns the accuracy as a percentage.
func (t Tally) Percent() float64 {
	return t.Accuracy() * 100
}
