// Package grade implements the scored-test harness: an ordered test
// registry, the Tracker scoring state machine, and the driver that runs
// every registered test and reports points.
package grade

import "sort"

// TestFunc is a single unit of verification logic. It awards points
// through the Tracker and returns an error when a check fails; any panic
// raised by the code under test is handled by the driver.
type TestFunc func(tr *Tracker) error

type registration struct {
	question string
	name     string
	points   int
	fn       TestFunc
}

// Registry is an ordered collection of scored tests grouped by question.
//
// Tests run in registration order within their question; questions run in
// lexicographic order regardless of when their tests were registered.
// Registering two tests under the same name is legal; both run.
type Registry struct {
	tests   []registration
	prereqs map[string]map[string]bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{prereqs: make(map[string]map[string]bool)}
}

// Register appends a test worth the given points to a question.
func (r *Registry) Register(question string, points int, name string, fn TestFunc) {
	r.tests = append(r.tests, registration{
		question: question,
		name:     name,
		points:   points,
		fn:       fn,
	})
}

// AddPrereq records that question depends on the listed prerequisite
// questions. The driver does not gate on prerequisites; the map is kept
// for reporting and for a future harness that skips dependents.
func (r *Registry) AddPrereq(question string, prereqs ...string) {
	set := r.prereqs[question]
	if set == nil {
		set = make(map[string]bool)
		r.prereqs[question] = set
	}
	for _, p := range prereqs {
		set[p] = true
	}
}

// Prereqs returns a copy of the prerequisite set recorded for a question,
// which may be empty.
func (r *Registry) Prereqs(question string) map[string]bool {
	out := make(map[string]bool, len(r.prereqs[question]))
	for p := range r.prereqs[question] {
		out[p] = true
	}
	return out
}

// Questions returns the distinct question ids in lexicographic order.
// This is the canonical execution order.
func (r *Registry) Questions() []string {
	seen := make(map[string]bool)
	var questions []string
	for _, t := range r.tests {
		if !seen[t.question] {
			seen[t.question] = true
			questions = append(questions, t.question)
		}
	}
	sort.Strings(questions)
	return questions
}

// Maxes returns the maximum attainable points per question: the sum of
// the point values of its tests.
func (r *Registry) Maxes() map[string]int {
	maxes := make(map[string]int)
	for _, t := range r.tests {
		maxes[t.question] += t.points
	}
	return maxes
}

// testsFor returns the registrations for a question in registration order.
func (r *Registry) testsFor(question string) []registration {
	var out []registration
	for _, t := range r.tests {
		if t.question == question {
			out = append(out, t)
		}
	}
	return out
}
