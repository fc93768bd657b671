package grade

import (
	"os"
	"os/signal"
)

// exit is swappable so driver tests do not kill the test process.
var exit = os.Exit

// Options configures a grading run.
type Options struct {
	// Only restricts the run to a single question id when non-empty.
	Only string
}

// Run executes every registered test and returns the process exit code.
//
// Questions run in lexicographic order; within a question, tests run in
// registration order. The driver brackets each test with BeginTest and
// EndTest, so point accounting stays balanced even when a test fails:
// a test that errors or panics is reported, loses its points, and the run
// moves on. An interrupt (SIGINT) instead unmutes output and terminates
// the process with exit code 1.
func Run(reg *Registry, tr *Tracker, opts Options) int {
	interrupted := make(chan os.Signal, 1)
	signal.Notify(interrupted, os.Interrupt)
	done := make(chan struct{})
	defer close(done)
	defer signal.Stop(interrupted)
	go func() {
		select {
		case <-interrupted:
			tr.Unmute()
			exit(1)
		case <-done:
		}
	}()

	for _, q := range reg.Questions() {
		if opts.Only != "" && q != opts.Only {
			continue
		}
		if !tr.BeginQ(q) {
			continue
		}
		for _, test := range reg.testsFor(q) {
			runTest(tr, test)
		}
		tr.EndQ()
	}

	printSummary(tr, opts)
	return 0
}

// runTest executes one test with the Begin/End bracket and failure
// recovery. EndTest runs on every path so the question's declared points
// are always accounted for.
func runTest(tr *Tracker, test registration) {
	tr.BeginTest(test.name)
	defer func() {
		if r := recover(); r != nil {
			tr.Unmute()
			tr.Printf("*** unexpected error in %s: %v\n", test.name, r)
		}
		tr.EndTest(test.points)
	}()
	if err := test.fn(tr); err != nil {
		tr.Unmute()
		tr.Printf("*** %v\n", err)
	}
}

func printSummary(tr *Tracker, opts Options) {
	tr.Printf("\nProvisional grades\n==================\n")
	total, totalMax := 0, 0
	for _, q := range tr.Questions() {
		if opts.Only != "" && q != opts.Only {
			continue
		}
		tr.Printf("Question %s: %d/%d\n", q, tr.Points(q), tr.Max(q))
		total += tr.Points(q)
		totalMax += tr.Max(q)
	}
	tr.Printf("------------------\n")
	tr.Printf("Total: %d/%d\n", total, totalMax)
}
