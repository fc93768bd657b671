package grade

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Tracker is the scoring state machine. Its lifecycle is strictly nested:
//
//	BeginQ → (BeginTest → AddPoints* → EndTest)* → EndQ
//
// repeated once per question. The driver owns the sequencing; tests only
// call AddPoints and Printf. Contract breaches (ending a question with
// unaccounted points, beginning an unknown question) are programmer errors
// and panic.
//
// All scoring output flows through an explicit sink. Muting swaps the sink
// for io.Discard and remembers the original; Mute and Unmute are
// idempotent, so the driver can unmute unconditionally on failure paths.
type Tracker struct {
	questions []string
	maxes     map[string]int
	prereqs   map[string]map[string]bool
	points    map[string]int

	currentQuestion   string
	currentTest       string
	pointsAtTestStart int
	possibleRemaining int

	muteTests bool

	// mu guards the sink fields below. The driver's interrupt handler
	// unmutes from its own goroutine while a test may be printing.
	mu       sync.Mutex
	out      io.Writer
	savedOut io.Writer
	muted    bool
}

// NewTracker creates a Tracker for the questions in reg, writing scoring
// output to out (os.Stdout when nil). When muteTests is set, output
// produced inside each test is suppressed.
func NewTracker(reg *Registry, out io.Writer, muteTests bool) *Tracker {
	if out == nil {
		out = os.Stdout
	}
	questions := reg.Questions()
	points := make(map[string]int, len(questions))
	prereqs := make(map[string]map[string]bool, len(questions))
	for _, q := range questions {
		points[q] = 0
		prereqs[q] = reg.Prereqs(q)
	}
	return &Tracker{
		questions: questions,
		maxes:     reg.Maxes(),
		prereqs:   prereqs,
		points:    points,
		muteTests: muteTests,
		out:       out,
	}
}

// Printf writes to the current output sink. While muted, output vanishes.
func (t *Tracker) Printf(format string, args ...any) {
	t.mu.Lock()
	out := t.out
	t.mu.Unlock()
	fmt.Fprintf(out, format, args...)
}

// Mute redirects output to a discarding sink. No-op if already muted.
func (t *Tracker) Mute() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.muted {
		return
	}
	t.muted = true
	t.savedOut = t.out
	t.out = io.Discard
}

// Unmute restores the output sink saved by Mute. No-op if not muted.
func (t *Tracker) Unmute() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.muted {
		return
	}
	t.muted = false
	t.out = t.savedOut
	t.savedOut = nil
}

// BeginQ enters a question. The returned readiness flag is always true;
// it is reserved for prerequisite gating, which this harness records but
// does not enforce.
func (t *Tracker) BeginQ(question string) bool {
	max, ok := t.maxes[question]
	if !ok {
		panic(fmt.Sprintf("tracker: unknown question %q", question))
	}
	t.currentQuestion = question
	t.possibleRemaining = max
	return true
}

// BeginTest enters a test within the current question, printing the test
// header before any muting takes effect.
func (t *Tracker) BeginTest(name string) {
	if t.currentQuestion == "" {
		panic("tracker: BeginTest called outside of a question")
	}
	t.currentTest = name
	t.pointsAtTestStart = t.points[t.currentQuestion]
	t.Printf("*** %s) %s\n", t.currentQuestion, name)
	if t.muteTests {
		t.Mute()
	}
}

// AddPoints credits n points to the current question. It may be called
// several times within one test; all additions count toward that test's
// pass/fail comparison.
func (t *Tracker) AddPoints(n int) {
	if t.currentQuestion == "" {
		panic("tracker: AddPoints called outside of a question")
	}
	t.points[t.currentQuestion] += n
}

// EndTest leaves the current test, accounting for its declared weight.
//
// A test that earned exactly its weight prints PASS; one that earned
// nothing prints FAIL; partial credit prints neither. The silent partial
// case is deliberate: the test itself already reported what was earned.
func (t *Tracker) EndTest(pts int) {
	if t.currentTest == "" {
		panic("tracker: EndTest called without an active test")
	}
	if t.muteTests {
		t.Unmute()
	}
	t.possibleRemaining -= pts
	switch t.points[t.currentQuestion] {
	case t.pointsAtTestStart + pts:
		t.Printf("*** PASS: %s\n", t.currentTest)
	case t.pointsAtTestStart:
		t.Printf("*** FAIL\n")
	}
	t.currentTest = ""
	t.pointsAtTestStart = 0
}

// EndQ leaves the current question. Every point the question's tests
// declared must have been accounted for by EndTest calls; a mismatch
// means the driver and registry disagree and is unrecoverable.
func (t *Tracker) EndQ() {
	if t.currentQuestion == "" {
		panic("tracker: EndQ called outside of a question")
	}
	if t.possibleRemaining != 0 {
		panic(fmt.Sprintf("tracker: question %s ended with %d declared points unaccounted for",
			t.currentQuestion, t.possibleRemaining))
	}
	t.currentQuestion = ""
}

// Questions returns the question ids in execution order.
func (t *Tracker) Questions() []string {
	return t.questions
}

// Points returns the points awarded so far for a question.
func (t *Tracker) Points(question string) int {
	return t.points[question]
}

// Max returns the maximum attainable points for a question.
func (t *Tracker) Max(question string) int {
	return t.maxes[question]
}
