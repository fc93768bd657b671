package grade

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRun_QuestionsRunInOrder checks that questions run lexicographically
// regardless of registration order, with tests in registration order
// inside each question.
func TestRun_QuestionsRunInOrder(t *testing.T) {
	var executed []string
	record := func(name string) TestFunc {
		return func(tr *Tracker) error {
			executed = append(executed, name)
			return nil
		}
	}

	reg := NewRegistry()
	reg.Register("q2", 1, "second", record("q2/second"))
	reg.Register("q1", 1, "first_b", record("q1/first_b"))
	reg.Register("q1", 1, "first_a", record("q1/first_a"))

	var buf bytes.Buffer
	tr := NewTracker(reg, &buf, false)
	code := Run(reg, tr, Options{})

	assert.Equal(t, 0, code)
	assert.Equal(t, []string{"q1/first_b", "q1/first_a", "q2/second"}, executed)
	assert.Less(t,
		strings.Index(buf.String(), "*** q1) first_b"),
		strings.Index(buf.String(), "*** q2) second"))
}

// TestRun_ErrorLosesPointsAndContinues checks that a failing test reports
// its error, earns nothing, and does not stop the run.
func TestRun_ErrorLosesPointsAndContinues(t *testing.T) {
	reg := NewRegistry()
	reg.Register("q1", 3, "check_broken", func(tr *Tracker) error {
		return errors.New("model returned the wrong shape")
	})
	reg.Register("q1", 2, "check_fine", func(tr *Tracker) error {
		tr.AddPoints(2)
		return nil
	})

	var buf bytes.Buffer
	tr := NewTracker(reg, &buf, false)
	Run(reg, tr, Options{})

	out := buf.String()
	assert.Contains(t, out, "*** model returned the wrong shape\n")
	assert.Contains(t, out, "*** FAIL\n")
	assert.Contains(t, out, "*** PASS: check_fine\n")
	assert.Equal(t, 2, tr.Points("q1"))
}

// TestRun_PanicIsRecovered checks that a panicking test is reported and
// the run continues with balanced accounting.
func TestRun_PanicIsRecovered(t *testing.T) {
	reg := NewRegistry()
	reg.Register("q1", 3, "check_explodes", func(tr *Tracker) error {
		panic("index out of range")
	})
	reg.Register("q2", 1, "check_after", func(tr *Tracker) error {
		tr.AddPoints(1)
		return nil
	})

	var buf bytes.Buffer
	tr := NewTracker(reg, &buf, false)
	require.NotPanics(t, func() { Run(reg, tr, Options{}) })

	out := buf.String()
	assert.Contains(t, out, "*** unexpected error in check_explodes: index out of range\n")
	assert.Equal(t, 0, tr.Points("q1"))
	assert.Equal(t, 1, tr.Points("q2"))
}

// TestRun_ErrorUnmutesOutput checks that failure output is visible even
// when test output is muted.
func TestRun_ErrorUnmutesOutput(t *testing.T) {
	reg := NewRegistry()
	reg.Register("q1", 1, "check_broken", func(tr *Tracker) error {
		tr.Printf("hidden progress output\n")
		return errors.New("visible failure")
	})

	var buf bytes.Buffer
	tr := NewTracker(reg, &buf, true)
	Run(reg, tr, Options{})

	out := buf.String()
	assert.NotContains(t, out, "hidden progress output")
	assert.Contains(t, out, "*** visible failure\n")
}

// TestRun_OnlyRestrictsToOneQuestion checks the single-question option.
func TestRun_OnlyRestrictsToOneQuestion(t *testing.T) {
	var executed []string
	record := func(name string) TestFunc {
		return func(tr *Tracker) error {
			executed = append(executed, name)
			tr.AddPoints(1)
			return nil
		}
	}

	reg := NewRegistry()
	reg.Register("q1", 1, "a", record("a"))
	reg.Register("q2", 1, "b", record("b"))

	var buf bytes.Buffer
	tr := NewTracker(reg, &buf, false)
	Run(reg, tr, Options{Only: "q2"})

	assert.Equal(t, []string{"b"}, executed)
	assert.Contains(t, buf.String(), "Question q2: 1/1\n")
	assert.NotContains(t, buf.String(), "Question q1")
}

// TestRun_SummaryTotals checks the provisional grades block.
func TestRun_SummaryTotals(t *testing.T) {
	reg := NewRegistry()
	reg.Register("q1", 3, "a", func(tr *Tracker) error {
		tr.AddPoints(3)
		return nil
	})
	reg.Register("q2", 4, "b", func(tr *Tracker) error {
		tr.AddPoints(1)
		return nil
	})

	var buf bytes.Buffer
	tr := NewTracker(reg, &buf, false)
	Run(reg, tr, Options{})

	out := buf.String()
	assert.Contains(t, out, "Provisional grades\n==================\n")
	assert.Contains(t, out, "Question q1: 3/3\n")
	assert.Contains(t, out, "Question q2: 1/4\n")
	assert.Contains(t, out, "Total: 4/7\n")
}

// TestRun_InterruptUnmutesAndExits checks the interrupt path: the signal
// handler restores the output sink and requests exit code 1 while a muted
// test is still printing.
func TestRun_InterruptUnmutesAndExits(t *testing.T) {
	exitCode := make(chan int, 1)
	origExit := exit
	exit = func(code int) { exitCode <- code }
	defer func() { exit = origExit }()

	reg := NewRegistry()
	reg.Register("q1", 1, "check_interrupted", func(tr *Tracker) error {
		proc, err := os.FindProcess(os.Getpid())
		require.NoError(t, err)
		require.NoError(t, proc.Signal(os.Interrupt))

		// Keep printing while the handler runs on its own goroutine.
		for i := 0; i < 1000; i++ {
			tr.Printf("training progress %d\n", i)
		}

		select {
		case code := <-exitCode:
			require.Equal(t, 1, code)
		case <-time.After(5 * time.Second):
			t.Fatal("interrupt was never handled")
		}
		tr.Printf("after interrupt\n")
		return nil
	})

	var buf bytes.Buffer
	tr := NewTracker(reg, &buf, true)
	Run(reg, tr, Options{})

	assert.Contains(t, buf.String(), "after interrupt\n",
		"output should be unmuted once the interrupt is handled")
}

// TestRegistry_PrereqsReturnsCopy checks that callers cannot mutate the
// recorded prerequisite sets.
func TestRegistry_PrereqsReturnsCopy(t *testing.T) {
	reg := NewRegistry()
	reg.Register("q1", 1, "a", func(tr *Tracker) error { return nil })
	reg.Register("q2", 1, "b", func(tr *Tracker) error { return nil })
	reg.AddPrereq("q2", "q1")

	got := reg.Prereqs("q2")
	got["q9"] = true
	delete(got, "q1")

	assert.True(t, reg.Prereqs("q2")["q1"])
	assert.False(t, reg.Prereqs("q2")["q9"])
}

// TestRegistry_PrereqsRecordedNotEnforced checks that prerequisites are
// kept for reporting but never gate execution.
func TestRegistry_PrereqsRecordedNotEnforced(t *testing.T) {
	reg := NewRegistry()
	reg.Register("q1", 1, "a", func(tr *Tracker) error { return nil })
	reg.Register("q2", 1, "b", func(tr *Tracker) error {
		tr.AddPoints(1)
		return nil
	})
	reg.AddPrereq("q2", "q1")

	assert.True(t, reg.Prereqs("q2")["q1"])

	// q1 fails, q2 still runs and earns its point.
	var buf bytes.Buffer
	tr := NewTracker(reg, &buf, false)
	Run(reg, tr, Options{})
	assert.Equal(t, 1, tr.Points("q2"))
}
