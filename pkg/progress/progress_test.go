package progress

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTracker(t *testing.T) {
	var out bytes.Buffer
	tr := New(&out, 2, true)

	tr.Start("a.blx", 1024)
	tr.Done("a.blx", 7, nil)
	tr.Start("b.blx", 2048)
	tr.Done("b.blx", 0, errors.New("boom"))

	got := out.String()
	assert.Contains(t, got, "[1/2] a.blx (1.0 KiB)")
	assert.Contains(t, got, "[1/2] a.blx: 7 records")
	assert.Contains(t, got, "[2/2] b.blx (2.0 KiB)")
	assert.Contains(t, got, "[2/2] b.blx: failed: boom")
}

func TestTracker_Disabled(t *testing.T) {
	var out bytes.Buffer
	tr := New(&out, 1, false)

	tr.Start("a.blx", 10)
	tr.Done("a.blx", 1, nil)
	assert.Empty(t, out.String())
}

func TestTracker_NilIsNoop(t *testing.T) {
	var tr *Tracker
	tr.Start("a.blx", 10)
	tr.Done("a.blx", 1, nil)
}
