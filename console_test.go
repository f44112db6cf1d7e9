package lasmerge

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConsoleReport(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)
	c.Report(nil)
	assert.Empty(t, buf.String())

	c.Report([]string{"Merging failed for AU_12_C: boom", "Cropping failed for BE_15_D (x.las): bad"})
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, []string{
		"Errors encountered:",
		"- Merging failed for AU_12_C: boom",
		"- Cropping failed for BE_15_D (x.las): bad",
	}, lines)
}

func TestConsoleProgress(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)
	c.Progress(1, 2, "AU_12_C")
	c.Noticef("Skipping %s: final LAS already exists", "BE_15_D")
	out := buf.String()
	assert.Contains(t, out, "1/2")
	assert.Contains(t, out, "Processing subgrid:")
	assert.Contains(t, out, "AU_12_C")
	assert.Contains(t, out, "Skipping BE_15_D: final LAS already exists")
}
