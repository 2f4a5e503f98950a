package reembed

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgressTracker(t *testing.T) {
	t.Run("reports at interval", func(t *testing.T) {
		var buf bytes.Buffer
		tracker := NewProgressTracker(&buf, 100, 10)
		tracker.Start()

		tracker.Update(5)
		assert.Empty(t, buf.String())

		tracker.Update(15)
		assert.Contains(t, buf.String(), "15/100")
	})

	t.Run("finish reports full progress", func(t *testing.T) {
		var buf bytes.Buffer
		tracker := NewProgressTracker(&buf, 50, 10)
		tracker.Start()
		tracker.Finish()

		assert.Contains(t, buf.String(), "50/50")
		assert.Contains(t, buf.String(), "100.0%")
	})

	t.Run("increment caps at total", func(t *testing.T) {
		var buf bytes.Buffer
		tracker := NewProgressTracker(&buf, 10, 1)
		tracker.Start()
		tracker.Increment(25)

		assert.Contains(t, buf.String(), "10/10")
	})

	t.Run("ignores updates before start", func(t *testing.T) {
		var buf bytes.Buffer
		tracker := NewProgressTracker(&buf, 10, 1)
		tracker.Update(5)

		assert.Empty(t, buf.String())
		assert.Zero(t, tracker.Elapsed())
	})
}
