package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullyVerified() map[string]bool {
	m := make(map[string]bool, len(RequiredFields))
	for _, f := range RequiredFields {
		m[f] = true
	}
	return m
}

func TestAllVerified(t *testing.T) {
	m := fullyVerified()
	assert.True(t, AllVerified(m))

	m["video"] = false
	assert.False(t, AllVerified(m))

	// A missing key counts as unchecked.
	delete(m, "video")
	assert.False(t, AllVerified(m))

	assert.False(t, AllVerified(nil))
}

func TestUnverifiedLabels(t *testing.T) {
	m := fullyVerified()
	m["doc"] = false
	m["ifsc"] = false

	got := UnverifiedLabels(m)
	// Checklist order, not map order.
	assert.Equal(t, []string{"IFSC/Routing Code", "Government ID"}, got)

	assert.Nil(t, UnverifiedLabels(fullyVerified()))
}

func TestFieldLabel(t *testing.T) {
	assert.Equal(t, "Government ID", FieldLabel("doc"))
	assert.Equal(t, "Liveness Video Probe", FieldLabel("video"))
	assert.Equal(t, "mystery", FieldLabel("mystery"))
}

func TestSynthesizeRejection(t *testing.T) {
	t.Run("multiple fields become a bulleted list", func(t *testing.T) {
		msg := SynthesizeRejection("Blurry document.", []string{"Government ID", "Liveness Video Probe"})
		assert.Contains(t, msg, `"Blurry document."`)
		assert.Contains(t, msg, "- Government ID\n- Liveness Video Probe")
		assert.True(t, strings.HasPrefix(msg, "Application Rejected."))
	})

	t.Run("single field stays singular", func(t *testing.T) {
		msg := SynthesizeRejection("", []string{"Bank Name"})
		assert.Contains(t, msg, "- Bank Name")
		assert.NotContains(t, msg, "Bank Name\n-")
		assert.Contains(t, msg, DefaultRejectionNote)
	})

	t.Run("no fields falls back to general failure", func(t *testing.T) {
		msg := SynthesizeRejection("Suspicious activity.", nil)
		require.Contains(t, msg, "- General Review Failed")
	})
}
