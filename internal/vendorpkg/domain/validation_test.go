package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateKYCVideo(t *testing.T) {
	cases := []struct {
		name     string
		duration time.Duration
		ok       bool
	}{
		{"exactly at limit", 10 * time.Second, true},
		{"within buffer", 10900 * time.Millisecond, true},
		{"at buffer edge", 11 * time.Second, true},
		{"over buffer", 11100 * time.Millisecond, false},
		{"way over", 30 * time.Second, false},
		{"unmeasured", 0, false},
		{"negative", -time.Second, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateKYCVideo(tc.duration)
			if tc.ok {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var fe *FieldError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, "video", fe.Field)
		})
	}
}

func TestValidateKYCDocument(t *testing.T) {
	cases := []struct {
		name        string
		contentType string
		size        int64
		ok          bool
	}{
		{"pdf under limit", "application/pdf", 100 * 1024, true},
		{"pdf at limit", "application/pdf", 550 * 1024, true},
		{"pdf over limit", "application/pdf", 550*1024 + 1, false},
		{"jpeg rejected", "image/jpeg", 10, false},
		{"png rejected even tiny", "image/png", 1, false},
		{"empty type", "", 10, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateKYCDocument(tc.contentType, tc.size)
			if tc.ok {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var fe *FieldError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, "doc", fe.Field)
		})
	}
}
