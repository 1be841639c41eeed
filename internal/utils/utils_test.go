package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEpochRoundTrip(t *testing.T) {
	millis, err := ParseEpoch("2026-01-15T10:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, "2026-01-15T10:30:00Z", FormatEpoch(millis))

	_, err = ParseEpoch("yesterday")
	assert.Error(t, err)
}

func TestCheckFileExt(t *testing.T) {
	valid := []string{"pdf", "txt"}

	ext, ok := CheckFileExt("notes.PDF", valid)
	assert.True(t, ok)
	assert.Equal(t, ".PDF", ext)

	_, ok = CheckFileExt("malware.exe", valid)
	assert.False(t, ok)

	_, ok = CheckFileExt("no-extension", valid)
	assert.False(t, ok)
}

func TestSanitize(t *testing.T) {
	title := "  padded  "
	req := struct {
		Name  string
		Title *string
		Tags  []string
	}{
		Name:  "  alice ",
		Title: &title,
		Tags:  []string{" go ", "notes"},
	}

	Sanitize(&req)

	assert.Equal(t, "alice", req.Name)
	assert.Equal(t, "padded", *req.Title)
	assert.Equal(t, []string{"go", "notes"}, req.Tags)
}

func TestSanitize_PanicsOnValue(t *testing.T) {
	assert.Panics(t, func() {
		Sanitize(struct{ Name string }{Name: "x"})
	})
}
