package workflow

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ahmetcoskunkizilkaya/disaster-report/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultAllowsEverything(t *testing.T) {
	p := Default()
	for _, from := range models.AllStatuses {
		for _, to := range models.AllStatuses {
			assert.True(t, p.Allowed(from, to), "%s -> %s", from, to)
		}
	}
	assert.False(t, p.Allowed(models.StatusPending, "closed"))
}

func TestStrict(t *testing.T) {
	p := Strict()
	cases := []struct {
		from, to models.ReportStatus
		want     bool
	}{
		{models.StatusPending, models.StatusValidated, true},
		{models.StatusValidated, models.StatusInProgress, true},
		{models.StatusInProgress, models.StatusResolved, true},
		{models.StatusResolved, models.StatusInProgress, true},
		{models.StatusPending, models.StatusResolved, false},
		{models.StatusResolved, models.StatusPending, false},
		{models.StatusValidated, models.StatusValidated, true},
	}
	for _, tc := range cases {
		t.Run(string(tc.from)+"->"+string(tc.to), func(t *testing.T) {
			assert.Equal(t, tc.want, p.Allowed(tc.from, tc.to))
		})
	}
}

func TestLoad(t *testing.T) {
	p, err := Load("")
	require.NoError(t, err)
	assert.True(t, p.Permissive())

	p, err = Load("STRICT")
	require.NoError(t, err)
	assert.Equal(t, ModeStrict, p.Name())

	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
transitions:
  pending: [validated, resolved]
  validated: [in_progress]
`), 0o600))

	p, err = Load(path)
	require.NoError(t, err)
	assert.False(t, p.Permissive())
	assert.True(t, p.Allowed(models.StatusPending, models.StatusResolved))
	assert.True(t, p.Allowed(models.StatusValidated, models.StatusInProgress))
	assert.False(t, p.Allowed(models.StatusInProgress, models.StatusResolved))
}

func TestParseRejectsUnknownStatus(t *testing.T) {
	_, err := Parse([]byte("transitions:\n  pending: [closed]\n"), "inline")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"closed"`)

	_, err = Parse([]byte("transitions:\n  open: [pending]\n"), "inline")
	require.Error(t, err)
}

func TestParsePermissiveFile(t *testing.T) {
	p, err := Parse([]byte("permissive: true\n"), "inline")
	require.NoError(t, err)
	assert.True(t, p.Allowed(models.StatusResolved, models.StatusPending))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
