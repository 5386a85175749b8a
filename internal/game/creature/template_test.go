package creature

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const skeletonYAML = `
id: skeleton
name: skeleton
max_health: 100
damage: 5
action_time: 3s
name_pool:
  - Brigan
  - Morgan
`

func TestLoadTemplateFromBytes(t *testing.T) {
	tmpl, err := LoadTemplateFromBytes([]byte(skeletonYAML))
	require.NoError(t, err)
	assert.Equal(t, "skeleton", tmpl.ID)
	assert.Equal(t, 100, tmpl.MaxHealth)
	assert.Equal(t, 5, tmpl.Damage)
	assert.Equal(t, 3*time.Second, tmpl.ActionDuration())
	assert.Equal(t, []string{"Brigan", "Morgan"}, tmpl.NamePool)
}

func TestTemplateValidate(t *testing.T) {
	valid := Template{ID: "x", Name: "x", MaxHealth: 1, Damage: 1, ActionTime: "1s"}

	tests := []struct {
		name   string
		mutate func(*Template)
		errStr string
	}{
		{"empty id", func(m *Template) { m.ID = "" }, "id must not be empty"},
		{"empty name", func(m *Template) { m.Name = "" }, "name must not be empty"},
		{"zero health", func(m *Template) { m.MaxHealth = 0 }, "max_health"},
		{"zero damage", func(m *Template) { m.Damage = 0 }, "damage"},
		{"bad duration", func(m *Template) { m.ActionTime = "fast" }, "action_time"},
		{"negative duration", func(m *Template) { m.ActionTime = "-1s" }, "must be positive"},
	}

	require.NoError(t, valid.Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl := valid
			tt.mutate(&tmpl)
			err := tmpl.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errStr)
		})
	}
}

func TestLoadTemplates_Directory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skeleton.yaml"), []byte(skeletonYAML), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	templates, err := LoadTemplates(dir)
	require.NoError(t, err)
	require.Len(t, templates, 1)
	assert.Contains(t, templates, "skeleton")
}

func TestLoadTemplates_DuplicateID(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yaml"), []byte(skeletonYAML), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.yaml"), []byte(skeletonYAML), 0o644))

	_, err := LoadTemplates(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate template id")
}

func TestDefaultTemplates(t *testing.T) {
	templates := DefaultTemplates()
	require.Contains(t, templates, TemplateSkeleton)
	require.Contains(t, templates, TemplatePlayer)
	for id, tmpl := range templates {
		assert.NoError(t, tmpl.Validate(), id)
	}
	assert.NotEmpty(t, templates[TemplateSkeleton].NamePool)
}
