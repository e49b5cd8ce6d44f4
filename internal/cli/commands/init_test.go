package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	intconfig "github.com/leapstack-labs/valgen/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInitCommand(t *testing.T) {
	tests := []struct {
		name      string
		setupDir  func(t *testing.T, dir string) // setup before running
		args      []string
		wantErr   bool
		wantFiles []string
	}{
		{
			name:      "init empty directory",
			args:      []string{},
			wantErr:   false,
			wantFiles: []string{"valgen.yaml"},
		},
		{
			name:      "init subdirectory",
			args:      []string{"packages/api"},
			wantErr:   false,
			wantFiles: []string{"packages/api/valgen.yaml"},
		},
		{
			name: "init existing config without force",
			setupDir: func(_ *testing.T, dir string) {
				_ = os.WriteFile(filepath.Join(dir, "valgen.yaml"), []byte("existing"), 0600)
			},
			args:    []string{},
			wantErr: true,
		},
		{
			name: "init existing alternate config without force",
			setupDir: func(_ *testing.T, dir string) {
				_ = os.WriteFile(filepath.Join(dir, "valgen.yml"), []byte("existing"), 0600)
			},
			args:    []string{},
			wantErr: true,
		},
		{
			name: "init existing config with force",
			setupDir: func(_ *testing.T, dir string) {
				_ = os.WriteFile(filepath.Join(dir, "valgen.yaml"), []byte("existing"), 0600)
			},
			args:      []string{"--force"},
			wantErr:   false,
			wantFiles: []string{"valgen.yaml"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			t.Chdir(tmpDir)

			if tt.setupDir != nil {
				tt.setupDir(t, tmpDir)
			}

			cmd := NewInitCommand()
			buf := new(bytes.Buffer)
			cmd.SetOut(buf)
			cmd.SetErr(buf)
			cmd.SetArgs(tt.args)

			err := cmd.Execute()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, buf.String(), "valgen project initialized!")

			for _, f := range tt.wantFiles {
				path := filepath.Join(tmpDir, f)
				_, err := os.Stat(path)
				assert.False(t, os.IsNotExist(err), "expected file %q to exist", f)
			}
		})
	}
}

func TestInitCommandMetadata(t *testing.T) {
	cmd := NewInitCommand()

	assert.Equal(t, "init [directory]", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotNil(t, cmd.Flags().Lookup("force"), "--force flag should exist")
}

func TestInitCreatesValidConfig(t *testing.T) {
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)

	cmd := NewInitCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))

	err := cmd.Execute()
	require.NoError(t, err)

	content, err := os.ReadFile("valgen.yaml")
	require.NoError(t, err, "failed to read valgen.yaml")

	expectedContents := []string{
		"default_exact: true",
		"namespace: t",
		"library: typed-validators",
		"sentinel: reify",
		"include:",
	}
	for _, expected := range expectedContents {
		assert.Contains(t, string(content), expected, "config should contain %q", expected)
	}

	cfg, err := intconfig.LoadFromDir(tmpDir)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, []string{DefaultInclude}, cfg.Include)
	assert.Equal(t, []string{"**/*.d.ts"}, cfg.Exclude)
	assert.Equal(t, intconfig.DefaultValidatorName, cfg.ValidatorName)
}
