package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vicschmitt/blxtract/pkg/config"
)

// writeCustomConfig writes a config whose delimiter is "<D>" with no
// rotation, so test fixtures can be plain text.
func writeCustomConfig(t *testing.T, dir string) string {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Rotation = 0
	cfg.Delimiters = []string{"<D>"}
	path := filepath.Join(dir, "blxtract.yaml")
	require.NoError(t, config.SaveConfig(cfg, path))
	return path
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()

	// Flag values persist on the shared command tree between Execute
	// calls; reset them so tests stay independent.
	for _, c := range []*cobra.Command{rootCmd, extractCmd, scanCmd} {
		c.Flags().VisitAll(func(f *pflag.Flag) {
			if f.Changed {
				_ = f.Value.Set(f.DefValue)
				f.Changed = false
			}
		})
	}
	cfgFile = ""
	return out.String(), err
}

func TestExtractCommand(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "blxtract_extract_test")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	cfgPath := writeCustomConfig(t, tmpDir)
	src := filepath.Join(tmpDir, "input.blx")
	require.NoError(t, os.WriteFile(src, []byte("AAA<D>BBB<D>CCC"), 0644))
	outDir := filepath.Join(tmpDir, "parts")

	_, err = runCommand(t, "--config", cfgPath, "extract", "--output-dir", outDir, src)
	require.NoError(t, err)

	for i, want := range []string{"AAA", "BBB", "CCC"} {
		name := filepath.Join(outDir, "input.blx.part000"+string(rune('0'+i)))
		got, rerr := os.ReadFile(name)
		require.NoError(t, rerr, name)
		assert.Equal(t, want, string(got))
	}
}

func TestExtractCommand_Stdout(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "blxtract_stdout_test")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	cfgPath := writeCustomConfig(t, tmpDir)
	src := filepath.Join(tmpDir, "input.blx")
	require.NoError(t, os.WriteFile(src, []byte("AAA<D>BBB"), 0644))

	out, err := runCommand(t, "--config", cfgPath, "extract", "--stdout", src)
	require.NoError(t, err)
	assert.Contains(t, out, "AAA\r\nBBB\r\n")
}

func TestExtractCommand_MissingFileFailsBatch(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "blxtract_missing_test")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	cfgPath := writeCustomConfig(t, tmpDir)
	good := filepath.Join(tmpDir, "good.blx")
	require.NoError(t, os.WriteFile(good, []byte("AAA<D>BBB"), 0644))
	outDir := filepath.Join(tmpDir, "parts")

	_, err = runCommand(t, "--config", cfgPath, "extract", "--output-dir", outDir,
		good, filepath.Join(tmpDir, "absent.blx"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 files failed")

	// The good file was still extracted.
	assert.FileExists(t, filepath.Join(outDir, "good.blx.part0000"))
	assert.FileExists(t, filepath.Join(outDir, "good.blx.part0001"))
}

func TestScanCommand(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "blxtract_scan_test")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	cfgPath := writeCustomConfig(t, tmpDir)
	src := filepath.Join(tmpDir, "input.blx")
	require.NoError(t, os.WriteFile(src, []byte("AAA<D>BBB<D>CCC"), 0644))

	out, err := runCommand(t, "--config", cfgPath, "scan", src)
	require.NoError(t, err)
	assert.Contains(t, out, "2 delimiters, 3 records")

	// No part files were written.
	entries, err := os.ReadDir(tmpDir)
	require.NoError(t, err)
	assert.Len(t, entries, 2) // config + source only
}
