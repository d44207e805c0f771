package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func Test_LoadProfile_Returns_Defaults_When_No_File_Present(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	got, err := LoadProfile(dir, "")
	require.NoError(t, err)

	if diff := cmp.Diff(DefaultProfile(), got); diff != "" {
		t.Fatalf("profile mismatch (-want +got):\n%s", diff)
	}
}

func Test_LoadProfile_Merges_Project_File_Over_Defaults(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeProfileFile(t, dir, ProfileFileName, `{
		// trailing comma and comments are fine, this is JSONC
		"mode": "cheetah",
	}`)

	got, err := LoadProfile(dir, "")
	require.NoError(t, err)

	require.Equal(t, "cheetah", got.Mode)
	require.Equal(t, "default", got.BlockType, "untouched fields keep the default")
}

func Test_LoadProfile_Explicit_Path_Must_Exist(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, err := LoadProfile(dir, "missing.json")
	require.ErrorIs(t, err, errProfileFileNotFound)
}

func Test_LoadProfile_Explicit_Path_Overrides_Project_File(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeProfileFile(t, dir, ProfileFileName, `{"mode": "cheetah"}`)
	writeProfileFile(t, dir, "release.json", `{"mode": "copy", "parallelizable_output": true}`)

	got, err := LoadProfile(dir, "release.json")
	require.NoError(t, err)

	require.Equal(t, "copy", got.Mode)
	require.True(t, got.ParallelizableOutput)
}

func Test_LoadProfile_Rejects_Malformed_JSONC(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeProfileFile(t, dir, ProfileFileName, `{ this is not json `)

	_, err := LoadProfile(dir, "")
	require.Error(t, err)
}

func writeProfileFile(t *testing.T, dir, name, contents string) {
	t.Helper()

	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(contents), 0o600))
}
