package selfupdate

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// releaseSite serves a v2.0.0 release whose linux/amd64 archive holds bin.
// sums overrides the checksums file when non-empty.
func releaseSite(t *testing.T, bin []byte, sums string) *httptest.Server {
	t.Helper()
	archive := buildTarGz(t, "academy", bin)
	const name = "academy_2.0.0_linux_amd64.tar.gz"
	if sums == "" {
		sum := sha256.Sum256(archive)
		sums = fmt.Sprintf("%s  %s\n", hex.EncodeToString(sum[:]), name)
	}

	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/pywebdev/academy/releases/latest", "/repos/pywebdev/academy/releases/tags/v2.0.0":
			fmt.Fprintf(w, `{"tag_name":"v2.0.0","html_url":"https://example.com/v2.0.0","assets":[
				{"name":%q,"browser_download_url":"%s/dl/archive","size":%d},
				{"name":"academy_2.0.0_checksums.txt","browser_download_url":"%s/dl/sums"}]}`,
				name, server.URL, len(archive), server.URL)
		case "/dl/archive":
			_, _ = w.Write(archive)
		case "/dl/sums":
			fmt.Fprint(w, sums)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func testUpdater(server *httptest.Server, execPath string) *Updater {
	u := NewUpdater(NewReleases(WithBaseURL(server.URL)))
	u.goos, u.goarch = "linux", "amd64"
	u.execPath = func() (string, error) { return execPath, nil }
	return u
}

func TestUpdate(t *testing.T) {
	bin := []byte("new-academy-binary")
	server := releaseSite(t, bin, "")
	dir := t.TempDir()
	execPath := filepath.Join(dir, "academy")
	require.NoError(t, os.WriteFile(execPath, []byte("old"), 0755))
	u := testUpdater(server, execPath)

	plan, err := u.Plan(context.Background(), "v1.0.0", "")
	require.NoError(t, err)
	assert.Equal(t, "v2.0.0", plan.Release.Tag)
	assert.Equal(t, "academy_2.0.0_linux_amd64.tar.gz", plan.Archive.Name)

	var stages []Stage
	err = u.Apply(context.Background(), plan, func(s Stage, _ string) { stages = append(stages, s) })
	require.NoError(t, err)
	assert.Equal(t, []Stage{StageDownload, StageVerify, StageInstall, StageDone}, stages)

	got, err := os.ReadFile(execPath)
	require.NoError(t, err)
	assert.Equal(t, bin, got)
	info, err := os.Stat(execPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), info.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp or backup files left behind")
}

func TestPlan(t *testing.T) {
	server := releaseSite(t, []byte("bin"), "")
	u := testUpdater(server, "")
	ctx := context.Background()

	_, err := u.Plan(ctx, "(devel)", "")
	assert.ErrorIs(t, err, ErrDevBuild)

	_, err = u.Plan(ctx, "v2.0.0", "")
	assert.ErrorIs(t, err, ErrAlreadyLatest)

	plan, err := u.Plan(ctx, "v3.1.0", "2.0.0")
	require.NoError(t, err, "an explicit tag may roll back")
	assert.Equal(t, "v3.1.0", plan.From)

	_, err = u.Plan(ctx, "v1.0.0", "v1.5.0")
	assert.ErrorIs(t, err, ErrNoRelease)

	u.goos = "windows"
	_, err = u.Plan(ctx, "v1.0.0", "")
	assert.ErrorContains(t, err, "has no academy_2.0.0_windows_amd64.zip")
}

func TestApplyChecksumMismatch(t *testing.T) {
	server := releaseSite(t, []byte("bin"), "0000  academy_2.0.0_linux_amd64.tar.gz\n")
	execPath := filepath.Join(t.TempDir(), "academy")
	require.NoError(t, os.WriteFile(execPath, []byte("old"), 0755))
	u := testUpdater(server, execPath)

	plan, err := u.Plan(context.Background(), "v1.0.0", "")
	require.NoError(t, err)
	err = u.Apply(context.Background(), plan, func(Stage, string) {})
	assert.ErrorIs(t, err, ErrChecksum)

	got, err := os.ReadFile(execPath)
	require.NoError(t, err)
	assert.Equal(t, []byte("old"), got, "binary untouched")
}

func TestApplyDownloadFailure(t *testing.T) {
	server := releaseSite(t, []byte("bin"), "")
	u := testUpdater(server, "")

	plan, err := u.Plan(context.Background(), "v1.0.0", "")
	require.NoError(t, err)
	plan.Archive.URL = server.URL + "/dl/gone"

	err = u.Apply(context.Background(), plan, func(Stage, string) {})
	assert.ErrorContains(t, err, "download archive")
}

func TestInstallMissingTarget(t *testing.T) {
	err := install([]byte("x"), filepath.Join(t.TempDir(), "academy"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
