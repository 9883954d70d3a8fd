package selfupdate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/mod/semver"
)

var (
	ErrDevBuild      = errors.New("cannot update a development build")
	ErrAlreadyLatest = errors.New("already running the latest version")
)

// Stage names a step of Apply.
type Stage string

const (
	StageDownload Stage = "download"
	StageVerify   Stage = "verify"
	StageInstall  Stage = "install"
	StageDone     Stage = "done"
)

// Plan is a resolved update: which release and which of its files.
type Plan struct {
	From      string
	Release   *Release
	Archive   Asset
	Checksums Asset
}

// Updater installs academy releases over the running executable.
type Updater struct {
	releases *Releases
	goos     string
	goarch   string
	execPath func() (string, error)
}

// NewUpdater returns an Updater for the current platform.
func NewUpdater(releases *Releases) *Updater {
	return &Updater{
		releases: releases,
		goos:     runtime.GOOS,
		goarch:   runtime.GOARCH,
		execPath: os.Executable,
	}
}

// Plan resolves the release to move current to. An empty target means the
// latest release, and fails with ErrAlreadyLatest when that is not newer.
// An explicit target may be older, to roll back.
func (u *Updater) Plan(ctx context.Context, current, target string) (*Plan, error) {
	if !semver.IsValid(canonical(current)) {
		return nil, ErrDevBuild
	}

	var (
		rel *Release
		err error
	)
	if target == "" {
		rel, err = u.releases.Latest(ctx)
	} else {
		rel, err = u.releases.Tag(ctx, target)
	}
	if err != nil {
		return nil, fmt.Errorf("look up release: %w", err)
	}
	if target == "" && !IsNewer(rel.Tag, current) {
		return nil, ErrAlreadyLatest
	}

	name, err := archiveName(rel.Version(), u.goos, u.goarch)
	if err != nil {
		return nil, err
	}
	archive, ok := rel.Asset(name)
	if !ok {
		return nil, fmt.Errorf("release %s has no %s", rel.Tag, name)
	}
	sums, ok := rel.Asset(checksumsName(rel.Version()))
	if !ok {
		return nil, fmt.Errorf("release %s has no checksums", rel.Tag)
	}
	return &Plan{From: current, Release: rel, Archive: archive, Checksums: sums}, nil
}

// Apply downloads, verifies and installs p, calling progress before each
// stage.
func (u *Updater) Apply(ctx context.Context, p *Plan, progress func(Stage, string)) error {
	progress(StageDownload, fmt.Sprintf("Downloading %s (%d KB)...", p.Archive.Name, p.Archive.Size/1024))
	archive, err := u.download(ctx, p.Archive.URL)
	if err != nil {
		return fmt.Errorf("download archive: %w", err)
	}
	sums, err := u.download(ctx, p.Checksums.URL)
	if err != nil {
		return fmt.Errorf("download checksums: %w", err)
	}

	progress(StageVerify, "Verifying checksum...")
	want, ok := checksumFor(sums, p.Archive.Name)
	if !ok {
		return fmt.Errorf("%w: %s is not listed in %s", ErrChecksum, p.Archive.Name, p.Checksums.Name)
	}
	if err := verify(archive, want); err != nil {
		return err
	}
	bin, err := unpack(archive, p.Archive.Name)
	if err != nil {
		return fmt.Errorf("unpack %s: %w", p.Archive.Name, err)
	}

	progress(StageInstall, "Installing...")
	target, err := u.execPath()
	if err != nil {
		return fmt.Errorf("resolve executable path: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(target); err == nil {
		target = resolved
	}
	if err := install(bin, target); err != nil {
		return fmt.Errorf("install: %w", err)
	}

	progress(StageDone, fmt.Sprintf("Updated %s -> %s", p.From, p.Release.Tag))
	return nil
}

func (u *Updater) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := u.releases.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}
	return io.ReadAll(resp.Body)
}

// install swaps bin in at target keeping target's mode. The old binary is
// moved aside first so a running executable can be replaced on Windows, and
// is restored if the swap fails.
func install(bin []byte, target string) error {
	info, err := os.Stat(target)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), "."+binaryName+"-new-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.Write(bin); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), info.Mode().Perm()); err != nil {
		return err
	}

	old := target + ".old"
	_ = os.Remove(old)
	if err := os.Rename(target, old); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		_ = os.Rename(old, target)
		return err
	}
	// Windows keeps the running image locked; the next update overwrites it.
	_ = os.Remove(old)
	return nil
}
