// Package selfupdate replaces the running academy binary with a GitHub
// release build.
//
// Releases are laid out the way goreleaser names them by default: one
// archive per platform named academy_<version>_<os>_<arch> (tar.gz, zip on
// Windows, "all" as the arch of the universal macOS build) plus
// academy_<version>_checksums.txt listing their SHA-256 sums.
package selfupdate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/mod/semver"
)

const (
	defaultOwner   = "pywebdev"
	defaultRepo    = "academy"
	defaultBaseURL = "https://api.github.com"
	binaryName     = "academy"
)

// ErrNoRelease means the requested tag does not exist.
var ErrNoRelease = errors.New("release not found")

// Release is one published academy version and its downloadable files.
type Release struct {
	Tag    string  `json:"tag_name"`
	URL    string  `json:"html_url"`
	Assets []Asset `json:"assets"`
}

// Asset is a file attached to a Release.
type Asset struct {
	Name string `json:"name"`
	URL  string `json:"browser_download_url"`
	Size int64  `json:"size"`
}

// Version is Tag without the leading "v".
func (r *Release) Version() string {
	return strings.TrimPrefix(r.Tag, "v")
}

// Asset returns the asset called name.
func (r *Release) Asset(name string) (Asset, bool) {
	for _, a := range r.Assets {
		if a.Name == name {
			return a, true
		}
	}
	return Asset{}, false
}

// Releases reads academy releases from the GitHub API.
type Releases struct {
	client  *http.Client
	baseURL string
	owner   string
	repo    string
}

// Option configures Releases.
type Option func(*Releases)

// WithTimeout sets the HTTP client timeout for API calls and downloads.
func WithTimeout(d time.Duration) Option {
	return func(r *Releases) { r.client.Timeout = d }
}

// WithBaseURL overrides the GitHub API base URL.
func WithBaseURL(u string) Option {
	return func(r *Releases) { r.baseURL = strings.TrimRight(u, "/") }
}

// WithRepo overrides the GitHub repository.
func WithRepo(owner, repo string) Option {
	return func(r *Releases) {
		r.owner = owner
		r.repo = repo
	}
}

// NewReleases returns a client for the academy repository.
func NewReleases(opts ...Option) *Releases {
	r := &Releases{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: defaultBaseURL,
		owner:   defaultOwner,
		repo:    defaultRepo,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Latest returns the newest published release.
func (r *Releases) Latest(ctx context.Context) (*Release, error) {
	return r.get(ctx, "latest")
}

// Tag returns the release for tag. A missing "v" prefix is added.
func (r *Releases) Tag(ctx context.Context, tag string) (*Release, error) {
	return r.get(ctx, "tags/"+canonical(tag))
}

func (r *Releases) get(ctx context.Context, which string) (*Release, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/releases/%s", r.baseURL, r.owner, r.repo, which)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNoRelease, which)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}

	var rel Release
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return nil, fmt.Errorf("decode release: %w", err)
	}
	if !semver.IsValid(canonical(rel.Tag)) {
		return nil, fmt.Errorf("release tag %q is not a semantic version", rel.Tag)
	}
	return &rel, nil
}

// IsNewer reports whether latest is a higher semantic version than current.
// An unparsable current version is treated as older.
func IsNewer(latest, current string) bool {
	l, cur := canonical(latest), canonical(current)
	if !semver.IsValid(l) {
		return false
	}
	if !semver.IsValid(cur) {
		return true
	}
	return semver.Compare(l, cur) > 0
}

func canonical(v string) string {
	v = strings.TrimSpace(v)
	if v != "" && !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}
