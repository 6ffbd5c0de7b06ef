// Package selfupdate checks GitHub releases for a newer fretiz build and
// replaces the running binary with it.
package selfupdate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/mod/semver"
)

var (
	ErrDevBuild      = errors.New("cannot update a development build")
	ErrAlreadyLatest = errors.New("already running the latest version")
	ErrChecksum      = errors.New("checksum verification failed")
	ErrNoAsset       = errors.New("release has no build for this platform")
)

// Checker queries GitHub releases for newer builds and applies them.
type Checker struct {
	client   *http.Client
	apiURL   string
	owner    string
	repo     string
	logger   *zap.Logger
	execPath func() (string, error)
}

type Option func(*Checker)

// WithTimeout bounds every HTTP request made by the checker.
func WithTimeout(d time.Duration) Option {
	return func(c *Checker) { c.client.Timeout = d }
}

// WithAPIURL points release lookups at a GitHub API compatible host.
func WithAPIURL(u string) Option {
	return func(c *Checker) { c.apiURL = strings.TrimRight(u, "/") }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Checker) { c.logger = l }
}

func withExecPath(fn func() (string, error)) Option {
	return func(c *Checker) { c.execPath = fn }
}

func NewChecker(opts ...Option) *Checker {
	c := &Checker{
		client:   &http.Client{Timeout: 10 * time.Second},
		apiURL:   "https://api.github.com",
		owner:    "abhisek",
		repo:     "fretiz",
		logger:   zap.NewNop(),
		execPath: os.Executable,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.Named("selfupdate")
	return c
}

type CheckInput struct {
	Version string
}

type CheckResult struct {
	CurrentVersion  string
	LatestVersion   string
	ReleaseURL      string
	UpdateAvailable bool
}

type release struct {
	TagName string         `json:"tag_name"`
	HTMLURL string         `json:"html_url"`
	Assets  []releaseAsset `json:"assets"`
}

type releaseAsset struct {
	Name        string `json:"name"`
	DownloadURL string `json:"browser_download_url"`
}

func (r *release) asset(name string) (releaseAsset, bool) {
	for _, a := range r.Assets {
		if a.Name == name {
			return a, true
		}
	}
	return releaseAsset{}, false
}

// Check fetches the latest release and compares it with input.Version.
// Development builds never report an update.
func (c *Checker) Check(ctx context.Context, input *CheckInput) (*CheckResult, error) {
	rel, err := c.latestRelease(ctx)
	if err != nil {
		return nil, err
	}
	return c.compare(input.Version, rel), nil
}

func (c *Checker) compare(current string, rel *release) *CheckResult {
	res := &CheckResult{
		CurrentVersion: current,
		LatestVersion:  rel.TagName,
		ReleaseURL:     rel.HTMLURL,
	}
	if cur := canonical(current); cur != "" {
		res.UpdateAvailable = semver.Compare(cur, canonical(rel.TagName)) < 0
	}
	c.logger.Debug("compared versions",
		zap.String("current", current),
		zap.String("latest", rel.TagName),
		zap.Bool("update", res.UpdateAvailable))
	return res
}

func (c *Checker) latestRelease(ctx context.Context) (*release, error) {
	return c.fetchRelease(ctx, "latest")
}

func (c *Checker) releaseByTag(ctx context.Context, tag string) (*release, error) {
	return c.fetchRelease(ctx, "tags/"+url.PathEscape(tag))
}

func (c *Checker) fetchRelease(ctx context.Context, which string) (*release, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/%s/releases/%s", c.apiURL, c.owner, c.repo, which)
	body, err := c.get(ctx, endpoint, "application/vnd.github+json")
	if err != nil {
		return nil, err
	}

	var rel release
	if err := json.Unmarshal(body, &rel); err != nil {
		return nil, fmt.Errorf("decode release: %w", err)
	}
	if canonical(rel.TagName) == "" {
		return nil, fmt.Errorf("release tag %q is not a semantic version", rel.TagName)
	}
	return &rel, nil
}

func (c *Checker) get(ctx context.Context, endpoint, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, endpoint)
	}
	return io.ReadAll(resp.Body)
}

// canonical returns v as a canonical semver string with a leading "v",
// or "" when v is not a valid version.
func canonical(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return semver.Canonical(v)
}
