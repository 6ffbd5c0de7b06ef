package selfupdate

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeReleases serves a GitHub-like releases API with one downloadable
// release per tag.
type fakeReleases struct {
	server  *httptest.Server
	latest  string
	files   map[string][]byte // download path -> body
	missing map[string]bool   // asset names left out of the release
}

func newFakeReleases(t *testing.T, latest string) *fakeReleases {
	t.Helper()
	f := &fakeReleases{latest: latest, files: map[string][]byte{}, missing: map[string]bool{}}
	f.server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeReleases) addRelease(tag string, assets map[string][]byte) {
	for name, body := range assets {
		f.files["/dl/"+tag+"/"+name] = body
	}
}

func (f *fakeReleases) serve(w http.ResponseWriter, r *http.Request) {
	const prefix = "/repos/abhisek/fretiz/releases/"
	if body, ok := f.files[r.URL.Path]; ok {
		_, _ = w.Write(body)
		return
	}
	if !strings.HasPrefix(r.URL.Path, prefix) {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	tag := strings.TrimPrefix(r.URL.Path, prefix)
	if tag == "latest" {
		tag = f.latest
	} else {
		tag = strings.TrimPrefix(tag, "tags/")
	}

	rel := release{TagName: tag, HTMLURL: "https://example.com/" + tag}
	for p := range f.files {
		name, ok := strings.CutPrefix(p, "/dl/"+tag+"/")
		if !ok || f.missing[name] {
			continue
		}
		rel.Assets = append(rel.Assets, releaseAsset{Name: name, DownloadURL: f.server.URL + p})
	}
	if len(rel.Assets) == 0 && tag != f.latest {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	_ = json.NewEncoder(w).Encode(rel)
}

func platformArchive(t *testing.T, bin []byte) (string, []byte) {
	t.Helper()
	name, err := assetNameFor(runtime.GOOS, runtime.GOARCH)
	if err != nil {
		t.Skipf("no release build for %s/%s", runtime.GOOS, runtime.GOARCH)
	}
	if strings.HasSuffix(name, ".zip") {
		return name, buildZip(t, "fretiz.exe", bin)
	}
	return name, buildTarGz(t, "fretiz", bin)
}

func checksumsFor(name string, data []byte) []byte {
	sum := sha256.Sum256(data)
	return []byte(fmt.Sprintf("%s  %s\n", hex.EncodeToString(sum[:]), name))
}

func fakeExecutable(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "fretiz")
	require.NoError(t, os.WriteFile(p, []byte("old"), 0o755))
	return p
}

func TestUpdate(t *testing.T) {
	bin := []byte("new fretiz binary")
	name, archive := platformArchive(t, bin)

	t.Run("latest", func(t *testing.T) {
		fake := newFakeReleases(t, "v2.0.0")
		fake.addRelease("v2.0.0", map[string][]byte{
			name:           archive,
			checksumsAsset: checksumsFor(name, archive),
		})
		exe := fakeExecutable(t)

		c := NewChecker(WithAPIURL(fake.server.URL), withExecPath(func() (string, error) { return exe, nil }))
		var stages []string
		err := c.Update(context.Background(), &UpdateInput{CurrentVersion: "v1.0.0"}, func(p UpdateProgress) {
			stages = append(stages, p.Stage)
		})
		require.NoError(t, err)

		got, err := os.ReadFile(exe)
		require.NoError(t, err)
		assert.Equal(t, bin, got)
		assert.Equal(t, []string{"check", "download", "verify", "extract", "apply", "done"}, stages)

		info, err := os.Stat(exe)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
	})

	t.Run("pinned tag", func(t *testing.T) {
		fake := newFakeReleases(t, "v3.0.0")
		fake.addRelease("v1.5.0", map[string][]byte{
			name:           archive,
			checksumsAsset: checksumsFor(name, archive),
		})
		exe := fakeExecutable(t)

		c := NewChecker(WithAPIURL(fake.server.URL), withExecPath(func() (string, error) { return exe, nil }))
		err := c.Update(context.Background(), &UpdateInput{CurrentVersion: "v2.0.0", TargetVersion: "v1.5.0"}, func(UpdateProgress) {})
		require.NoError(t, err)

		got, err := os.ReadFile(exe)
		require.NoError(t, err)
		assert.Equal(t, bin, got)
	})

	t.Run("dev build", func(t *testing.T) {
		err := NewChecker().Update(context.Background(), &UpdateInput{CurrentVersion: "(devel)"}, func(UpdateProgress) {})
		assert.ErrorIs(t, err, ErrDevBuild)
	})

	t.Run("already latest", func(t *testing.T) {
		fake := newFakeReleases(t, "v1.0.0")
		err := NewChecker(WithAPIURL(fake.server.URL)).
			Update(context.Background(), &UpdateInput{CurrentVersion: "v1.0.0"}, func(UpdateProgress) {})
		assert.ErrorIs(t, err, ErrAlreadyLatest)
	})

	t.Run("checksum mismatch", func(t *testing.T) {
		fake := newFakeReleases(t, "v2.0.0")
		fake.addRelease("v2.0.0", map[string][]byte{
			name:           archive,
			checksumsAsset: checksumsFor(name, []byte("something else")),
		})
		exe := fakeExecutable(t)

		c := NewChecker(WithAPIURL(fake.server.URL), withExecPath(func() (string, error) { return exe, nil }))
		err := c.Update(context.Background(), &UpdateInput{CurrentVersion: "v1.0.0"}, func(UpdateProgress) {})
		assert.ErrorIs(t, err, ErrChecksum)

		got, err := os.ReadFile(exe)
		require.NoError(t, err)
		assert.Equal(t, []byte("old"), got, "binary must be untouched")
	})

	t.Run("no build for platform", func(t *testing.T) {
		fake := newFakeReleases(t, "v2.0.0")
		fake.addRelease("v2.0.0", map[string][]byte{
			name:           archive,
			checksumsAsset: checksumsFor(name, archive),
		})
		fake.missing[name] = true

		err := NewChecker(WithAPIURL(fake.server.URL)).
			Update(context.Background(), &UpdateInput{CurrentVersion: "v1.0.0"}, func(UpdateProgress) {})
		assert.ErrorIs(t, err, ErrNoAsset)
	})

	t.Run("unknown tag", func(t *testing.T) {
		fake := newFakeReleases(t, "v2.0.0")
		err := NewChecker(WithAPIURL(fake.server.URL)).
			Update(context.Background(), &UpdateInput{CurrentVersion: "v1.0.0", TargetVersion: "v9.9.9"}, func(UpdateProgress) {})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "look up v9.9.9")
	})
}

func TestReplaceBinary(t *testing.T) {
	exe := fakeExecutable(t)
	bin := []byte("replacement")
	sum := sha256.Sum256(bin)

	require.NoError(t, replaceBinary(bin, exe, sum[:]))
	got, err := os.ReadFile(exe)
	require.NoError(t, err)
	assert.Equal(t, bin, got)

	entries, err := os.ReadDir(filepath.Dir(exe))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "staging directory is removed")

	wrong := sha256.Sum256([]byte("other"))
	assert.ErrorIs(t, replaceBinary(bin, exe, wrong[:]), ErrChecksum)

	assert.Error(t, replaceBinary(bin, filepath.Join(t.TempDir(), "missing"), sum[:]))
}
