package selfupdate

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssetNameFor(t *testing.T) {
	tests := []struct {
		goos, goarch string
		want         string
		wantErr      bool
	}{
		{"darwin", "amd64", "fretiz_Darwin_all.tar.gz", false},
		{"darwin", "arm64", "fretiz_Darwin_all.tar.gz", false},
		{"linux", "amd64", "fretiz_Linux_x86_64.tar.gz", false},
		{"linux", "arm64", "fretiz_Linux_arm64.tar.gz", false},
		{"linux", "386", "fretiz_Linux_i386.tar.gz", false},
		{"windows", "amd64", "fretiz_Windows_x86_64.zip", false},
		{"freebsd", "amd64", "", true},
		{"linux", "mips", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.goos+"/"+tt.goarch, func(t *testing.T) {
			got, err := assetNameFor(tt.goos, tt.goarch)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseChecksums(t *testing.T) {
	data := []byte("ABC123  fretiz_Linux_x86_64.tar.gz\n\n  def456  checksums.sig  \nmalformed line here\n")
	got := parseChecksums(data)
	assert.Equal(t, map[string]string{
		"fretiz_Linux_x86_64.tar.gz": "abc123",
		"checksums.sig":              "def456",
	}, got)
}

func TestVerifyChecksum(t *testing.T) {
	data := []byte("fretboard")
	sum := sha256.Sum256(data)

	assert.NoError(t, verifyChecksum(data, hex.EncodeToString(sum[:])))
	assert.ErrorIs(t, verifyChecksum(data, "00"), ErrChecksum)
}

func TestExtractBinary(t *testing.T) {
	bin := []byte("#!/bin/fretiz")

	t.Run("tar.gz", func(t *testing.T) {
		got, err := extractBinary(buildTarGz(t, "dist/fretiz", bin), "fretiz_Linux_x86_64.tar.gz")
		require.NoError(t, err)
		assert.Equal(t, bin, got)
	})

	t.Run("zip", func(t *testing.T) {
		got, err := extractBinary(buildZip(t, "fretiz.exe", bin), "fretiz_Windows_x86_64.zip")
		require.NoError(t, err)
		assert.Equal(t, bin, got)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := extractBinary(buildTarGz(t, "README.md", bin), "fretiz_Linux_x86_64.tar.gz")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})

	t.Run("corrupt", func(t *testing.T) {
		_, err := extractBinary([]byte("nope"), "fretiz_Linux_x86_64.tar.gz")
		require.Error(t, err)
	})
}

// buildTarGz creates a tar.gz archive containing a single file.
func buildTarGz(t *testing.T, name string, content []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gw)

	require.NoError(t, tw.WriteHeader(&tar.Header{
		Name:     name,
		Size:     int64(len(content)),
		Mode:     0o755,
		Typeflag: tar.TypeReg,
	}))
	_, err := tw.Write(content)
	require.NoError(t, err)
	require.NoError(t, tw.Close())
	require.NoError(t, gw.Close())
	return buf.Bytes()
}

func buildZip(t *testing.T, name string, content []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create(name)
	require.NoError(t, err)
	_, err = w.Write(content)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}
