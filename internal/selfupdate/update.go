package selfupdate

import (
	"context"
	"crypto/sha256"
	"fmt"
	"runtime"

	"go.uber.org/zap"
)

type UpdateInput struct {
	CurrentVersion string
	// TargetVersion installs a specific release tag. Empty means latest.
	TargetVersion string
}

type UpdateProgress struct {
	Stage   string
	Message string
}

const checksumsAsset = "checksums.txt"

// Update downloads the target release for this platform, verifies it
// against the release checksums and swaps it in for the running binary.
func (c *Checker) Update(ctx context.Context, input *UpdateInput, progress func(UpdateProgress)) error {
	if canonical(input.CurrentVersion) == "" {
		return ErrDevBuild
	}
	report := func(stage, msg string) {
		c.logger.Debug(msg, zap.String("stage", stage))
		progress(UpdateProgress{Stage: stage, Message: msg})
	}

	rel, err := c.resolveRelease(ctx, input, report)
	if err != nil {
		return err
	}

	name, err := assetNameFor(runtime.GOOS, runtime.GOARCH)
	if err != nil {
		return err
	}
	archive, ok := rel.asset(name)
	if !ok {
		return fmt.Errorf("%w: %s in %s", ErrNoAsset, name, rel.TagName)
	}
	sums, ok := rel.asset(checksumsAsset)
	if !ok {
		return fmt.Errorf("%w: %s in %s", ErrNoAsset, checksumsAsset, rel.TagName)
	}

	report("download", fmt.Sprintf("Downloading %s...", rel.TagName))
	archiveData, err := c.get(ctx, archive.DownloadURL, "")
	if err != nil {
		return fmt.Errorf("download archive: %w", err)
	}

	report("verify", "Verifying checksum...")
	sumsData, err := c.get(ctx, sums.DownloadURL, "")
	if err != nil {
		return fmt.Errorf("download checksums: %w", err)
	}
	want, ok := parseChecksums(sumsData)[name]
	if !ok {
		return fmt.Errorf("no checksum found for %s in %s", name, checksumsAsset)
	}
	if err := verifyChecksum(archiveData, want); err != nil {
		return err
	}

	report("extract", "Extracting binary...")
	binary, err := extractBinary(archiveData, name)
	if err != nil {
		return fmt.Errorf("extract binary: %w", err)
	}

	report("apply", "Applying update...")
	target, err := c.execPath()
	if err != nil {
		return fmt.Errorf("resolve executable path: %w", err)
	}
	sum := sha256.Sum256(binary)
	if err := replaceBinary(binary, target, sum[:]); err != nil {
		return fmt.Errorf("apply update: %w", err)
	}

	report("done", fmt.Sprintf("Updated to %s", rel.TagName))
	return nil
}

func (c *Checker) resolveRelease(ctx context.Context, input *UpdateInput, report func(stage, msg string)) (*release, error) {
	if input.TargetVersion != "" {
		report("check", fmt.Sprintf("Looking up %s...", input.TargetVersion))
		rel, err := c.releaseByTag(ctx, input.TargetVersion)
		if err != nil {
			return nil, fmt.Errorf("look up %s: %w", input.TargetVersion, err)
		}
		return rel, nil
	}

	report("check", "Checking for latest version...")
	rel, err := c.latestRelease(ctx)
	if err != nil {
		return nil, fmt.Errorf("check for updates: %w", err)
	}
	if !c.compare(input.CurrentVersion, rel).UpdateAvailable {
		return nil, ErrAlreadyLatest
	}
	return rel, nil
}

// assetNameFor names the release archive built for goos/goarch.
func assetNameFor(goos, goarch string) (string, error) {
	if goos == "darwin" {
		return "fretiz_Darwin_all.tar.gz", nil
	}

	var arch string
	switch goarch {
	case "amd64":
		arch = "x86_64"
	case "arm64":
		arch = "arm64"
	case "386":
		arch = "i386"
	default:
		return "", fmt.Errorf("unsupported architecture: %s", goarch)
	}

	switch goos {
	case "linux":
		return "fretiz_Linux_" + arch + ".tar.gz", nil
	case "windows":
		return "fretiz_Windows_" + arch + ".zip", nil
	}
	return "", fmt.Errorf("unsupported operating system: %s", goos)
}
