package selfupdate

import (
	"archive/tar"
	"archive/zip"
	"bufio"
	"bytes"
	"compress/gzip"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

// ErrChecksum means a downloaded archive does not match checksums.txt.
var ErrChecksum = errors.New("checksum verification failed")

// archiveName is the release asset holding the binary for goos/goarch.
func archiveName(version, goos, goarch string) (string, error) {
	switch goarch {
	case "amd64", "arm64":
	default:
		return "", fmt.Errorf("no academy build for %s/%s", goos, goarch)
	}
	switch goos {
	case "darwin":
		return fmt.Sprintf("%s_%s_darwin_all.tar.gz", binaryName, version), nil
	case "linux":
		return fmt.Sprintf("%s_%s_linux_%s.tar.gz", binaryName, version, goarch), nil
	case "windows":
		return fmt.Sprintf("%s_%s_windows_%s.zip", binaryName, version, goarch), nil
	}
	return "", fmt.Errorf("no academy build for %s/%s", goos, goarch)
}

func checksumsName(version string) string {
	return fmt.Sprintf("%s_%s_checksums.txt", binaryName, version)
}

// checksumFor finds the sum listed for name in a sha256sum-style file.
func checksumFor(sums []byte, name string) (string, bool) {
	sc := bufio.NewScanner(bytes.NewReader(sums))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 2 && strings.TrimPrefix(fields[1], "*") == name {
			return strings.ToLower(fields[0]), true
		}
	}
	return "", false
}

func verify(data []byte, want string) error {
	sum := sha256.Sum256(data)
	if got := hex.EncodeToString(sum[:]); got != want {
		return fmt.Errorf("%w: want %s, got %s", ErrChecksum, want, got)
	}
	return nil
}

// unpack returns the academy executable from a release archive.
func unpack(archive []byte, name string) ([]byte, error) {
	if strings.HasSuffix(name, ".zip") {
		return fromZip(archive, binaryName+".exe")
	}
	return fromTarGz(archive, binaryName)
}

func fromTarGz(data []byte, want string) ([]byte, error) {
	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open gzip: %w", err)
	}
	defer func() { _ = gz.Close() }()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil, fmt.Errorf("%s not found in archive", want)
		}
		if err != nil {
			return nil, fmt.Errorf("read tar: %w", err)
		}
		if hdr.Typeflag == tar.TypeReg && path.Base(hdr.Name) == want {
			return io.ReadAll(tr)
		}
	}
}

func fromZip(data []byte, want string) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}
	for _, f := range zr.File {
		if path.Base(f.Name) != want {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer func() { _ = rc.Close() }()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("%s not found in archive", want)
}
