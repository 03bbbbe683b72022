// Package tests gives access to third party test suites, downloaded on first
// use next to this file.
package tests

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"

	"golang.org/x/sync/errgroup"
)

// download serializes downloads between tests of the same package.
var download sync.Mutex

func decompress(zipFile, dest string) (int, error) {
	r, err := zip.OpenReader(zipFile)
	if err != nil {
		return 0, err
	}
	defer r.Close()

	for _, f := range r.File {
		fname := strings.Replace(f.Name, "nes-test-roms-master", "nes-test-roms", 1)
		fpath := filepath.Join(dest, fname)
		if !strings.HasPrefix(fpath, filepath.Clean(dest)+string(os.PathSeparator)) {
			return 0, fmt.Errorf("%s: illegal file path", fpath)
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(fpath, os.ModePerm); err != nil {
				return 0, err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(fpath), os.ModePerm); err != nil {
			return 0, err
		}
		if err := extract(f, fpath); err != nil {
			return 0, err
		}
	}
	return len(r.File), nil
}

func extract(f *zip.File, dst string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, f.Mode())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func fetch(url, dst string) error {
	resp, err := http.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: %s", url, resp.Status)
	}

	f, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func downloadTestRoms(dest string) (int, error) {
	const url = `https://github.com/christopherpow/nes-test-roms/archive/refs/heads/master.zip`

	tmpf, err := os.CreateTemp("", "nes-test-roms-*-.zip")
	if err != nil {
		return 0, err
	}
	tmpf.Close()
	defer os.Remove(tmpf.Name())

	if err := fetch(url, tmpf.Name()); err != nil {
		return 0, err
	}
	n, err := decompress(tmpf.Name(), dest)
	if err != nil {
		return 0, fmt.Errorf("failed to decompress test roms: %w", err)
	}
	return n, nil
}

func testsDir() string {
	_, b, _, _ := runtime.Caller(0)
	return filepath.Dir(b)
}

// RomsPath returns the directory holding the nes-test-roms collection. The
// test is skipped in short mode, or if the roms can't be downloaded.
func RomsPath(tb testing.TB) string {
	tb.Helper()
	if testing.Short() {
		tb.Skip("test roms not used in short mode")
	}

	download.Lock()
	defer download.Unlock()

	romsDir := filepath.Join(testsDir(), "nes-test-roms")
	if _, err := os.Stat(romsDir); errors.Is(err, fs.ErrNotExist) {
		tb.Log("nes-test-roms directory not found, downloading it...")
		n, err := downloadTestRoms(testsDir())
		if err != nil {
			tb.Skipf("test roms not available: %s", err)
		}
		tb.Log(n, "files downloaded in", romsDir)
	}
	return romsDir
}

// download the 256 (one per opcode) single step processor test files
// into dest dir.
func downloadProcessorTests(tb testing.TB, dest string) error {
	const urlfmt = `https://raw.githubusercontent.com/SingleStepTests/65x02/main/nes6502/v1/%s.json`

	tempdir, err := os.MkdirTemp("", "processor.tests.*")
	if err != nil {
		return err
	}

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())

	for opcode := range 256 {
		opstr := fmt.Sprintf("%02x", opcode)
		g.Go(func() error {
			return fetch(fmt.Sprintf(urlfmt, opstr), filepath.Join(tempdir, opstr+".json"))
		})
	}

	if err := g.Wait(); err != nil {
		os.RemoveAll(tempdir)
		return fmt.Errorf("failed to download all files: %w", err)
	}

	tb.Log("renaming", tempdir, "to", dest)
	return os.Rename(tempdir, dest)
}

// ProcessorTestsPath returns the directory holding the single step 6502
// tests, one JSON file per opcode. The test is skipped in short mode, or if
// the files can't be downloaded.
func ProcessorTestsPath(tb testing.TB) string {
	tb.Helper()
	if testing.Short() {
		tb.Skip("processor tests not used in short mode")
	}

	download.Lock()
	defer download.Unlock()

	dir := filepath.Join(testsDir(), "processor.tests")
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		tb.Log("processor tests directory not found, downloading it...")
		if err := downloadProcessorTests(tb, dir); err != nil {
			tb.Skipf("processor tests not available: %s", err)
		}
		tb.Log("processor tests downloaded in", dir)
	}
	return dir
}
