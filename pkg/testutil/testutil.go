package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bazelbuild/bazel-gazelle/testtools"
	"github.com/bazelbuild/rules_go/go/tools/bazel"
)

// MustPrepareTestFiles writes files into a fresh temporary directory that is
// removed when the test ends. The directory is returned with symlinks
// resolved so that paths compare equal to the ones the loader logs.
func MustPrepareTestFiles(t *testing.T, files []testtools.FileSpec) (tmpDir string, filenames []string) {
	t.Helper()
	dir, err := bazel.NewTmpDir("autoload")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		os.RemoveAll(dir)
	})

	tmpDir, err = filepath.EvalSymlinks(dir)
	if err != nil {
		t.Fatal(err)
	}
	filenames = MustWriteTestFiles(t, tmpDir, files)
	return tmpDir, filenames
}

func MustWriteTestFiles(t *testing.T, tmpDir string, files []testtools.FileSpec) []string {
	t.Helper()
	var filenames []string
	for _, file := range files {
		abs := filepath.Join(tmpDir, file.Path)
		dir := filepath.Dir(abs)
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			t.Fatal(err)
		}
		if !file.NotExist {
			if err := os.WriteFile(abs, []byte(file.Content), os.ModePerm); err != nil {
				t.Fatal(err)
			}
		}
		filenames = append(filenames, abs)
	}
	return filenames
}
