package repo

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
)

func TestFind(t *testing.T) {
	root := tempDir(t)
	a := filepath.Join(root, "a")
	c := filepath.Join(a, "b", "c")
	if _, err := Create(a, false); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(c, 0755); err != nil {
		t.Fatal(err)
	}

	for _, start := range []string{a, filepath.Join(a, "b"), c} {
		r, err := Find(start, true)
		if err != nil {
			t.Fatalf("finding from %s: %s", start, err)
		}
		if r.Worktree() != a {
			t.Errorf("from %s got worktree %s, want %s", start, r.Worktree(), a)
		}
		if r.MetaDir() != filepath.Join(a, MetaDirName) {
			t.Errorf("from %s got metadir %s", start, r.MetaDir())
		}
	}
}

func TestFindRelative(t *testing.T) {
	root := tempDir(t)
	if _, err := Create(root, false); err != nil {
		t.Fatal(err)
	}
	sub := filepath.Join(root, "sub")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatal(err)
	}

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err = os.Chdir(sub); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	r, err := Find(".", true)
	if err != nil {
		t.Fatal(err)
	}
	if r.Worktree() != root {
		t.Errorf("got worktree %s, want %s", r.Worktree(), root)
	}
}

func TestFindStrayFile(t *testing.T) {
	root := tempDir(t)
	if _, err := Create(root, false); err != nil {
		t.Fatal(err)
	}
	sub := filepath.Join(root, "sub")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatal(err)
	}
	if err := ioutil.WriteFile(filepath.Join(sub, MetaDirName), nil, 0644); err != nil {
		t.Fatal(err)
	}

	r, err := Find(sub, true)
	if err != nil {
		t.Fatal(err)
	}
	if r.Worktree() != root {
		t.Errorf("got worktree %s, want %s", r.Worktree(), root)
	}
}

func TestFindNone(t *testing.T) {
	start := filepath.Join(tempDir(t), "x", "y")
	if err := os.MkdirAll(start, 0755); err != nil {
		t.Fatal(err)
	}

	r, err := Find(start, false)
	if err != nil {
		t.Fatal(err)
	}
	if r != nil {
		t.Skipf("found a repository above the temp dir at %s", r.Worktree())
	}

	_, err = Find(start, true)
	if !errors.Is(err, ErrCannotFindRepository) {
		t.Errorf("got error %v, want ErrCannotFindRepository", err)
	}
}

// tempDir is t.TempDir with symlinks resolved,
// so it compares equal to the paths that Find and Create produce.
func tempDir(t *testing.T) string {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return dir
}
