package sync

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// newTestClone creates a bare remote with one commit on main and returns
// the path of a working clone.
func newTestClone(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not found in PATH")
	}

	remoteDir := t.TempDir()
	run(t, remoteDir, "git", "init", "--bare")

	workDir := t.TempDir()
	run(t, workDir, "git", "clone", remoteDir, "repo")
	repoDir := filepath.Join(workDir, "repo")

	run(t, repoDir, "git", "config", "user.email", "journal@example.com")
	run(t, repoDir, "git", "config", "user.name", "Journal")
	run(t, repoDir, "git", "branch", "-m", "main")

	if err := os.WriteFile(filepath.Join(repoDir, ".gitkeep"), nil, 0o644); err != nil {
		t.Fatalf("write .gitkeep: %v", err)
	}
	run(t, repoDir, "git", "add", ".")
	run(t, repoDir, "git", "commit", "-m", "init")
	run(t, repoDir, "git", "push", "origin", "main")
	return repoDir
}

func commitCount(t *testing.T, repo string) int {
	t.Helper()
	out, err := exec.Command("git", "-C", repo, "rev-list", "--count", "HEAD").Output()
	if err != nil {
		t.Fatalf("rev-list: %v", err)
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(out)))
	if err != nil {
		t.Fatalf("parse commit count %q: %v", out, err)
	}
	return n
}

func TestGitDestination(t *testing.T) {
	repo := newTestClone(t)
	dest := NewGitDestination(repo, "journal.jsonl", "main")

	data1 := []byte(`{"version":"1","type":"header"}` + "\n")
	if err := dest.Write(context.Background(), data1); err != nil {
		t.Fatalf("first write: %v", err)
	}
	got, err := os.ReadFile(filepath.Join(repo, "journal.jsonl"))
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if string(got) != string(data1) {
		t.Fatalf("file content mismatch: got %q", got)
	}
	if n := commitCount(t, repo); n != 2 {
		t.Fatalf("commits after first write = %d, want 2", n)
	}

	// Unchanged data makes no commit.
	if err := dest.Write(context.Background(), data1); err != nil {
		t.Fatalf("second write: %v", err)
	}
	if n := commitCount(t, repo); n != 2 {
		t.Fatalf("commits after no-op write = %d, want 2", n)
	}

	data2 := []byte(`{"version":"1","type":"header","event_count":1}` + "\n")
	if err := dest.Write(context.Background(), data2); err != nil {
		t.Fatalf("third write: %v", err)
	}
	if n := commitCount(t, repo); n != 3 {
		t.Fatalf("commits after update = %d, want 3", n)
	}
}

func TestGitDestination_SubDirectory(t *testing.T) {
	repo := newTestClone(t)
	dest := NewGitDestination(repo, "audit/journal.jsonl", "main")

	data := []byte(`{"type":"header"}` + "\n")
	if err := dest.Write(context.Background(), data); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := os.ReadFile(filepath.Join(repo, "audit", "journal.jsonl"))
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if string(got) != string(data) {
		t.Fatalf("content mismatch: got %q", got)
	}
}

func TestGitDestination_MissingBranch(t *testing.T) {
	repo := newTestClone(t)
	dest := NewGitDestination(repo, "journal.jsonl", "no-such-branch")

	err := dest.Write(context.Background(), []byte("{}\n"))
	if err == nil || !strings.Contains(err.Error(), "git checkout") {
		t.Fatalf("error = %v, want checkout failure", err)
	}
}

func run(t *testing.T, dir string, name string, args ...string) {
	t.Helper()
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("%s %v failed: %v\n%s", name, args, err, out)
	}
}
