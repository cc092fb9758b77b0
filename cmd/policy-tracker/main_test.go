package main

import (
	"path/filepath"
	"testing"
)

func TestBuildInfo(t *testing.T) {
	oldVersion, oldBuildTime, oldGitCommit := version, buildTime, gitCommit
	defer func() {
		version, buildTime, gitCommit = oldVersion, oldBuildTime, oldGitCommit
	}()

	version = "1.2.3"
	buildTime = "2024-06-01_10:30:00"
	gitCommit = "abc123"

	info := buildInfo()
	if info.Version != "1.2.3" || info.BuildTime != "2024-06-01_10:30:00" || info.GitCommit != "abc123" {
		t.Errorf("unexpected build info: %+v", info)
	}
}

func TestRun_ExitCodes(t *testing.T) {
	dir := t.TempDir()
	common := []string{"--db", filepath.Join(dir, "test.db"), "--dir", dir, "--loglevel", "error"}

	if code := run(append(common, "companies")); code != 0 {
		t.Errorf("expected exit code 0, got %d", code)
	}
	if code := run(append(common, "delete", "99")); code != 1 {
		t.Errorf("expected exit code 1 for missing record, got %d", code)
	}
	if code := run([]string{"no-such-command"}); code != 1 {
		t.Errorf("expected exit code 1 for unknown command, got %d", code)
	}
}
