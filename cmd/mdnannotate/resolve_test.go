package main

import (
	"net/http"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunMain_Resolve(t *testing.T) {
	t.Parallel()

	srv := newDataServer(t)

	t.Run("hit prints dataset url", func(t *testing.T) {
		t.Parallel()
		env, stdout, stderr := testEnv(nil)
		code := runMain(args([]string{"resolve", "example"}, srv.sourceArgs()), env)
		if code != ExitSuccess {
			t.Fatalf("exit code = %d, stderr:\n%s", code, stderr.String())
		}
		if got, want := stdout.String(), srv.datasetURL()+"\n"; got != want {
			t.Errorf("stdout = %q, want %q", got, want)
		}
	})

	t.Run("verbose shows key", func(t *testing.T) {
		t.Parallel()
		env, _, stderr := testEnv(nil)
		code := runMain(args([]string{"resolve", "-v", "example"}, srv.sourceArgs()), env)
		if code != ExitSuccess {
			t.Fatalf("exit code = %d, stderr:\n%s", code, stderr.String())
		}
		if !strings.Contains(stderr.String(), "Key: https://w3c.github.io/example/") {
			t.Errorf("stderr = %q", stderr.String())
		}
	})

	t.Run("short name from environment", func(t *testing.T) {
		t.Parallel()
		env, stdout, stderr := testEnv(map[string]string{"MDNANNOTATE_SHORT_NAME": "example"})
		code := runMain(args([]string{"resolve"}, srv.sourceArgs()), env)
		if code != ExitSuccess {
			t.Fatalf("exit code = %d, stderr:\n%s", code, stderr.String())
		}
		if !strings.Contains(stdout.String(), "example.json") {
			t.Errorf("stdout = %q", stdout.String())
		}
	})

	t.Run("miss", func(t *testing.T) {
		t.Parallel()
		env, stdout, stderr := testEnv(nil)
		code := runMain(args([]string{"resolve", "unknown-spec"}, srv.sourceArgs()), env)
		if code != ExitGeneral {
			t.Errorf("exit code = %d, want %d", code, ExitGeneral)
		}
		if stdout.Len() != 0 {
			t.Errorf("stdout should be empty on a miss, got %q", stdout.String())
		}
		for _, want := range []string{"no compatibility dataset for unknown-spec", "hint:"} {
			if !strings.Contains(stderr.String(), want) {
				t.Errorf("stderr missing %q:\n%s", want, stderr.String())
			}
		}
	})
}

func TestRunMain_ResolveErrors(t *testing.T) {
	t.Parallel()

	t.Run("missing short name", func(t *testing.T) {
		t.Parallel()
		env, _, stderr := testEnv(nil)
		if code := runMain([]string{"mdnannotate", "resolve"}, env); code != ExitUsage {
			t.Errorf("exit code = %d, want %d", code, ExitUsage)
		}
		if !strings.Contains(stderr.String(), "short name required") {
			t.Errorf("stderr = %q", stderr.String())
		}
	})

	t.Run("too many arguments", func(t *testing.T) {
		t.Parallel()
		env, _, _ := testEnv(nil)
		if code := runMain([]string{"mdnannotate", "resolve", "a", "b"}, env); code != ExitUsage {
			t.Errorf("exit code = %d, want %d", code, ExitUsage)
		}
	})

	t.Run("invalid short name", func(t *testing.T) {
		t.Parallel()
		env, _, _ := testEnv(nil)
		if code := runMain([]string{"mdnannotate", "resolve", "a/b"}, env); code != ExitUsage {
			t.Errorf("exit code = %d, want %d", code, ExitUsage)
		}
	})

	t.Run("fetch failure", func(t *testing.T) {
		t.Parallel()
		srv := newDataServer(t)
		srv.fail(http.StatusServiceUnavailable)

		env, _, stderr := testEnv(nil)
		code := runMain(args([]string{"resolve", "example"}, srv.sourceArgs()), env)
		if code != ExitGeneral {
			t.Errorf("exit code = %d, want %d", code, ExitGeneral)
		}
		for _, want := range []string{"resolving example", "503", "hint:"} {
			if !strings.Contains(stderr.String(), want) {
				t.Errorf("stderr missing %q:\n%s", want, stderr.String())
			}
		}
	})
}

func TestRunMain_ResolvePersistentCache(t *testing.T) {
	t.Parallel()

	srv := newDataServer(t)
	db := filepath.Join(t.TempDir(), "cache", "mdn.db")
	runArgs := args([]string{"resolve", "--cache-db", db, "example"}, srv.sourceArgs())

	env, _, stderr := testEnv(nil)
	if code := runMain(runArgs, env); code != ExitSuccess {
		t.Fatalf("first run exit code = %d, stderr:\n%s", code, stderr.String())
	}

	srv.fail(http.StatusInternalServerError)

	env, stdout, stderr := testEnv(nil)
	if code := runMain(runArgs, env); code != ExitSuccess {
		t.Fatalf("second run exit code = %d, stderr:\n%s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "example.json") {
		t.Errorf("stdout = %q", stdout.String())
	}
	if n := srv.count("/SPECMAP.json"); n != 1 {
		t.Errorf("spec map fetched %d times, want 1", n)
	}
}
