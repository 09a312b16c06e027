package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/automaxprocs/maxprocs"

	"github.com/alnah/go-mdnannotate"
	"github.com/alnah/go-mdnannotate/internal/cache"
	"github.com/alnah/go-mdnannotate/internal/hints"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	env := DefaultEnv()

	// maxprocs.Set only fails on an invalid GOMAXPROCS env value, in which
	// case runtime defaults apply.
	if hasVerboseFlag(os.Args[1:]) {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(env.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}

	os.Exit(runMain(os.Args, env))
}

// hasVerboseFlag reports whether -v/--verbose appears before any "--".
func hasVerboseFlag(args []string) bool {
	for _, a := range args {
		switch a {
		case "--":
			return false
		case "-v", "--verbose":
			return true
		}
	}
	return false
}

// runMain dispatches the command in args and returns the process exit code.
// Arguments that look like flags or inputs run annotate, the default command.
func runMain(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	warnUnknownEnvVars(env.Stderr, env.environ())

	ctx, stop := notifyContext(context.Background())
	defer stop()

	cmd, rest := args[1], args[2:]

	var err error
	switch cmd {
	case "annotate":
		err = runAnnotate(ctx, rest, env)
	case "resolve":
		err = runResolve(ctx, rest, env)
	case "doctor":
		return runDoctorCmd(rest, env)
	case "version", "--version":
		printVersion(env.Stdout)
		return ExitSuccess
	case "help", "-h", "--help":
		runHelp(rest, env)
		return ExitSuccess
	default:
		if !strings.HasPrefix(cmd, "-") && !isHTMLPath(cmd) && !isMarkdownPath(cmd) && !exists(cmd) {
			fmt.Fprintf(env.Stderr, "Unknown command: %s\n\n", cmd)
			printUsage(env.Stderr)
			return ExitUsage
		}
		err = runAnnotate(ctx, args[1:], env)
	}

	if err != nil {
		var be *batchError
		if errors.As(err, &be) {
			fmt.Fprintf(env.Stderr, "error: %v\n", err)
		} else {
			fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err))
		}
	}
	return exitCodeFor(err)
}

// hintFor returns an actionable hint for err, or "".
func hintFor(err error) string {
	switch {
	case errors.Is(err, mdnannotate.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, mdnannotate.ErrPageLoad), errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, ErrWriteOutput):
		return hints.ForOutputDirectory()
	case errors.Is(err, cache.ErrFetch):
		return hints.ForFetch()
	default:
		return ""
	}
}
