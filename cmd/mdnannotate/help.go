package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdnannotate <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  annotate   Insert MDN compatibility annotations (default)")
	fmt.Fprintln(w, "  resolve    Show the dataset a short name resolves to")
	fmt.Fprintln(w, "  doctor     Check system configuration")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'mdnannotate help <command>' for details on a specific command.")
}

// printAnnotateUsage prints usage for the annotate command.
func printAnnotateUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdnannotate annotate <input...> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Insert MDN browser-compatibility annotations before the blocks whose")
	fmt.Fprintln(w, "anchors match the specification's MDN dataset. Without a short name,")
	fmt.Fprintln(w, "documents are copied unchanged.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    HTML/Markdown file or directory, or - for stdin")
	fmt.Fprintln(w, "           (optional if config has output.defaultDir and one input)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Annotation:")
	fmt.Fprintln(w, "  -s, --short-name <s>      Specification short name (e.g., payment-request)")
	fmt.Fprintln(w, "      --max-age <ms>        Cache freshness window in milliseconds (default 24h)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file or directory")
	fmt.Fprintln(w, "                            (default: <name>.annotated.html next to the input)")
	fmt.Fprintln(w, "      --pdf                 Also write <name>.annotated.pdf")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "  -t, --timeout <d>         PDF generation timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w)
	printSourceAndCacheUsage(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs and cache statistics")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  mdnannotate annotate -s payment-request index.html")
	fmt.Fprintln(w, "  mdnannotate annotate -s fetch --cache-db ~/.cache/mdn.db ./specs/ -o ./out/")
	fmt.Fprintln(w, "  mdnannotate -s web-share - < index.html > annotated.html")
}

// printResolveUsage prints usage for the resolve command.
func printResolveUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdnannotate resolve <shortName> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print the compatibility dataset URL for a specification short name.")
	fmt.Fprintln(w, "Exits with status 1 when the spec map has no entry for it.")
	fmt.Fprintln(w)
	printSourceAndCacheUsage(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show the spec map key and cache statistics")
}

// printSourceAndCacheUsage prints the flag groups shared by annotate and resolve.
func printSourceAndCacheUsage(w io.Writer) {
	fmt.Fprintln(w, "Sources:")
	fmt.Fprintln(w, "      --spec-map-url <url>  SPECMAP.json location")
	fmt.Fprintln(w, "      --json-base <url>     Base URL of per-spec datasets")
	fmt.Fprintln(w, "      --w3c-base <url>      Base URL spec map keys are built on")
	fmt.Fprintln(w, "      --docs-base <url>     Base URL of MDN article links")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Cache:")
	fmt.Fprintln(w, "      --cache-db <path>     SQLite cache file (default: in-memory)")
	fmt.Fprintln(w, "      --http-timeout <d>    Per-request fetch timeout (e.g., 10s)")
	fmt.Fprintln(w, "      --user-agent <s>      User-Agent sent with fetches")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdnannotate doctor [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check system configuration for annotation and PDF output.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --json                Output in JSON format")
	fmt.Fprintln(w, "      --cache-db <path>     Also check that this cache file is writable")
}

// printVersion prints the version line.
func printVersion(w io.Writer) {
	fmt.Fprintf(w, "mdnannotate %s\n", Version)
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "annotate":
		printAnnotateUsage(env.Stdout)
	case "resolve":
		printResolveUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: mdnannotate version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: mdnannotate help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n\n", args[0])
		printUsage(env.Stderr)
	}
}
