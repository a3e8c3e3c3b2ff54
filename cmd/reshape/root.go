package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/JonMunkholm/reshape/internal/core"
	"github.com/JonMunkholm/reshape/internal/logging"
	"github.com/spf13/cobra"
)

var errWatchNeedsFile = errors.New("--watch needs an input file")

// options holds the parsed command line.
type options struct {
	input      string
	format     string
	profile    string
	output     string
	selected   []string
	useTab     bool
	singleLine bool
	indent     int
	strict     bool
	watch      bool
	logLevel   string

	// Which TXT flags were given explicitly.
	setTab, setSingleLine, setIndent bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "reshape [file|-]",
		Short: "Select, rename and map JSON fields, then write TXT, JSON or CSV",
		Long: `reshape reads a JSON array of objects from a file or stdin, applies an
optional profile (renames, field order, mapping rules, TXT options) and writes
the result in the chosen format.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.input = args[0]
			}
			flags := cmd.Flags()
			opts.setTab = flags.Changed("tab")
			opts.setSingleLine = flags.Changed("single-line")
			opts.setIndent = flags.Changed("indent")

			logging.Setup(cmd.ErrOrStderr(), opts.logLevel, "text")

			if opts.watch {
				if opts.input == "" || opts.input == "-" {
					return errWatchNeedsFile
				}
				return watch(cmd.Context(), opts, cmd.OutOrStdout())
			}
			return runOnce(opts, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.format, "format", "f", string(core.FormatTXT), "output format: txt, json or csv")
	f.StringVarP(&opts.profile, "profile", "p", "", "YAML profile to apply")
	f.StringVarP(&opts.output, "output", "o", "", "write to this file instead of stdout (extension added when missing)")
	f.StringSliceVar(&opts.selected, "select", nil, "fields to output, in order (comma separated)")
	f.BoolVar(&opts.useTab, "tab", false, "separate TXT values with a tab")
	f.BoolVar(&opts.singleLine, "single-line", false, "write all TXT values on one line")
	f.IntVar(&opts.indent, "indent", 0, "spaces before each TXT line")
	f.BoolVar(&opts.strict, "strict", false, "require a top-level array")
	f.BoolVarP(&opts.watch, "watch", "w", false, "re-render whenever the input file changes")
	f.StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn, error")

	return cmd
}

// runOnce reads the input once and writes the rendering.
func runOnce(opts *options, stdin io.Reader, stdout io.Writer) error {
	text, err := readInput(opts.input, stdin)
	if err != nil {
		return err
	}

	out, err := reshape(opts, text)
	if err != nil {
		return err
	}
	return writeOutput(opts, out, stdout)
}

func readInput(path string, stdin io.Reader) (string, error) {
	if path == "" || path == "-" {
		return core.ReadInput(stdin, 0)
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open input: %w", err)
	}
	defer f.Close()
	return core.ReadInput(f, 0)
}

// reshape builds a workspace from text and the options and renders it.
func reshape(opts *options, text string) (string, error) {
	format, err := core.ParseFormat(opts.format)
	if err != nil {
		return "", err
	}

	policy := core.ShapePermissive
	if opts.strict {
		policy = core.ShapeStrict
	}

	ws := core.NewWorkspace(policy)
	if err := ws.Load(text); err != nil {
		return "", err
	}

	if opts.profile != "" {
		if err := applyProfileFile(ws, opts.profile); err != nil {
			return "", err
		}
	}

	if len(opts.selected) > 0 {
		fields := make([]string, 0, len(opts.selected))
		for _, s := range opts.selected {
			if s = strings.TrimSpace(s); s != "" {
				fields = append(fields, s)
			}
		}
		if _, err := ws.ApplyProfile(&core.Profile{Fields: fields}); err != nil {
			return "", err
		}
	}

	txt := ws.Options()
	if opts.setTab {
		txt.UseTab = opts.useTab
	}
	if opts.setSingleLine {
		txt.SingleLine = opts.singleLine
	}
	if opts.setIndent {
		txt.StartIndent = opts.indent
	}
	if err := ws.SetOptions(txt); err != nil {
		return "", err
	}

	return ws.Render(format)
}

func applyProfileFile(ws *core.Workspace, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read profile: %w", err)
	}
	p, err := core.ParseProfile(data)
	if err != nil {
		return err
	}

	skipped, err := ws.ApplyProfile(p)
	if err != nil {
		return err
	}
	for _, name := range skipped {
		slog.Warn("profile entry skipped, field not in input", "field", name)
	}
	return nil
}

// outputPath applies the export filename rule to the --output flag.
func outputPath(opts *options) (string, error) {
	format, err := core.ParseFormat(opts.format)
	if err != nil {
		return "", err
	}
	dir, name := filepath.Split(opts.output)
	return filepath.Join(dir, core.ExportFilename(name, format)), nil
}

func writeOutput(opts *options, out string, stdout io.Writer) error {
	if opts.output == "" {
		_, err := fmt.Fprintln(stdout, out)
		return err
	}

	path, err := outputPath(opts)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	slog.Info("output written", "path", path, "bytes", len(out))
	return nil
}
