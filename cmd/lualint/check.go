package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"lualint/internal/diag"
	"lualint/internal/diagfmt"
	"lualint/internal/driver"
	"lualint/internal/luac"
	"lualint/internal/observ"
	"lualint/internal/policy"
	"lualint/internal/resolve"
)

// Flag parsing is manual: -r and -s are positional mode switches that
// apply to the targets after them, which cobra's flag handling would
// reorder away.
var checkCmd = &cobra.Command{
	Use:   "check [flags] <file.lua|dir> [-r|-s] <file.lua|dir> ...",
	Short: "Lint Lua files for undeclared globals",
	Long: `Check compiles each target with luac -p -l and scans the listing for
reads and writes of globals that were never declared.

Mode switches apply to the targets that follow them:
  -r, --relaxed   suppress read warnings for globals written earlier in the file
  -s, --strict    report every read of an unknown global (default)

Flags:
      --path <templates>      module search path (';'-separated, '?' placeholder)
      --luac <binary>         compiler binary (default "luac")
      --jobs <n>              parallel workers (default GOMAXPROCS)
      --max-diagnostics <n>   per-file diagnostic cap (default 100)
      --no-unresolved         silence unresolved-import diagnostics
      --disk-cache            persist import manifests across runs
      --timings               show per-file phase timings
      --ui <auto|on|off>      interactive progress view
      --color <auto|on|off>   colorize output
  -q, --quiet                 suppress summaries`,
	DisableFlagParsing: true,
	RunE:               runCheck,
}

type checkSettings struct {
	jobs           int
	maxDiagnostics int
	searchPath     string
	luacBin        string
	colorMode      string
	uiMode         string
	quiet          bool
	timings        bool
	noUnresolved   bool
	diskCache      bool
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadProjectConfig(".")
	if err != nil {
		return err
	}

	opts := checkSettings{
		jobs:           cfg.Lint.Jobs,
		maxDiagnostics: 100,
		searchPath:     cfg.Lint.Path,
		luacBin:        cfg.Lint.Luac,
		colorMode:      "auto",
		uiMode:         "auto",
		noUnresolved:   cfg.Lint.NoUnresolved,
	}
	mode := policy.ModeStrict
	if cfg.Lint.Relaxed {
		mode = policy.ModeRelaxed
	}

	var jobs []driver.FileJob
	for i := 0; i < len(args); i++ {
		arg := args[i]
		name, inline, hasInline := strings.Cut(arg, "=")
		switch name {
		case "-h", "--help":
			return cmd.Help()
		case "-r", "--relaxed":
			mode = policy.ModeRelaxed
		case "-s", "--strict":
			mode = policy.ModeStrict
		case "-q", "--quiet":
			opts.quiet = true
		case "--timings":
			opts.timings = true
		case "--no-unresolved":
			opts.noUnresolved = true
		case "--disk-cache":
			opts.diskCache = true
		case "--path":
			if opts.searchPath, err = flagValue(args, &i, name, inline, hasInline); err != nil {
				return err
			}
		case "--luac":
			if opts.luacBin, err = flagValue(args, &i, name, inline, hasInline); err != nil {
				return err
			}
		case "--color":
			if opts.colorMode, err = flagValue(args, &i, name, inline, hasInline); err != nil {
				return err
			}
		case "--ui":
			if opts.uiMode, err = flagValue(args, &i, name, inline, hasInline); err != nil {
				return err
			}
		case "--jobs":
			if opts.jobs, err = intFlagValue(args, &i, name, inline, hasInline); err != nil {
				return err
			}
		case "--max-diagnostics":
			if opts.maxDiagnostics, err = intFlagValue(args, &i, name, inline, hasInline); err != nil {
				return err
			}
		default:
			if strings.HasPrefix(arg, "-") {
				return fmt.Errorf("unknown flag %q", arg)
			}
			expanded, err := expandTarget(arg, mode)
			if err != nil {
				return err
			}
			jobs = append(jobs, expanded...)
		}
	}
	if len(jobs) == 0 {
		return errors.New("no Lua files to check")
	}

	uiChoice, err := readUIMode(opts.uiMode)
	if err != nil {
		return err
	}
	colorOn, err := resolveColorMode(opts.colorMode)
	if err != nil {
		return err
	}
	color.NoColor = !colorOn

	search := resolve.Default()
	if opts.searchPath != "" {
		search = resolve.Parse(opts.searchPath)
	}

	disasm := luac.Exec{Luac: opts.luacBin}
	resolver := resolve.NewResolver(search, disasm)
	if opts.diskCache {
		if dc, cacheErr := resolve.OpenDiskCache("lualint"); cacheErr == nil {
			resolver = resolver.WithDiskCache(dc)
		} else {
			fmt.Fprintf(cmd.ErrOrStderr(), "disk cache unavailable: %v\n", cacheErr)
		}
	}
	checker := driver.New(disasm, resolver)
	dopts := driver.Options{
		MaxDiagnostics: opts.maxDiagnostics,
		NoUnresolved:   opts.noUnresolved,
		EnableTimings:  opts.timings,
	}

	ctx := cmd.Context()
	var (
		results []driver.Result
		totals  diag.RunTotals
		runErr  error
	)
	if shouldUseTUI(uiChoice) && len(jobs) > 1 {
		results, totals, runErr = runCheckWithUI(ctx, "lualint", checker, jobs, dopts, opts.jobs)
	} else {
		results, totals, runErr = checker.CheckFiles(ctx, jobs, dopts, opts.jobs)
	}
	if runErr != nil {
		return runErr
	}

	out := cmd.OutOrStdout()
	fopts := diagfmt.Options{Color: colorOn, Quiet: opts.quiet}
	for _, res := range results {
		diagfmt.WriteBag(out, res.Path, res.Bag, fopts)
		if opts.timings && res.Timing != nil {
			printTimings(out, res.Path, res.Timing)
		}
	}
	if len(results) > 1 {
		diagfmt.WriteRunSummary(out, totals, fopts)
	}
	exitStatus = totals.Outcome()
	return nil
}

func flagValue(args []string, i *int, name, inline string, hasInline bool) (string, error) {
	if hasInline {
		return inline, nil
	}
	*i++
	if *i >= len(args) {
		return "", fmt.Errorf("flag %s needs a value", name)
	}
	return args[*i], nil
}

func intFlagValue(args []string, i *int, name, inline string, hasInline bool) (int, error) {
	raw, err := flagValue(args, i, name, inline, hasInline)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("flag %s: %q is not a number", name, raw)
	}
	return n, nil
}

// expandTarget turns one command-line target into jobs carrying the
// mode active at its position. Directories contribute their .lua files
// in name order, one level deep.
func expandTarget(path string, mode policy.Mode) ([]driver.FileJob, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []driver.FileJob{{Path: path, Mode: mode}}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	var jobs []driver.FileJob
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		jobs = append(jobs, driver.FileJob{Path: filepath.Join(path, entry.Name()), Mode: mode})
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].Path < jobs[j].Path })
	if len(jobs) == 0 {
		return nil, fmt.Errorf("%s: no .lua files", path)
	}
	return jobs, nil
}

func resolveColorMode(value string) (bool, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return isTerminal(os.Stdout), nil
	case "on":
		return true, nil
	case "off":
		return false, nil
	}
	return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", value)
}

func printTimings(w io.Writer, path string, report *observ.Report) {
	fmt.Fprintf(w, "%s timings:\n", path)
	for _, p := range report.Phases {
		fmt.Fprintf(w, "  %-10s %7.2f ms", p.Name, p.DurationMS)
		if p.Note != "" {
			fmt.Fprint(w, "  // "+p.Note)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "  %-10s %7.2f ms\n", "total", report.TotalMS)
}
