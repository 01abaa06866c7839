package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/squill-labs/squill/pkg/dialect"
	"github.com/squill-labs/squill/pkg/lint"
	"github.com/squill-labs/squill/pkg/parser"
)

func newLintCommand() *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "lint <file|dir>...",
		Short: "Lint SQL files",
		Long: `Lint parses the given SQL files (directories are scanned for *.sql)
and reports rule findings. With no paths, the include globs from
squill.yaml are linted. Files are parsed in parallel; dialects are
immutable and shared read-only across workers.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, ok := dialect.Get(cfg.Dialect)
			if !ok {
				return fmt.Errorf("unknown dialect %q (registered: %v)", cfg.Dialect, dialect.List())
			}

			if len(args) == 0 {
				var err error
				args, err = expandIncludes(cfg.Include)
				if err != nil {
					return err
				}
			}

			files, err := collectFiles(args)
			if err != nil {
				return err
			}

			if err := lintOnce(cmd.OutOrStdout(), files, d); err != nil {
				return err
			}
			if !watch {
				return nil
			}
			return watchAndRelint(cmd, files, d)
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "re-lint when files change")
	return cmd
}

// expandIncludes resolves configured include globs to paths.
func expandIncludes(globs []string) ([]string, error) {
	if len(globs) == 0 {
		return nil, fmt.Errorf("no paths given and no include globs configured")
	}
	var paths []string
	for _, g := range globs {
		matched, err := filepath.Glob(g)
		if err != nil {
			return nil, fmt.Errorf("include %q: %w", g, err)
		}
		paths = append(paths, matched...)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("include globs matched no files: %v", globs)
	}
	return paths, nil
}

func collectFiles(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		err = filepath.Walk(arg, func(path string, fi os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !fi.IsDir() && filepath.Ext(path) == ".sql" {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Strings(files)
	return files, nil
}

// enabledRules filters the default rule set by config toggles.
func enabledRules() []lint.Rule {
	var rules []lint.Rule
	for _, r := range lint.Defaults() {
		if enabled, ok := cfg.Rules[r.Name()]; ok && !enabled {
			continue
		}
		rules = append(rules, r)
	}
	return rules
}

func lintOnce(w io.Writer, files []string, d *dialect.Dialect) error {
	rules := enabledRules()

	type fileFindings struct {
		path     string
		findings []lint.Finding
	}
	results := make([]fileFindings, len(files))

	var g errgroup.Group
	g.SetLimit(8)
	var mu sync.Mutex
	for i, path := range files {
		g.Go(func() error {
			src, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			root, err := parser.ParseWithOptions(string(src), d, parser.Options{MaxDepth: cfg.MaxDepth})
			if err != nil {
				return err
			}
			findings := lint.Run(root, rules)
			mu.Lock()
			results[i] = fileFindings{path: path, findings: findings}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"File", "Rule", "Span", "Message"})
	total := 0
	for _, r := range results {
		for _, f := range r.findings {
			tw.AppendRow(table.Row{r.path, f.Rule, fmt.Sprintf("%d-%d", f.Start, f.End), f.Message})
			total++
		}
	}
	if total > 0 {
		fmt.Fprintln(w, tw.Render())
	}
	fmt.Fprintf(w, "%d file(s), %d finding(s)\n", len(files), total)
	return nil
}

func watchAndRelint(cmd *cobra.Command, files []string, d *dialect.Dialect) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	dirs := make(map[string]bool)
	for _, f := range files {
		dirs[filepath.Dir(f)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return err
		}
	}

	fmt.Fprintln(cmd.OutOrStdout(), "watching for changes (ctrl-c to stop)")
	for {
		select {
		case <-cmd.Context().Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if filepath.Ext(event.Name) != ".sql" {
				continue
			}
			if err := lintOnce(cmd.OutOrStdout(), files, d); err != nil {
				return err
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "watch error: %v\n", err)
		}
	}
}
