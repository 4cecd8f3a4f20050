package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"gopkg.in/yaml.v3"

	"repackdex/internal/catalog"
	"repackdex/internal/config"
	"repackdex/internal/logging"
	"repackdex/internal/tui"
)

var version = "dev"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if err := run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return handleTUI(ctx, nil)
	}
	switch args[0] {
	case "tui":
		return handleTUI(ctx, args[1:])
	case "search":
		return handleSearch(ctx, args[1:])
	case "stats":
		return handleStats(ctx, args[1:])
	case "config":
		return handleConfig(ctx, args[1:])
	case "version":
		fmt.Println(version)
		return nil
	case "help", "-h", "--help":
		usage()
		return nil
	default:
		usage()
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

func usage() {
	fmt.Println(strings.TrimSpace(`repackdex - terminal catalog browser for game repacks

Usage:
  repackdex [command] [flags]

Commands:
  tui               Open the interactive browser (default)
  search            Search the catalog from the command line
  stats             Print catalog totals
  config validate   Validate a YAML config file
  config print      Print the loaded config as JSON
  config init       Write a default config file
  version           Print version
  help              Show this help

Flags:
  --config PATH     Path to YAML config file (or REPACKDEX_CONFIG env var; default: ~/.config/repackdex/config.yaml)
  --log-level L     Log level: debug|info|warn|error (per command)
  --json            JSON log output (per command)
`))
}

func resolveConfigPath(p string) string {
	if p != "" {
		return p
	}
	return config.DefaultPath()
}

func loadConfig(p string) (*config.Config, error) {
	p = resolveConfigPath(p)
	if _, err := os.Stat(p); err != nil {
		return nil, fmt.Errorf("config file not found: %s (run 'repackdex config init')", p)
	}
	return config.Load(p)
}

func handleTUI(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("tui", flag.ContinueOnError)
	cfgPath := fs.String("config", "", "Path to YAML config file")
	logLevel := fs.String("log-level", "", "log level override")
	if err := fs.Parse(args); err != nil {
		return err
	}
	c, err := loadConfig(*cfgPath)
	if err != nil {
		return err
	}
	level := c.Logging.Level
	if *logLevel != "" {
		level = *logLevel
	}
	log := logging.New(level, c.Logging.JSON)
	db, err := catalog.Open(c)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	return tui.Run(c, db, log)
}

func handleSearch(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	cfgPath := fs.String("config", "", "Path to YAML config file")
	jsonOut := fs.Bool("json", false, "json output")
	limit := fs.Int("limit", 20, "max results")
	fuzzyRank := fs.Bool("fuzzy", false, "re-rank results by fuzzy closeness to the query")
	if err := fs.Parse(args); err != nil {
		return err
	}
	query := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if query == "" {
		return errors.New("search: query required")
	}
	c, err := loadConfig(*cfgPath)
	if err != nil {
		return err
	}
	db, err := catalog.Open(c)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	games, err := db.SearchGames(ctx, query, *limit)
	if err != nil {
		return err
	}
	if *fuzzyRank {
		games = rankByCloseness(query, games)
	}
	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(games)
	}
	for _, g := range games {
		size := g.RepackSize
		if size == "" && g.SizeMB > 0 {
			size = humanize.IBytes(uint64(g.SizeMB) * 1024 * 1024)
		}
		fmt.Printf("%-60s %10s  %s\n", truncateTitle(g.Title, 60), size, g.Date)
	}
	if len(games) == 0 {
		fmt.Println("no matches")
	}
	return nil
}

// rankByCloseness reorders backend results by Levenshtein distance of the
// query against the clean name, keeping the backend's order for ties.
func rankByCloseness(query string, games []catalog.Game) []catalog.Game {
	names := make([]string, len(games))
	for i, g := range games {
		names[i] = g.CleanName
		if names[i] == "" {
			names[i] = g.Title
		}
	}
	ranks := fuzzy.RankFindNormalizedFold(query, names)
	sort.SliceStable(ranks, func(i, j int) bool { return ranks[i].Distance < ranks[j].Distance })
	ranked := make([]catalog.Game, 0, len(games))
	seen := make(map[int]bool, len(ranks))
	for _, r := range ranks {
		ranked = append(ranked, games[r.OriginalIndex])
		seen[r.OriginalIndex] = true
	}
	for i, g := range games {
		if !seen[i] {
			ranked = append(ranked, g)
		}
	}
	return ranked
}

func truncateTitle(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}

func handleStats(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("stats", flag.ContinueOnError)
	cfgPath := fs.String("config", "", "Path to YAML config file")
	jsonOut := fs.Bool("json", false, "json output")
	if err := fs.Parse(args); err != nil {
		return err
	}
	c, err := loadConfig(*cfgPath)
	if err != nil {
		return err
	}
	db, err := catalog.Open(c)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	st, err := db.Stats(ctx)
	if err != nil {
		return err
	}
	latest, err := db.LatestGameDate(ctx)
	if err != nil {
		return err
	}
	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{"games": st.TotalGames, "magnets": st.TotalMagnets, "latest": latest})
	}
	fmt.Printf("Games:        %d\n", st.TotalGames)
	fmt.Printf("Magnet links: %d\n", st.TotalMagnets)
	fmt.Printf("Latest entry: %s\n", latest)
	return nil
}

func handleConfig(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("config subcommand required: validate | print | init")
	}
	sub := args[0]
	fs := flag.NewFlagSet("config "+sub, flag.ContinueOnError)
	cfgPath := fs.String("config", "", "Path to YAML config file")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	switch sub {
	case "validate":
		c, err := loadConfig(*cfgPath)
		if err != nil {
			return err
		}
		if err := c.Validate(); err != nil {
			return err
		}
		fmt.Println("config: valid")
		return nil
	case "print":
		c, err := loadConfig(*cfgPath)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(c)
	case "init":
		p := resolveConfigPath(*cfgPath)
		if _, err := os.Stat(p); err == nil {
			return fmt.Errorf("config already exists: %s", p)
		}
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return err
		}
		b, err := yaml.Marshal(config.Default())
		if err != nil {
			return err
		}
		if err := os.WriteFile(p, b, 0o644); err != nil {
			return err
		}
		fmt.Printf("wrote config to %s\n", p)
		return nil
	default:
		return fmt.Errorf("unknown config subcommand: %s", sub)
	}
}
