package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/handiism/spotify-dl/internal/config"
	"github.com/handiism/spotify-dl/internal/download"
	"github.com/handiism/spotify-dl/internal/history"
	"github.com/handiism/spotify-dl/internal/logging"
	"github.com/handiism/spotify-dl/internal/model"
)

func main() {
	// Command line flags
	var (
		urlFlag      = flag.String("url", "", "Spotify track or playlist URL")
		outputFlag   = flag.String("output", "", "Output directory (prompted for when empty)")
		configFlag   = flag.String("config", config.DefaultPath(), "Path to config file")
		envFlag      = flag.String("env", ".env", "Path to .env file with credentials")
		playlistFlag = flag.Bool("playlist", false, "Create playlist file")
		groupFlag    = flag.Bool("group", false, "Save into a subfolder named after the playlist")
		verboseFlag  = flag.Bool("verbose", false, "Show verbose output")
		dryRunFlag   = flag.Bool("dry-run", false, "Fetch track list without downloading")
		historyFlag  = flag.Int("history", 0, "Print the last N history entries and exit")
	)

	flag.Parse()

	settings, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	logging.Init(settings.LogLevel, os.Stderr)

	if *historyFlag > 0 {
		if err := printHistory(settings, *historyFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Error reading history: %v\n", err)
			os.Exit(1)
		}
		return
	}

	locator := *urlFlag
	if locator == "" && flag.NArg() > 0 {
		locator = flag.Arg(0)
	}
	if locator == "" {
		fmt.Println("Spotify Downloader - Save Spotify tracks and playlists as tagged MP3s")
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Println("  spotify-dl -url <URL> [options]")
		fmt.Println("  spotify-dl <URL> [options]")
		fmt.Println()
		fmt.Println("For interactive mode, use: spotify-tui")
		fmt.Println()
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Apply flags
	if *playlistFlag {
		settings.CreatePlaylist = true
	}
	if *groupFlag {
		settings.GroupByCollection = true
	}

	creds, err := config.LoadCredentials(*envFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading credentials: %v\n", err)
		os.Exit(1)
	}
	settings.ApplyCredentials(creds)

	// Handle interrupts
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	fmt.Println("🎵 Spotify Downloader")
	fmt.Println(download.Disclaimer)
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Println()

	deps, err := download.NewDeps(ctx, settings, creds)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	events := make(chan download.ProgressEvent)
	printed := make(chan struct{})
	go func() {
		defer close(printed)
		printEvents(os.Stdout, events, *verboseFlag)
	}()

	code := run(ctx, settings, deps, events, locator, *outputFlag, *dryRunFlag)
	close(events)
	<-printed
	if err := deps.Close(); err != nil {
		slog.Warn("closing dependencies failed", "err", err)
	}

	if code != 0 {
		os.Exit(code)
	}
}

// run executes both phases and returns the process exit code.
func run(ctx context.Context, settings *config.Settings, deps download.Deps, events chan<- download.ProgressEvent, locator, output string, dryRun bool) int {
	manager := download.NewManager(settings, deps, events)

	if err := manager.Initialize(ctx, locator); err != nil {
		return 1
	}

	collection := manager.Collection()
	if dryRun {
		fmt.Printf("\n[Dry run - %d tracks in '%s']\n", len(collection.Tracks), collection.Name)
		for i, t := range collection.Tracks {
			fmt.Printf("  %2d. %s (%s)\n", i+1, t, t.Album)
		}
		return 0
	}

	dir := output
	if dir == "" && len(collection.Tracks) > 0 {
		dir = promptFolder(os.Stdin, os.Stdout, settings.DownloadsPath)
	}

	summary, err := manager.StartDownloads(ctx, dir)
	if err != nil {
		if errors.Is(err, model.ErrNoFolder) {
			return 1
		}
		fmt.Fprintf(os.Stderr, "Error during download: %v\n", err)
		return 1
	}
	if ctx.Err() != nil {
		fmt.Println("\nDownload cancelled.")
		return 130
	}

	if summary.Total > 0 {
		fmt.Println()
		fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		fmt.Printf("✨ Complete! %d/%d files in %s\n", summary.Files(), summary.Total, summary.Dir)
	}
	return 0
}

// promptFolder asks for the output folder. An empty answer accepts def;
// "-" or EOF cancels and returns "".
func promptFolder(in io.Reader, out io.Writer, def string) string {
	fmt.Fprintf(out, "Save to folder [%s] (\"-\" to cancel): ", def)

	line, err := bufio.NewReader(in).ReadString('\n')
	line = strings.TrimSpace(line)
	if err != nil && line == "" {
		return ""
	}
	switch line {
	case "":
		return def
	case "-":
		return ""
	default:
		return line
	}
}

func printEvents(w io.Writer, events <-chan download.ProgressEvent, verbose bool) {
	for event := range events {
		if event.Level == download.LevelVerbose && !verbose {
			continue
		}

		prefix := ""
		switch event.Level {
		case download.LevelError:
			prefix = "❌ "
		case download.LevelWarning:
			prefix = "⚠️  "
		case download.LevelSuccess:
			prefix = "✅ "
		case download.LevelInfo:
			prefix = "ℹ️  "
		default:
			prefix = "   "
		}

		fmt.Fprintln(w, prefix+event.Message)
	}
}

func printHistory(settings *config.Settings, n int) error {
	if settings.HistoryPath == "" {
		return errors.New("history_path is not set in the config file")
	}

	store, err := history.Open(settings.HistoryPath)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.Recent(context.Background(), n)
	if err != nil {
		return err
	}

	counts, err := store.CountByOutcome(context.Background())
	if err != nil {
		return err
	}

	writeHistory(os.Stdout, entries, counts)
	return nil
}

func writeHistory(w io.Writer, entries []history.Entry, counts map[string]int64) {
	for _, e := range entries {
		fmt.Fprintf(w, "%s  %-12s  %s - %s", e.CreatedAt.Format("2006-01-02 15:04"), e.Outcome, e.Title, e.Artist)
		if e.Path != "" {
			fmt.Fprintf(w, "  -> %s", e.Path)
		}
		fmt.Fprintln(w)
	}

	outcomes := make([]string, 0, len(counts))
	var total int64
	for outcome, n := range counts {
		outcomes = append(outcomes, outcome)
		total += n
	}
	sort.Strings(outcomes)

	parts := make([]string, 0, len(outcomes))
	for _, outcome := range outcomes {
		parts = append(parts, fmt.Sprintf("%s %d", outcome, counts[outcome]))
	}
	fmt.Fprintf(w, "Total: %d (%s)\n", total, strings.Join(parts, ", "))
}
