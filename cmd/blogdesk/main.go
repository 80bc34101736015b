package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/studiowebux/blogdesk/internal/cli"
	"github.com/studiowebux/blogdesk/internal/config"
	"github.com/studiowebux/blogdesk/internal/logging"
	"github.com/studiowebux/blogdesk/internal/tui"
)

var (
	version = "0.1.0"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "blogdesk",
	Short: "blogdesk - terminal blog viewer and editor",
	Long: `blogdesk lists, reads, writes and deletes blog posts stored behind a
REST /posts collection.

Run without arguments to start the TUI, or use a subcommand for scripting.

Examples:
  blogdesk                                  # Start interactive TUI
  blogdesk list -o json --query '[].title'  # Titles, newest first
  blogdesk show 3 7                         # Fetch two posts
  blogdesk create --title Hi --author me --content -  < post.md
  blogdesk delete 3                         # Asks for confirmation
  blogdesk mock --seed posts.yaml           # Local backend on :5000`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Initialize(); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}
		return config.LoadEnvFile(flagEnvFile)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return tui.Run(tui.Options{
			Profile: flagProfile,
			BaseURL: flagBaseURL,
			Debug:   flagDebug,
		})
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List posts, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(ctx context.Context, env *cli.Env) error {
			return cli.List(ctx, env, cli.ListOptions{
				Query:   flagQuery,
				Authors: flagAuthors,
				Search:  flagSearch,
			})
		})
	},
}

var showCmd = &cobra.Command{
	Use:   "show <id>...",
	Short: "Show one or more posts",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(ctx context.Context, env *cli.Env) error {
			return cli.Show(ctx, env, args, flagQuery)
		})
	},
}

var latestCmd = &cobra.Command{
	Use:   "latest",
	Short: "Show the post the TUI opens on",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, cli.Latest)
	},
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a post dated today",
	Long: `Create a post dated today.

Use --content - to read the content from stdin.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(ctx context.Context, env *cli.Env) error {
			return cli.Create(ctx, env, cli.CreateOptions{
				Title:   flagTitle,
				Author:  flagAuthor,
				Avatar:  flagAvatar,
				Content: flagContent,
			})
		})
	},
}

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change the title and/or content of a post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var title, content *string
		if cmd.Flags().Changed("title") {
			title = &flagTitle
		}
		if cmd.Flags().Changed("content") {
			content = &flagContent
		}
		return withEnv(cmd, func(ctx context.Context, env *cli.Env) error {
			return cli.Edit(ctx, env, args[0], title, content)
		})
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a post after confirmation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(ctx context.Context, env *cli.Env) error {
			return cli.Delete(ctx, env, args[0], flagYes)
		})
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the local activity log of backend calls",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(ctx context.Context, env *cli.Env) error {
			return cli.History(env, flagLimit, flagClear, flagStats)
		})
	},
}

var mockCmd = &cobra.Command{
	Use:   "mock",
	Short: "Run a local posts backend",
	Long: `Run a local json-server style posts backend.

Posts are stored in SQLite (~/.blogdesk/mock.db) unless --db is a
postgres:// URL. The seed file is only loaded into an empty store.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger := logging.Console(os.Stderr, flagDebug)
		return cli.Mock(ctx, cli.MockOptions{
			SeedFile:  flagSeed,
			WriteSeed: flagWriteSeed,
			Host:      flagHost,
			Port:      flagPort,
			DSN:       flagDSN,
			Summary:   flagSummary,
			Out:       os.Stdout,
		}, logger)
	},
}

var keybindsCmd = &cobra.Command{
	Use:   "keybinds",
	Short: "Check keybinds.json, or write the defaults",
	Long: `Check ~/.blogdesk/keybinds.json against the known actions.

Use --export to write the default keybindings as a starting point.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.Keybinds(os.Stdout, config.KeybindsFile, flagExport, flagForce)
	},
}

// Global flags
var (
	flagProfile string
	flagBaseURL string
	flagEnvFile string
	flagDebug   bool
	flagOutput  string
)

// Command flags
var (
	flagQuery     string
	flagAuthors   []string
	flagSearch    string
	flagTitle     string
	flagAuthor    string
	flagAvatar    string
	flagContent   string
	flagYes       bool
	flagLimit     int
	flagClear     bool
	flagStats     bool
	flagSeed      string
	flagWriteSeed string
	flagHost      string
	flagPort      int
	flagDSN       string
	flagSummary   bool
	flagExport    bool
	flagForce     bool
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagProfile, "profile", "p", "", "Profile to use")
	rootCmd.PersistentFlags().StringVar(&flagBaseURL, "base-url", "", "Backend base URL (overrides profile)")
	rootCmd.PersistentFlags().StringVar(&flagEnvFile, "env-file", "", "Load environment variables from file")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&flagOutput, "output", "o", "", "Output format (json/yaml/text)")

	listCmd.Flags().StringVarP(&flagQuery, "query", "q", "", "JMESPath query over the JSON output")
	listCmd.Flags().StringArrayVarP(&flagAuthors, "author", "a", []string{}, "Only posts by this author, can be repeated")
	listCmd.Flags().StringVarP(&flagSearch, "search", "s", "", "Fuzzy match on titles")
	showCmd.Flags().StringVarP(&flagQuery, "query", "q", "", "JMESPath query over the JSON output")

	createCmd.Flags().StringVarP(&flagTitle, "title", "t", "", "Post title")
	createCmd.Flags().StringVarP(&flagAuthor, "author", "a", "", "Post author")
	createCmd.Flags().StringVar(&flagAvatar, "avatar", "", "Image URL (empty for none)")
	createCmd.Flags().StringVarP(&flagContent, "content", "c", "", "Post content, - reads stdin")
	createCmd.MarkFlagRequired("title")
	createCmd.MarkFlagRequired("author")

	editCmd.Flags().StringVarP(&flagTitle, "title", "t", "", "New title")
	editCmd.Flags().StringVarP(&flagContent, "content", "c", "", "New content, - reads stdin")

	deleteCmd.Flags().BoolVarP(&flagYes, "yes", "y", false, "Skip the confirmation prompt")

	historyCmd.Flags().IntVarP(&flagLimit, "limit", "n", 50, "Number of entries (0 for all)")
	historyCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete every entry")
	historyCmd.Flags().BoolVar(&flagStats, "stats", false, "Summarize calls per operation for the profile")

	mockCmd.Flags().StringVar(&flagSeed, "seed", "", "Seed file (.yaml/.yml/.json)")
	mockCmd.Flags().StringVar(&flagWriteSeed, "write-seed", "", "Write a sample seed file and exit")
	mockCmd.Flags().StringVar(&flagHost, "host", "", "Listen host (default localhost)")
	mockCmd.Flags().IntVar(&flagPort, "port", 0, "Listen port (default 5000)")
	mockCmd.Flags().StringVar(&flagDSN, "db", "", "SQLite path or postgres:// URL")
	mockCmd.Flags().BoolVar(&flagSummary, "summary", false, "Print the served requests on shutdown")

	keybindsCmd.Flags().BoolVar(&flagExport, "export", false, "Write the default keybindings")
	keybindsCmd.Flags().BoolVar(&flagForce, "force", false, "Overwrite an existing keybinds.json")

	rootCmd.AddCommand(listCmd, showCmd, latestCmd, createCmd, editCmd, deleteCmd, historyCmd, mockCmd, keybindsCmd)
}

// withEnv builds the command environment and interrupts on Ctrl-C
func withEnv(cmd *cobra.Command, run func(ctx context.Context, env *cli.Env) error) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	env, err := cli.NewEnv(cli.Options{
		Profile: flagProfile,
		BaseURL: flagBaseURL,
		Debug:   flagDebug,
		Output:  flagOutput,
	})
	if err != nil {
		return err
	}
	defer env.Close()

	return run(ctx, env)
}
