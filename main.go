package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	app "github.com/rocketscienceinc/connectfour/internal"
	"github.com/rocketscienceinc/connectfour/internal/config"
)

var (
	flagConfig string
	flagWidth  int
	flagHeight int
	flagGameID string
)

var rootCmd = &cobra.Command{
	Use:   "connectfour",
	Short: "Play Connect Four in the terminal",
	Long: `Two players take turns dropping pieces into a column. Four in a row
horizontally, vertically or diagonally wins; a full board is a tie.

Type a column number or move with the arrows, press enter to drop a piece,
r to start a new game and q to quit.`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVar(&flagConfig, "config", "./config.yml", "Path to the config file")
	rootCmd.Flags().IntVar(&flagWidth, "width", 0, "Board width (overrides config)")
	rootCmd.Flags().IntVar(&flagHeight, "height", 0, "Board height (overrides config)")
	rootCmd.Flags().StringVar(&flagGameID, "game-id", "", "Game ID used to resume a saved game (overrides config)")
}

// main - is the entry point of the application.
func main() {
	defer func() {
		if err := recover(); err != nil {
			fmt.Fprintf(os.Stderr, "recovered from panic: %v\n", err)
			os.Exit(1)
		}
	}()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	conf := initConfig(cmd)
	logger := initLogger(conf)

	if err := app.RunApp(logger, conf, cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("app run failed: %w", err)
	}

	return nil
}

// initialize config.
func initConfig(cmd *cobra.Command) *config.Config {
	path := flagConfig
	if !filepath.IsAbs(path) {
		baseDir, err := os.Getwd()
		if err != nil {
			panic(fmt.Errorf("failed to get current directory: %w", err))
		}

		path = filepath.Join(baseDir, path)
	}

	conf := config.MustLoad(path)

	if cmd.Flags().Changed("width") {
		conf.Board.Width = flagWidth
	}

	if cmd.Flags().Changed("height") {
		conf.Board.Height = flagHeight
	}

	if cmd.Flags().Changed("game-id") {
		conf.GameID = flagGameID
	}

	return conf
}

// initialize logger. Logs go to stderr so they do not mix with the board.
func initLogger(conf *config.Config) *slog.Logger {
	var level slog.Level

	switch conf.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
