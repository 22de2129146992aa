package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/watchwire/watchwire/internal/version"
)

var (
	cyan  = color.New(color.FgHiCyan).SprintFunc()
	green = color.New(color.FgHiGreen).SprintFunc()
	red   = color.New(color.FgHiRed, color.Bold).SprintFunc()
)

var rootCmd = &cobra.Command{
	Use:   "watchwire",
	Short: "Compose and inspect watch-service protocol messages",
	Long: "watchwire composes the wire form of watch-service requests and decodes\n" +
		"recorded responses, without opening a connection. Useful for debugging\n" +
		"what a client puts on the wire and for replaying captured result streams.",
	Version:       version.Detailed(),
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file with default query settings")
	rootCmd.AddCommand(queryCmd, subscribeCmd, clockCmd, watchProjectCmd, unsubscribeCmd, sockNameCmd, decodeCmd)
}

func loadConfig(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		return nil
	}
	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func main() {
	handler := tint.NewHandler(os.Stderr, &tint.Options{
		Level:   slog.LevelDebug,
		NoColor: !isatty.IsTerminal(os.Stderr.Fd()),
	})
	slog.SetDefault(slog.New(handler))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, red("error:"), err)
		os.Exit(1)
	}
}
