package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/watchwire/watchwire/internal/filestate"
	"github.com/watchwire/watchwire/internal/wirepdu"
)

var decodeCmd = &cobra.Command{
	Use:   "decode [FILE]",
	Short: "Replay a stream of recorded query results",
	Long: "Reads a concatenated stream of query-result JSON documents (from FILE or\n" +
		"stdin), decodes each one and folds it into a file-state baseline the way a\n" +
		"client must: fresh-instance results replace the view, deltas merge into it.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := os.Stdin
		if len(args) == 1 {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}
		return replay(cmd.OutOrStdout(), in, flagBool(cmd, "list"))
	},
}

func init() {
	decodeCmd.Flags().Bool("list", false, "list the tracked files after the replay")
}

func replay(out io.Writer, in io.Reader, list bool) error {
	baseline := filestate.NewBaseline[wirepdu.FileRecord]()
	dec := json.NewDecoder(in)

	n := 0
	for {
		var res wirepdu.QueryResult[wirepdu.FileRecord]
		if err := dec.Decode(&res); err == io.EOF {
			break
		} else if err != nil {
			return fmt.Errorf("result %d: %w", n+1, err)
		}
		n++

		switch {
		case res.SubscriptionCanceled:
			slog.Info("subscription canceled", "result", n, "subscription", res.Subscription)
		case res.StateEnter != "":
			slog.Info("state entered", "result", n, "state", res.StateEnter)
		case res.StateLeave != "":
			slog.Info("state left", "result", n, "state", res.StateLeave)
		case res.IsFreshInstance:
			slog.Info("fresh instance, baseline replaced", "result", n, "files", len(res.Files))
		default:
			slog.Info("delta merged", "result", n, "files", len(res.Files))
		}

		if err := baseline.Apply(&res); err != nil {
			if errors.Is(err, filestate.ErrCanceled) {
				break
			}
			return fmt.Errorf("result %d: %w", n, err)
		}
	}

	fmt.Fprintf(out, "%s %d results, tracking %d files\n", green("replayed"), n, baseline.Len())
	if since := baseline.Since(); since != nil {
		fmt.Fprintf(out, "next since clock: %s\n", cyan(since.Spec().String()))
	}
	if baseline.Canceled() {
		fmt.Fprintln(out, red("stream is terminal (subscription canceled)"))
	}

	if list {
		names := baseline.Names()
		sort.Strings(names)
		for _, name := range names {
			rec, _ := baseline.Get(name)
			fmt.Fprintf(out, "  %s  %s\n", rec.Type, name)
		}
	}
	return nil
}
