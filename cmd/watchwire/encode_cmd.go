package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/watchwire/watchwire/internal/wirepdu"
)

var queryCmd = &cobra.Command{
	Use:   "query ROOT",
	Short: "Compose a one-shot query request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		params, err := buildQueryParams(cmd)
		if err != nil {
			return err
		}
		if err := params.Validate(); err != nil {
			return err
		}
		if gens := params.Generators(); len(gens) > 1 {
			slog.Warn("multiple generators selected; the server will union their candidates", "generators", strings.Join(gens, ","))
		}
		return emit(wirepdu.QueryRequest{Root: args[0], Params: *params})
	},
}

var subscribeCmd = &cobra.Command{
	Use:   "subscribe ROOT NAME",
	Short: "Compose a subscribe request",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		since, err := sinceClock(cmd)
		if err != nil {
			return err
		}
		params := wirepdu.SubscribeParams{
			Since:                since,
			RelativeRoot:         flagString(cmd, "relative-root"),
			Fields:               fieldsFlag(cmd),
			EmptyOnFreshInstance: flagBool(cmd, "empty-on-fresh-instance"),
			CaseSensitive:        caseSensitiveFlag(cmd),
		}
		if expr := flagString(cmd, "expression"); expr != "" {
			params.Expression = json.RawMessage(expr)
		}
		return emit(wirepdu.SubscribeRequest{Root: args[0], Name: args[1], Params: params})
	},
}

var clockCmd = &cobra.Command{
	Use:   "clock ROOT",
	Short: "Compose a clock request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return emit(wirepdu.ClockRequest{
			Root:   args[0],
			Params: wirepdu.ClockParams{SyncTimeout: syncTimeoutFlag(cmd)},
		})
	},
}

var watchProjectCmd = &cobra.Command{
	Use:   "watch-project PATH",
	Short: "Compose a watch-project request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return emit(wirepdu.WatchProjectRequest{Root: args[0]})
	},
}

var unsubscribeCmd = &cobra.Command{
	Use:   "unsubscribe ROOT NAME",
	Short: "Compose an unsubscribe request",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return emit(wirepdu.UnsubscribeRequest{Root: args[0], Name: args[1]})
	},
}

var sockNameCmd = &cobra.Command{
	Use:   "get-sockname",
	Short: "Compose a get-sockname request",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return emit(wirepdu.GetSockNameRequest{})
	},
}

func init() {
	for _, cmd := range []*cobra.Command{queryCmd, subscribeCmd} {
		cmd.Flags().String("since", "", "since clock token (thread the clock of the previous result here)")
		cmd.Flags().String("mergebase", "", "scm merge-base commit for the since clock")
		cmd.Flags().String("mergebase-with", "", "scm merge-base-with ref for the since clock")
		cmd.Flags().String("relative-root", "", "scope paths to this subdirectory of the project")
		cmd.Flags().String("expression", "", "filter expression as raw JSON, passed through unevaluated")
		cmd.Flags().StringSlice("fields", wirepdu.FileRecordFields(), "per-file fields to render")
		cmd.Flags().Bool("case-sensitive", false, "force case sensitive name matching")
		cmd.Flags().Bool("empty-on-fresh-instance", false, "suppress the file list on fresh-instance results")
	}

	queryCmd.Flags().StringArray("glob", nil, "glob generator pattern (repeatable)")
	queryCmd.Flags().Bool("glob-noescape", false, "backslash in globs is a literal, not an escape")
	queryCmd.Flags().Bool("glob-include-dotfiles", false, "globs also match dotfiles")
	queryCmd.Flags().StringArray("path", nil, "path generator element, PATH or PATH:DEPTH (repeatable)")
	queryCmd.Flags().StringSlice("suffix", nil, "suffix generator filename suffixes")
	queryCmd.Flags().Bool("dedup", false, "dedup results when generators overlap")
	queryCmd.Flags().Int64("lock-timeout", 0, "server view-lock timeout in milliseconds")
	queryCmd.Flags().String("request-id", "", "tag the request in server performance sampling")
	queryCmd.Flags().Bool("new-request-id", false, "generate a random request id")

	for _, cmd := range []*cobra.Command{queryCmd, clockCmd} {
		cmd.Flags().Duration("sync-timeout", 0, "cookie synchronization timeout")
		cmd.Flags().Bool("no-sync-cookie", false, "disable the sync cookie for this request")
	}
}

func buildQueryParams(cmd *cobra.Command) (*wirepdu.QueryParams, error) {
	since, err := sinceClock(cmd)
	if err != nil {
		return nil, err
	}

	pathFlags, _ := cmd.Flags().GetStringArray("path")
	var pathGen []wirepdu.PathGeneratorElement
	for _, p := range pathFlags {
		el, err := parsePathElement(p)
		if err != nil {
			return nil, err
		}
		pathGen = append(pathGen, el)
	}

	globs, _ := cmd.Flags().GetStringArray("glob")
	suffixes, _ := cmd.Flags().GetStringSlice("suffix")

	params := &wirepdu.QueryParams{
		Glob:                 globs,
		GlobNoEscape:         flagBool(cmd, "glob-noescape"),
		GlobIncludeDotFiles:  flagBool(cmd, "glob-include-dotfiles"),
		Path:                 pathGen,
		Suffix:               suffixes,
		Since:                since,
		RelativeRoot:         flagString(cmd, "relative-root"),
		Fields:               fieldsFlag(cmd),
		EmptyOnFreshInstance: flagBool(cmd, "empty-on-fresh-instance"),
		CaseSensitive:        caseSensitiveFlag(cmd),
		SyncTimeout:          syncTimeoutFlag(cmd),
		DedupResults:         flagBool(cmd, "dedup"),
		RequestID:            flagString(cmd, "request-id"),
	}
	if expr := flagString(cmd, "expression"); expr != "" {
		params.Expression = json.RawMessage(expr)
	}
	if cmd.Flags().Changed("lock-timeout") {
		ms, _ := cmd.Flags().GetInt64("lock-timeout")
		params.LockTimeout = &ms
	}
	if params.RequestID == "" && flagBool(cmd, "new-request-id") {
		params.RequestID = wirepdu.NewRequestID()
	}
	return params, nil
}

// sinceClock builds the since clock from flags: a bare token, or a
// structured clock when scm metadata is given.
func sinceClock(cmd *cobra.Command) (*wirepdu.Clock, error) {
	token := flagString(cmd, "since")
	mergebase := flagString(cmd, "mergebase")
	mergebaseWith := flagString(cmd, "mergebase-with")

	if token == "" && mergebase == "" && mergebaseWith == "" {
		return nil, nil
	}

	var spec wirepdu.ClockSpec
	switch {
	case token == "" || token == "null":
		spec = wirepdu.NullClockSpec()
	case strings.HasPrefix(token, "n:"):
		spec = wirepdu.NamedCursor(strings.TrimPrefix(token, "n:"))
	default:
		if t, err := strconv.ParseInt(token, 10, 64); err == nil {
			spec = wirepdu.UnixTimestampClock(t)
		} else {
			// An opaque server token: round-trip it through the decoder,
			// which accepts any string.
			if err := wirepdu.Unmarshal([]byte(strconv.Quote(token)), &spec); err != nil {
				return nil, fmt.Errorf("bad since clock %q: %w", token, err)
			}
		}
	}

	if mergebase == "" && mergebaseWith == "" {
		c := wirepdu.NewClock(spec)
		return &c, nil
	}
	c := wirepdu.NewScmClock(wirepdu.FatClockData{
		Clock: spec,
		Scm: &wirepdu.ScmAwareClockData{
			Mergebase:     mergebase,
			MergebaseWith: mergebaseWith,
		},
	})
	return &c, nil
}

func parsePathElement(s string) (wirepdu.PathGeneratorElement, error) {
	if i := strings.LastIndexByte(s, ':'); i > 0 {
		depth, err := strconv.ParseInt(s[i+1:], 10, 64)
		if err == nil {
			return wirepdu.DepthBoundedPath(s[:i], depth), nil
		}
	}
	return wirepdu.RecursivePath(s), nil
}

func syncTimeoutFlag(cmd *cobra.Command) wirepdu.SyncTimeout {
	if flagBool(cmd, "no-sync-cookie") {
		return wirepdu.NoSyncCookie()
	}
	if cmd.Flags().Changed("sync-timeout") {
		d, _ := cmd.Flags().GetDuration("sync-timeout")
		return wirepdu.SyncTimeoutFor(d)
	}
	return wirepdu.DefaultSyncTimeout()
}

// fieldsFlag resolves the field list: an explicit flag wins, then the config
// file, then the FileRecord projection.
func fieldsFlag(cmd *cobra.Command) []string {
	if cmd.Flags().Changed("fields") {
		fields, _ := cmd.Flags().GetStringSlice("fields")
		return fields
	}
	if cfg := viper.GetStringSlice("fields"); len(cfg) > 0 {
		return cfg
	}
	fields, _ := cmd.Flags().GetStringSlice("fields")
	return fields
}

func caseSensitiveFlag(cmd *cobra.Command) bool {
	if cmd.Flags().Changed("case-sensitive") {
		return flagBool(cmd, "case-sensitive")
	}
	return viper.GetBool("case_sensitive")
}

func flagString(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetString(name)
	return v
}

func flagBool(cmd *cobra.Command, name string) bool {
	v, _ := cmd.Flags().GetBool(name)
	return v
}

// emit writes the wire form of a request to stdout, indented for reading.
// The compact form the encoder produced is what would cross the wire.
func emit(req any) error {
	data, err := wirepdu.Marshal(req)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return err
	}
	buf.WriteByte('\n')
	_, err = buf.WriteTo(os.Stdout)
	return err
}
