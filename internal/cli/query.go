package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/searchapi"
	logpkg "github.com/kailas-cloud/searchapi/internal/logger"
)

// QueryCmd creates the query command.
func QueryCmd() *cobra.Command {
	var (
		types      []string
		filters    []string
		cursor     string
		outputJSON bool
		timeout    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "query [term]",
		Short: "Run a search query",
		Long: `Runs one query and prints the result set.

Filters are key=value pairs; repeating a key builds a list:
  search query kafka --type techdocs --filter kind=Component --filter lifecycle=production`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := &searchapi.PartialQuery{Types: types}
			if len(args) == 1 {
				p.Term = searchapi.Ptr(args[0])
			}
			if cursor != "" {
				p.PageCursor = searchapi.Ptr(cursor)
			}
			f, err := parseFilters(filters)
			if err != nil {
				return err
			}
			p.Filters = f

			return runQuery(cmd, p, timeout, outputJSON)
		},
	}

	cmd.Flags().StringArrayVarP(&types, "type", "t", nil, "Restrict to a result type (repeatable)")
	cmd.Flags().StringArrayVarP(&filters, "filter", "f", nil, "Filter as key=value (repeatable)")
	cmd.Flags().StringVar(&cursor, "cursor", "", "Page cursor from a previous response")
	cmd.Flags().BoolVar(&outputJSON, "json", false, "Output the raw result set as JSON")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout")

	return cmd
}

// parseFilters turns key=value pairs into a filter map. A repeated key
// collects its values into a list.
func parseFilters(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid filter %q: want key=value", pair)
		}
		switch prev := out[k].(type) {
		case nil:
			out[k] = v
		case string:
			out[k] = []any{prev, v}
		case []any:
			out[k] = append(prev, v)
		}
	}
	return out, nil
}

func runQuery(cmd *cobra.Command, p *searchapi.PartialQuery, timeout time.Duration, outputJSON bool) error {
	apiURL, apiKey := endpoint(cmd)

	level := "warn"
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		level = "debug"
	}
	log, err := logpkg.NewLogger("cli", level)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	client, err := searchapi.NewClient(
		searchapi.WithBaseURL(apiURL),
		searchapi.WithToken(apiKey),
		searchapi.WithTimeout(timeout),
	)
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}

	results, err := searchapi.NewResults(client)
	if err != nil {
		return fmt.Errorf("create results: %w", err)
	}
	defer results.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	log.Debug("query issued", zap.String("api_url", apiURL), zap.Any("query", searchapi.ResolveQuery(p)))
	results.Use(ctx, p)

	st, err := results.Wait(ctx)
	if err != nil {
		return fmt.Errorf("query: %w", err)
	}
	if st.Err != nil {
		return fmt.Errorf("query: %w", st.Err)
	}
	log.Debug("query settled", zap.Int("results", len(st.Value.Results)))

	if outputJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(st.Value); err != nil {
			return fmt.Errorf("encode output: %w", err)
		}
		return nil
	}
	printResultSet(cmd.OutOrStdout(), st.Value)
	return nil
}

func printResultSet(w io.Writer, rs *searchapi.ResultSet) {
	if len(rs.Results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	if rs.NumberOfResults != nil {
		fmt.Fprintf(w, "Showing %d of %d results:\n\n", len(rs.Results), *rs.NumberOfResults)
	} else {
		fmt.Fprintf(w, "Found %d results:\n\n", len(rs.Results))
	}
	for i, r := range rs.Results {
		fmt.Fprintf(w, "%d. [%s] %s\n", i+1, r.Type, docField(r.Document, "title"))
		if text := docField(r.Document, "text"); text != "" {
			if len(text) > 100 {
				text = text[:97] + "..."
			}
			fmt.Fprintf(w, "   %s\n", text)
		}
		if loc := docField(r.Document, "location"); loc != "" {
			fmt.Fprintf(w, "   %s\n", loc)
		}
	}
	if rs.NextPageCursor != "" {
		fmt.Fprintf(w, "\n%s\n", strings.Repeat("-", 40))
		fmt.Fprintf(w, "More results available. Use --cursor %s\n", rs.NextPageCursor)
	}
}

func docField(doc map[string]any, key string) string {
	v, ok := doc[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
