// Package cli implements the marketctl command tree. Every subcommand talks
// to a running API server through the pkg/client SDK.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/iamrodrigodev/smartcomparemarket/pkg/client"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

const defaultServerAddr = "http://localhost:8000"

// RootOptions holds the global CLI flags.
type RootOptions struct {
	ServerAddr string
	Output     string
	Timeout    time.Duration
}

// Client builds the SDK client for the configured server.
func (o *RootOptions) Client() (*client.Client, error) {
	return client.NewClient(o.ServerAddr,
		client.WithHTTPClient(&http.Client{Timeout: o.Timeout}),
		client.WithUserAgent("marketctl/"+Version),
	)
}

// NewRootCommand creates the root command with all global flags and
// subcommands.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:     "marketctl",
		Short:   "SmartCompare Market CLI",
		Long:    "marketctl queries the SmartCompare Market semantic marketplace API:\nproduct search, comparisons, recommendations, and market analytics.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),

		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.ServerAddr, "server", defaultServerAddr, "API server address")
	pf.StringVarP(&opts.Output, "output", "o", "table", "output format (table, json)")
	pf.DurationVar(&opts.Timeout, "timeout", 30*time.Second, "request timeout")

	cmd.AddCommand(
		newProductsCommand(opts),
		newCompareCommand(opts),
		newRecommendCommand(opts),
		newAnalyzeCommand(opts),
	)
	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCommand().Execute()
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
