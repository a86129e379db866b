// Command shapecheck runs the gateway's response normalisation offline
// against captured upstream bodies.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/yourorg/listings-gateway/listing"
	"github.com/yourorg/listings-gateway/upstream"
)

var (
	pageSize int
	filter   upstream.ListingFilter
	unpub    bool
)

var rootCmd = &cobra.Command{
	Use:           "shapecheck",
	Short:         "Inspect how upstream listing bodies normalise",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var normalizeCmd = &cobra.Command{
	Use:   "normalize <file|->",
	Short: "Print the canonical page and detected shape",
	Args:  cobra.ExactArgs(1),
	RunE:  runNormalize,
}

var filterCmd = &cobra.Command{
	Use:   "filter <file|-> <query>",
	Short: "Print listings matching a free-text query",
	Args:  cobra.ExactArgs(2),
	RunE:  runFilter,
}

var translateCmd = &cobra.Command{
	Use:   "translate",
	Short: "Print the upstream query string for a filter",
	Args:  cobra.NoArgs,
	RunE:  runTranslate,
}

func init() {
	normalizeCmd.Flags().IntVar(&pageSize, "page-size", upstream.DefaultPageSize, "Page size used to derive totalPages")

	f := translateCmd.Flags()
	f.StringVar(&filter.Status, "status", "", "Comma-joined listing statuses")
	f.StringVar(&filter.PropertyType, "property-type", "", "Property type")
	f.StringVar(&filter.MinPrice, "min-price", "", "Minimum price (AUD)")
	f.StringVar(&filter.MaxPrice, "max-price", "", "Maximum price (AUD)")
	f.StringVar(&filter.MinBedrooms, "min-bedrooms", "", "Minimum bedrooms")
	f.StringVar(&filter.MinBathrooms, "min-bathrooms", "", "Minimum bathrooms")
	f.StringVar(&filter.Suburb, "suburb", "", "Suburb")
	f.StringVar(&filter.Page, "page", "", "Page number")
	f.StringVar(&filter.PageSize, "limit", "", "Page size")
	f.StringVar(&filter.Sort, "sort", "", "Sort field")
	f.StringVar(&filter.SortOrder, "sort-order", "", "Sort order")
	f.BoolVar(&unpub, "unpublished", false, "Request unpublished listings")

	rootCmd.AddCommand(normalizeCmd, filterCmd, translateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "shapecheck:", err)
		os.Exit(1)
	}
}

func readInput(cmd *cobra.Command, name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(name)
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runNormalize(cmd *cobra.Command, args []string) error {
	raw, err := readInput(cmd, args[0])
	if err != nil {
		return err
	}
	page := listing.Normalize(raw).Paginate(pageSize)
	return printJSON(cmd, map[string]any{
		"shape":         page.Shape,
		"reportedTotal": page.ReportedTotal,
		"page":          page,
	})
}

func runFilter(cmd *cobra.Command, args []string) error {
	raw, err := readInput(cmd, args[0])
	if err != nil {
		return err
	}
	return printJSON(cmd, listing.Filter(listing.Normalize(raw), args[1]))
}

func runTranslate(cmd *cobra.Command, _ []string) error {
	f := filter
	if cmd.Flags().Changed("unpublished") {
		published := !unpub
		f.Published = &published
	}
	_, err := fmt.Fprintln(cmd.OutOrStdout(), upstream.Translate(f).Encode())
	return err
}
