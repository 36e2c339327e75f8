package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/lobster/filter"
	"github.com/s0up4200/lobster/lob"
	"github.com/s0up4200/lobster/output"
)

var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Inspect and test client-side filter presets",
	Long: `Filter presets are named expressions configured under filter.presets:

  filter:
    presets:
      first-class: MailType == "usps_first_class"
      stale: daysSince(DateCreated) > 30 and not Deleted

Any list command accepts a preset name or an expression with -f, and -f may
be repeated to require every filter to match.`,
}

var filterListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the configured presets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		names := filters.ListFilters()
		presets := make([]output.Preset, 0, len(names))
		for _, name := range names {
			f, ok := filters.GetFilter(name)
			if !ok {
				continue
			}
			presets = append(presets, output.Preset{Name: name, Expression: f.Expression()})
		}
		if len(presets) == 0 {
			logger.Info().Msg("No filter presets configured")
		}
		return renderer.Render(presets)
	},
}

var filterCheckCmd = &cobra.Command{
	Use:   "check <expression>",
	Short: "Compile an expression without running it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := filters.Compile(args[0])
		if err != nil {
			return err
		}
		renderer.Messagef("ok: %s\n", f.Expression())
		return nil
	},
}

var (
	countPresets  []string
	countPageSize int
)

var filterCountCmd = &cobra.Command{
	Use:       "count <addresses|postcards|letters|checks|bank-accounts>",
	Short:     "Count how many resources each preset matches",
	Long:      `Fetch every page of a resource and report how many records each preset matches. Without --preset every configured preset is counted.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"addresses", "postcards", "letters", "checks", "bank-accounts"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(filters.ListFilters()) == 0 {
			return fmt.Errorf("no filter presets configured, see filter.presets")
		}

		ctx := cmd.Context()
		records, err := fetchResourceRecords(ctx, args[0], lob.ListOptions{Limit: countPageSize})
		if err != nil {
			return err
		}

		var matches map[string][]filter.Record
		if len(countPresets) == 0 {
			matches, err = filters.EvaluateAll(ctx, records)
		} else {
			matches, err = filters.EvaluateSelected(ctx, countPresets, records)
		}
		if err != nil {
			return err
		}

		counts := output.FilterCounts{Resource: args[0], Records: len(records), Matches: make(map[string]int, len(matches))}
		for name, m := range matches {
			counts.Matches[name] = len(m)
		}
		return renderer.Render(counts)
	},
}

// fetchResourceRecords reads every page of resource as filter records
func fetchResourceRecords(ctx context.Context, resource string, base lob.ListOptions) ([]filter.Record, error) {
	switch resource {
	case "addresses":
		return fetchRecords(ctx, func(after string) (*lob.List[lob.Address], error) {
			opts := lob.ListAddressesOptions{ListOptions: base}
			opts.After = after
			return client.ListAddresses(ctx, &opts)
		}, filter.AddressRecord)
	case "postcards":
		return fetchRecords(ctx, func(after string) (*lob.List[lob.Postcard], error) {
			opts := lob.ListPostcardsOptions{ListMailOptions: lob.ListMailOptions{ListOptions: base}}
			opts.After = after
			return client.ListPostcards(ctx, &opts)
		}, filter.PostcardRecord)
	case "letters":
		return fetchRecords(ctx, func(after string) (*lob.List[lob.Letter], error) {
			opts := lob.ListLettersOptions{ListMailOptions: lob.ListMailOptions{ListOptions: base}}
			opts.After = after
			return client.ListLetters(ctx, &opts)
		}, filter.LetterRecord)
	case "checks":
		return fetchRecords(ctx, func(after string) (*lob.List[lob.Check], error) {
			opts := lob.ListChecksOptions{ListMailOptions: lob.ListMailOptions{ListOptions: base}}
			opts.After = after
			return client.ListChecks(ctx, &opts)
		}, filter.CheckRecord)
	case "bank-accounts":
		return fetchRecords(ctx, func(after string) (*lob.List[lob.BankAccount], error) {
			opts := lob.ListBankAccountsOptions{ListOptions: base}
			opts.After = after
			return client.ListBankAccounts(ctx, &opts)
		}, filter.BankAccountRecord)
	default:
		return nil, fmt.Errorf("unknown resource %q", resource)
	}
}

func fetchRecords[T any](ctx context.Context, fetch func(after string) (*lob.List[T], error), build func(*T) filter.Record) ([]filter.Record, error) {
	l, err := fetchPages(ctx, true, "", fetch)
	if err != nil {
		return nil, err
	}
	return filter.Records(l.Data, build), nil
}

func init() {
	rootCmd.AddCommand(filterCmd)
	filterCmd.AddCommand(filterListCmd, filterCheckCmd, filterCountCmd)

	filterCountCmd.Flags().StringSliceVarP(&countPresets, "preset", "p", nil, "only count these presets (repeatable)")
	filterCountCmd.Flags().IntVar(&countPageSize, "limit", 100, "page size used while fetching")
}
