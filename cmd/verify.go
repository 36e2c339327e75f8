package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"net/netip"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/lobster/batch"
	"github.com/s0up4200/lobster/lob"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify, autocomplete and look up addresses",
}

var letterCase string

func verifyOptions() *lob.VerifyOptions {
	if letterCase == "" {
		return nil
	}
	return &lob.VerifyOptions{Case: lob.Case(letterCase)}
}

var usVerify struct {
	recipient, primary, secondary, urbanization string
	city, state, zip                            string
}

var verifyUSCmd = &cobra.Command{
	Use:   `us ["single line address"]`,
	Short: "Verify a US address",
	Long: `Verify a US address given on a single line or as components.

  lobster verify us "185 Berry St Ste 6100, San Francisco CA 94107"
  lobster verify us --primary "185 Berry St" --secondary "Ste 6100" --zip 94107`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var input lob.USVerificationInput
		switch {
		case len(args) == 1 && cmd.Flags().Changed("primary"):
			return fmt.Errorf("give either a single line address or --primary, not both")
		case len(args) == 1:
			input = lob.AddressLine(args[0])
		case usVerify.primary != "":
			input = lob.USVerificationComponents{
				Recipient:     optionalString(cmd, "recipient", usVerify.recipient),
				PrimaryLine:   usVerify.primary,
				SecondaryLine: optionalString(cmd, "secondary", usVerify.secondary),
				Urbanization:  optionalString(cmd, "urbanization", usVerify.urbanization),
				City:          optionalString(cmd, "city", usVerify.city),
				State:         optionalString(cmd, "state", usVerify.state),
				ZipCode:       optionalString(cmd, "zip", usVerify.zip),
			}
		default:
			return fmt.Errorf("an address or --primary is required")
		}

		verification, err := client.VerifyUSAddress(cmd.Context(), input, verifyOptions())
		if err != nil {
			return fmt.Errorf("verify address: %w", err)
		}
		return renderer.Render(verification)
	},
}

var intlVerify struct {
	recipient, primary, secondary string
	city, state, postalCode       string
	country                       string
}

var verifyIntlCmd = &cobra.Command{
	Use:   "intl",
	Short: "Verify an address outside the US",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		verification, err := client.VerifyIntlAddress(cmd.Context(), &lob.IntlVerificationInput{
			Recipient:     optionalString(cmd, "recipient", intlVerify.recipient),
			PrimaryLine:   intlVerify.primary,
			SecondaryLine: optionalString(cmd, "secondary", intlVerify.secondary),
			City:          optionalString(cmd, "city", intlVerify.city),
			State:         optionalString(cmd, "state", intlVerify.state),
			PostalCode:    optionalString(cmd, "postal-code", intlVerify.postalCode),
			Country:       strings.ToUpper(intlVerify.country),
		})
		if err != nil {
			return fmt.Errorf("verify address: %w", err)
		}
		return renderer.Render(verification)
	},
}

var autocomplete struct {
	city, state string
	geoIP       string
	validOnly   bool
}

var verifyAutocompleteCmd = &cobra.Command{
	Use:   "autocomplete <prefix>",
	Short: "Suggest US addresses starting with a prefix",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := &lob.AutocompleteOptions{
			City:           autocomplete.city,
			State:          autocomplete.state,
			ValidAddresses: optionalBool(cmd, "valid-only", autocomplete.validOnly),
		}
		if autocomplete.geoIP != "" {
			addr, err := netip.ParseAddr(autocomplete.geoIP)
			if err != nil {
				return fmt.Errorf("--geo-ip: %w", err)
			}
			opts.GeoIPSort = addr
		}

		suggestions, err := client.AutocompleteUSAddress(cmd.Context(), args[0], opts)
		if err != nil {
			return fmt.Errorf("autocomplete: %w", err)
		}
		return renderer.Render(suggestions)
	},
}

var verifyZipCmd = &cobra.Command{
	Use:   "zip <zip code>",
	Short: "List the cities served by a ZIP code",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lookup, err := client.LookupUSZip(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("zip lookup: %w", err)
		}
		return renderer.Render(lookup)
	},
}

var summaryOnly bool

var verifyBatchCmd = &cobra.Command{
	Use:   "batch [file]",
	Short: "Verify many US addresses concurrently",
	Long: `Verify one US address per line, read from file or stdin. A line starting
with "{" is decoded as JSON components (primary_line, city, zip_code, ...),
any other line is sent as a single line address. Blank lines and lines
starting with # are skipped.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := cmd.InOrStdin()
		if len(args) == 1 && args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}

		inputs, err := readVerificationInputs(in)
		if err != nil {
			return err
		}
		if len(inputs) == 0 {
			return fmt.Errorf("no addresses to verify")
		}

		processor := batch.NewProcessor(cfg.Batch.Concurrency, logger)
		logger.Info().
			Int("addresses", len(inputs)).
			Int("concurrency", processor.Concurrency()).
			Msg("Verifying addresses")

		results := processor.VerifyAddresses(cmd.Context(), client, inputs, verifyOptions())
		summary := batch.Summarize(results)
		logger.Info().
			Int("total", summary.Total).
			Int("failed", summary.Failed).
			Msg("Verification complete")

		if summaryOnly {
			return renderer.Render(summary)
		}
		return renderer.Render(results)
	},
}

// readVerificationInputs parses the batch input format
func readVerificationInputs(r io.Reader) ([]lob.USVerificationInput, error) {
	var inputs []lob.USVerificationInput
	scanner := bufio.NewScanner(r)
	for n := 1; scanner.Scan(); n++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !strings.HasPrefix(line, "{") {
			inputs = append(inputs, lob.AddressLine(line))
			continue
		}

		var components lob.USVerificationComponents
		if err := json.Unmarshal([]byte(line), &components); err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
		inputs = append(inputs, components)
	}
	return inputs, scanner.Err()
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	verifyCmd.AddCommand(verifyUSCmd, verifyIntlCmd, verifyAutocompleteCmd, verifyZipCmd, verifyBatchCmd)

	for _, c := range []*cobra.Command{verifyUSCmd, verifyBatchCmd} {
		c.Flags().StringVar(&letterCase, "case", "", "casing of the result: upper or lower")
	}

	f := verifyUSCmd.Flags()
	f.StringVar(&usVerify.recipient, "recipient", "", "recipient name")
	f.StringVar(&usVerify.primary, "primary", "", "primary address line")
	f.StringVar(&usVerify.secondary, "secondary", "", "secondary address line")
	f.StringVar(&usVerify.urbanization, "urbanization", "", "urbanization (Puerto Rico only)")
	f.StringVar(&usVerify.city, "city", "", "city")
	f.StringVar(&usVerify.state, "state", "", "state")
	f.StringVar(&usVerify.zip, "zip", "", "ZIP code")

	f = verifyIntlCmd.Flags()
	f.StringVar(&intlVerify.recipient, "recipient", "", "recipient name")
	f.StringVar(&intlVerify.primary, "primary", "", "primary address line")
	f.StringVar(&intlVerify.secondary, "secondary", "", "secondary address line")
	f.StringVar(&intlVerify.city, "city", "", "city")
	f.StringVar(&intlVerify.state, "state", "", "state or province")
	f.StringVar(&intlVerify.postalCode, "postal-code", "", "postal code")
	f.StringVar(&intlVerify.country, "country", "", "two-letter country code")
	_ = verifyIntlCmd.MarkFlagRequired("primary")
	_ = verifyIntlCmd.MarkFlagRequired("country")

	f = verifyAutocompleteCmd.Flags()
	f.StringVar(&autocomplete.city, "city", "", "restrict to this city")
	f.StringVar(&autocomplete.state, "state", "", "restrict to this state")
	f.StringVar(&autocomplete.geoIP, "geo-ip", "", "rank suggestions near this client IP")
	f.BoolVar(&autocomplete.validOnly, "valid-only", false, "only suggest deliverable addresses")

	verifyBatchCmd.Flags().BoolVar(&summaryOnly, "summary", false, "print counts by deliverability instead of every result")
}
