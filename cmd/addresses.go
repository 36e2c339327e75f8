package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/lobster/filter"
	"github.com/s0up4200/lobster/lob"
)

var addressesCmd = &cobra.Command{
	Use:     "addresses",
	Aliases: []string{"address", "adr"},
	Short:   "Manage saved addresses",
}

var newAddress struct {
	description, name, company, phone, email string
	line1, line2, city, state, zip, country  string
	metadata                                 []string
}

var addressCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Save an address",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		md, err := parseMetadata(newAddress.metadata)
		if err != nil {
			return err
		}

		address, err := client.CreateAddress(cmd.Context(), &lob.NewAddress{
			Description:    optionalString(cmd, "description", newAddress.description),
			Name:           optionalString(cmd, "name", newAddress.name),
			Company:        optionalString(cmd, "company", newAddress.company),
			Phone:          optionalString(cmd, "phone", newAddress.phone),
			Email:          optionalString(cmd, "email", newAddress.email),
			AddressLine1:   newAddress.line1,
			AddressLine2:   optionalString(cmd, "line2", newAddress.line2),
			AddressCity:    optionalString(cmd, "city", newAddress.city),
			AddressState:   optionalString(cmd, "state", newAddress.state),
			AddressZip:     optionalString(cmd, "zip", newAddress.zip),
			AddressCountry: optionalString(cmd, "country", newAddress.country),
			Metadata:       md,
		})
		if err != nil {
			return fmt.Errorf("create address: %w", err)
		}

		logger.Info().Str("id", address.ID).Msg("Address created")
		return renderer.Render(address)
	},
}

var addressGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a saved address",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		address, err := client.GetAddress(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("get address: %w", err)
		}
		return renderer.Render(address)
	},
}

var addressDeleteCmd = &cobra.Command{
	Use:   "delete <id>...",
	Short: "Delete saved addresses",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cancelAll(cmd, "address", args, client.DeleteAddress)
	},
}

var addressListFlags listFlags

var addressListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved addresses",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		base, err := addressListFlags.options()
		if err != nil {
			return err
		}

		return listAndRender(cmd.Context(), &addressListFlags, func(after string) (*lob.List[lob.Address], error) {
			opts := lob.ListAddressesOptions{ListOptions: base}
			opts.After = after
			return client.ListAddresses(cmd.Context(), &opts)
		}, filter.AddressRecord)
	},
}

func init() {
	rootCmd.AddCommand(addressesCmd)
	addressesCmd.AddCommand(addressCreateCmd, addressGetCmd, addressDeleteCmd, addressListCmd)

	f := addressCreateCmd.Flags()
	f.StringVar(&newAddress.description, "description", "", "internal description")
	f.StringVar(&newAddress.name, "name", "", "recipient name")
	f.StringVar(&newAddress.company, "company", "", "company name")
	f.StringVar(&newAddress.phone, "phone", "", "phone number")
	f.StringVar(&newAddress.email, "email", "", "email address")
	f.StringVar(&newAddress.line1, "line1", "", "first address line")
	f.StringVar(&newAddress.line2, "line2", "", "second address line")
	f.StringVar(&newAddress.city, "city", "", "city")
	f.StringVar(&newAddress.state, "state", "", "state or province")
	f.StringVar(&newAddress.zip, "zip", "", "ZIP or postal code")
	f.StringVar(&newAddress.country, "country", "", "two-letter country code (default US)")
	f.StringSliceVar(&newAddress.metadata, "metadata", nil, "metadata key=value (repeatable)")
	_ = addressCreateCmd.MarkFlagRequired("line1")

	addressListFlags.register(addressListCmd)
}
