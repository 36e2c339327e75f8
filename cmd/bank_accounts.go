package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/s0up4200/lobster/filter"
	"github.com/s0up4200/lobster/lob"
)

var bankAccountsCmd = &cobra.Command{
	Use:     "bank-accounts",
	Aliases: []string{"bank-account", "bank"},
	Short:   "Manage bank accounts used to draw checks",
}

var newBankAccount struct {
	description   string
	routingNumber string
	accountNumber string
	accountType   string
	signatory     string
	metadata      []string
}

var bankAccountCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Register a bank account",
	Long: `Register a bank account. Lob sends two micro deposits to the account;
pass their amounts in cents to "lobster bank-accounts verify" before
drawing checks from it.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		md, err := parseMetadata(newBankAccount.metadata)
		if err != nil {
			return err
		}

		account, err := client.CreateBankAccount(cmd.Context(), &lob.NewBankAccount{
			Description:   optionalString(cmd, "description", newBankAccount.description),
			RoutingNumber: newBankAccount.routingNumber,
			AccountNumber: newBankAccount.accountNumber,
			AccountType:   lob.AccountType(newBankAccount.accountType),
			Signatory:     newBankAccount.signatory,
			Metadata:      md,
		})
		if err != nil {
			return fmt.Errorf("create bank account: %w", err)
		}

		logger.Info().Str("id", account.ID).Msg("Bank account created")
		return renderer.Render(account)
	},
}

var bankAccountGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a bank account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		account, err := client.GetBankAccount(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("get bank account: %w", err)
		}
		return renderer.Render(account)
	},
}

var bankAccountDeleteCmd = &cobra.Command{
	Use:   "delete <id>...",
	Short: "Delete bank accounts",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cancelAll(cmd, "bank account", args, client.DeleteBankAccount)
	},
}

var bankAccountVerifyCmd = &cobra.Command{
	Use:   "verify <id> <cents> <cents>",
	Short: "Verify a bank account with its two micro deposits",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		var amounts [2]uint32
		for i, arg := range args[1:] {
			n, err := strconv.ParseUint(arg, 10, 32)
			if err != nil {
				return fmt.Errorf("invalid deposit amount %q: want whole cents", arg)
			}
			amounts[i] = uint32(n)
		}

		account, err := client.VerifyBankAccount(cmd.Context(), args[0], amounts)
		if err != nil {
			return fmt.Errorf("verify bank account: %w", err)
		}

		logger.Info().Str("id", account.ID).Bool("verified", account.Verified).Msg("Bank account verification submitted")
		return renderer.Render(account)
	},
}

var bankAccountListFlags listFlags

var bankAccountListCmd = &cobra.Command{
	Use:   "list",
	Short: "List bank accounts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		base, err := bankAccountListFlags.options()
		if err != nil {
			return err
		}

		return listAndRender(cmd.Context(), &bankAccountListFlags, func(after string) (*lob.List[lob.BankAccount], error) {
			opts := lob.ListBankAccountsOptions{ListOptions: base}
			opts.After = after
			return client.ListBankAccounts(cmd.Context(), &opts)
		}, filter.BankAccountRecord)
	},
}

func init() {
	rootCmd.AddCommand(bankAccountsCmd)
	bankAccountsCmd.AddCommand(bankAccountCreateCmd, bankAccountGetCmd, bankAccountDeleteCmd, bankAccountVerifyCmd, bankAccountListCmd)

	f := bankAccountCreateCmd.Flags()
	f.StringVar(&newBankAccount.description, "description", "", "internal description")
	f.StringVar(&newBankAccount.routingNumber, "routing-number", "", "nine digit ABA routing number")
	f.StringVar(&newBankAccount.accountNumber, "account-number", "", "account number")
	f.StringVar(&newBankAccount.accountType, "account-type", string(lob.AccountCompany), "company or individual")
	f.StringVar(&newBankAccount.signatory, "signatory", "", "name printed as the check signatory")
	f.StringSliceVar(&newBankAccount.metadata, "metadata", nil, "metadata key=value (repeatable)")
	for _, name := range []string{"routing-number", "account-number", "signatory"} {
		_ = bankAccountCreateCmd.MarkFlagRequired(name)
	}

	bankAccountListFlags.register(bankAccountListCmd)
}
