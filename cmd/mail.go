package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/s0up4200/lobster/filter"
	"github.com/s0up4200/lobster/lob"
)

// mailPieceFlags are shared by the create commands of every mail piece
type mailPieceFlags struct {
	description    string
	to             string
	from           string
	mailType       string
	sendDate       string
	mergeVariables string
	metadata       []string
	idempotencyKey string
}

func (f *mailPieceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.description, "description", "", "internal description")
	cmd.Flags().StringVar(&f.to, "to", "", "recipient: adr_ id, JSON object or @file.json")
	cmd.Flags().StringVar(&f.from, "from", "", "sender: adr_ id, JSON object or @file.json")
	cmd.Flags().StringVar(&f.mailType, "mail-type", "", "usps_first_class, usps_standard or ups_next_day_air")
	cmd.Flags().StringVar(&f.sendDate, "send-date", "", "schedule for this date (YYYY-MM-DD or RFC 3339)")
	cmd.Flags().StringVar(&f.mergeVariables, "merge-variables", "", "template variables as JSON object or @file.json")
	cmd.Flags().StringSliceVar(&f.metadata, "metadata", nil, "metadata key=value (repeatable)")
	cmd.Flags().StringVar(&f.idempotencyKey, "idempotency-key", "", "idempotency key (default: random UUID)")
	_ = cmd.MarkFlagRequired("to")
}

type parsedPiece struct {
	to, from       lob.SendAddress
	sendDate       *time.Time
	mergeVariables map[string]any
	metadata       lob.Metadata
	key            string
}

func (f *mailPieceFlags) parse() (*parsedPiece, error) {
	var (
		p   parsedPiece
		err error
	)
	if p.to, err = parseSendAddress(f.to); err != nil {
		return nil, fmt.Errorf("--to: %w", err)
	}
	if p.from, err = parseSendAddress(f.from); err != nil {
		return nil, fmt.Errorf("--from: %w", err)
	}
	if p.sendDate, err = parseSendDate(f.sendDate); err != nil {
		return nil, err
	}
	if p.mergeVariables, err = parseMergeVariables(f.mergeVariables); err != nil {
		return nil, err
	}
	if p.metadata, err = parseMetadata(f.metadata); err != nil {
		return nil, err
	}

	p.key = f.idempotencyKey
	if p.key == "" {
		p.key = lob.NewIdempotencyKey()
	}
	return &p, nil
}

// Postcards

var postcardsCmd = &cobra.Command{
	Use:     "postcards",
	Aliases: []string{"postcard", "psc"},
	Short:   "Send and manage postcards",
}

var newPostcard struct {
	mailPieceFlags
	front, back, size string
}

var postcardCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Send a postcard",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newPostcard.parse()
		if err != nil {
			return err
		}
		front, err := parseFile(newPostcard.front)
		if err != nil {
			return fmt.Errorf("--front: %w", err)
		}
		back, err := parseFile(newPostcard.back)
		if err != nil {
			return fmt.Errorf("--back: %w", err)
		}

		postcard, err := client.CreatePostcard(cmd.Context(), &lob.NewPostcard{
			Description:    optionalString(cmd, "description", newPostcard.description),
			To:             p.to,
			From:           p.from,
			Front:          front,
			Back:           back,
			MergeVariables: p.mergeVariables,
			Size:           lob.PostcardSize(newPostcard.size),
			MailType:       lob.MailType(newPostcard.mailType),
			SendDate:       p.sendDate,
			Metadata:       p.metadata,
		}, lob.WithIdempotencyKey(p.key))
		if err != nil {
			return fmt.Errorf("create postcard: %w", err)
		}

		logger.Info().Str("id", postcard.ID).Str("idempotency_key", p.key).Msg("Postcard created")
		return renderer.Render(postcard)
	},
}

var postcardGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a postcard",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		postcard, err := client.GetPostcard(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("get postcard: %w", err)
		}
		return renderer.Render(postcard)
	},
}

var postcardCancelCmd = &cobra.Command{
	Use:   "cancel <id>...",
	Short: "Cancel postcards before they are sent",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cancelAll(cmd, "postcard", args, client.CancelPostcard)
	},
}

var postcardListFlags struct {
	mailFlags
	sizes []string
}

var postcardListCmd = &cobra.Command{
	Use:   "list",
	Short: "List postcards",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		base, err := postcardListFlags.options(cmd)
		if err != nil {
			return err
		}
		sizes := make([]lob.PostcardSize, len(postcardListFlags.sizes))
		for i, s := range postcardListFlags.sizes {
			sizes[i] = lob.PostcardSize(s)
		}

		return listAndRender(cmd.Context(), &postcardListFlags.listFlags, func(after string) (*lob.List[lob.Postcard], error) {
			opts := lob.ListPostcardsOptions{ListMailOptions: base, Size: sizes}
			opts.After = after
			return client.ListPostcards(cmd.Context(), &opts)
		}, filter.PostcardRecord)
	},
}

// Letters

var lettersCmd = &cobra.Command{
	Use:     "letters",
	Aliases: []string{"letter", "ltr"},
	Short:   "Send and manage letters",
}

var newLetter struct {
	mailPieceFlags
	file             string
	color            bool
	doubleSided      bool
	addressPlacement string
	returnEnvelope   bool
	perforatedPage   uint32
	customEnvelope   string
	extraService     string
}

var letterCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Send a letter",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newLetter.parse()
		if err != nil {
			return err
		}
		file, err := parseFile(newLetter.file)
		if err != nil {
			return fmt.Errorf("--file: %w", err)
		}

		letter := &lob.NewLetter{
			Description:      optionalString(cmd, "description", newLetter.description),
			To:               p.to,
			From:             p.from,
			Color:            newLetter.color,
			File:             file,
			MergeVariables:   p.mergeVariables,
			DoubleSided:      optionalBool(cmd, "double-sided", newLetter.doubleSided),
			AddressPlacement: lob.LetterAddressPlacement(newLetter.addressPlacement),
			ReturnEnvelope:   optionalBool(cmd, "return-envelope", newLetter.returnEnvelope),
			CustomEnvelope:   optionalString(cmd, "custom-envelope", newLetter.customEnvelope),
			MailType:         lob.MailType(newLetter.mailType),
			ExtraService:     lob.ExtraService(newLetter.extraService),
			SendDate:         p.sendDate,
			Metadata:         p.metadata,
		}
		if cmd.Flags().Changed("perforated-page") {
			letter.PerforatedPage = &newLetter.perforatedPage
		}

		created, err := client.CreateLetter(cmd.Context(), letter, lob.WithIdempotencyKey(p.key))
		if err != nil {
			return fmt.Errorf("create letter: %w", err)
		}

		logger.Info().Str("id", created.ID).Str("idempotency_key", p.key).Msg("Letter created")
		return renderer.Render(created)
	},
}

var letterGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a letter",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		letter, err := client.GetLetter(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("get letter: %w", err)
		}
		return renderer.Render(letter)
	},
}

var letterCancelCmd = &cobra.Command{
	Use:   "cancel <id>...",
	Short: "Cancel letters before they are sent",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cancelAll(cmd, "letter", args, client.CancelLetter)
	},
}

var letterListFlags struct {
	mailFlags
	color bool
}

var letterListCmd = &cobra.Command{
	Use:   "list",
	Short: "List letters",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		base, err := letterListFlags.options(cmd)
		if err != nil {
			return err
		}
		color := optionalBool(cmd, "color", letterListFlags.color)

		return listAndRender(cmd.Context(), &letterListFlags.listFlags, func(after string) (*lob.List[lob.Letter], error) {
			opts := lob.ListLettersOptions{ListMailOptions: base, Color: color}
			opts.After = after
			return client.ListLetters(cmd.Context(), &opts)
		}, filter.LetterRecord)
	},
}

// Checks

var checksCmd = &cobra.Command{
	Use:     "checks",
	Aliases: []string{"check", "chk"},
	Short:   "Send and manage checks",
}

var newCheck struct {
	mailPieceFlags
	bankAccount string
	amount      string
	memo        string
	checkNumber int
	logo        string
	message     string
	checkBottom string
	attachment  string
}

var checkCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Send a check",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newCheck.parse()
		if err != nil {
			return err
		}
		amount, err := lob.ParseMoney(newCheck.amount)
		if err != nil {
			return fmt.Errorf("--amount: %w", err)
		}

		logo, err := parseFile(newCheck.logo)
		if err != nil {
			return fmt.Errorf("--logo: %w", err)
		}
		bottom, err := parseFile(newCheck.checkBottom)
		if err != nil {
			return fmt.Errorf("--check-bottom: %w", err)
		}
		attachment, err := parseFile(newCheck.attachment)
		if err != nil {
			return fmt.Errorf("--attachment: %w", err)
		}

		check := &lob.NewCheck{
			Description: optionalString(cmd, "description", newCheck.description),
			To:          p.to,
			From:        p.from,
			BankAccount: newCheck.bankAccount,
			Amount:      amount,
			Memo:        optionalString(cmd, "memo", newCheck.memo),
			Logo:        logo,
			Message:     optionalString(cmd, "message", newCheck.message),
			CheckBottom: bottom,
			Attachment:  attachment,
			MailType:    lob.MailType(newCheck.mailType),
			Metadata:    p.metadata,
		}
		if cmd.Flags().Changed("check-number") {
			check.CheckNumber = &newCheck.checkNumber
		}
		if p.sendDate != nil {
			d := lob.DateOf(*p.sendDate)
			check.SendDate = &d
		}

		created, err := client.CreateCheck(cmd.Context(), check, lob.WithIdempotencyKey(p.key))
		if err != nil {
			return fmt.Errorf("create check: %w", err)
		}

		logger.Info().Str("id", created.ID).Str("amount", created.Amount.String()).Msg("Check created")
		return renderer.Render(created)
	},
}

var checkGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a check",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		check, err := client.GetCheck(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("get check: %w", err)
		}
		return renderer.Render(check)
	},
}

var checkCancelCmd = &cobra.Command{
	Use:   "cancel <id>...",
	Short: "Cancel checks before they are sent",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cancelAll(cmd, "check", args, client.CancelCheck)
	},
}

var checkListFlags mailFlags

var checkListCmd = &cobra.Command{
	Use:   "list",
	Short: "List checks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		base, err := checkListFlags.options(cmd)
		if err != nil {
			return err
		}

		return listAndRender(cmd.Context(), &checkListFlags.listFlags, func(after string) (*lob.List[lob.Check], error) {
			opts := lob.ListChecksOptions{ListMailOptions: base}
			opts.After = after
			return client.ListChecks(cmd.Context(), &opts)
		}, filter.CheckRecord)
	},
}

func init() {
	rootCmd.AddCommand(postcardsCmd, lettersCmd, checksCmd)

	postcardsCmd.AddCommand(postcardCreateCmd, postcardGetCmd, postcardCancelCmd, postcardListCmd)
	newPostcard.register(postcardCreateCmd)
	postcardCreateCmd.Flags().StringVar(&newPostcard.front, "front", "", "front artwork: @file, tmpl_ id, URL or HTML")
	postcardCreateCmd.Flags().StringVar(&newPostcard.back, "back", "", "back artwork: @file, tmpl_ id, URL or HTML")
	postcardCreateCmd.Flags().StringVar(&newPostcard.size, "size", "", "4x6, 6x9 or 6x11")
	postcardListFlags.register(postcardListCmd)
	postcardListCmd.Flags().StringSliceVar(&postcardListFlags.sizes, "size", nil, "only these sizes (repeatable)")

	lettersCmd.AddCommand(letterCreateCmd, letterGetCmd, letterCancelCmd, letterListCmd)
	newLetter.register(letterCreateCmd)
	lf := letterCreateCmd.Flags()
	lf.StringVar(&newLetter.file, "file", "", "letter content: @file, tmpl_ id, URL or HTML")
	lf.BoolVar(&newLetter.color, "color", false, "print in color")
	lf.BoolVar(&newLetter.doubleSided, "double-sided", true, "print on both sides")
	lf.StringVar(&newLetter.addressPlacement, "address-placement", "", "top_first_page or insert_blank_page")
	lf.BoolVar(&newLetter.returnEnvelope, "return-envelope", false, "include a return envelope")
	lf.Uint32Var(&newLetter.perforatedPage, "perforated-page", 0, "page to perforate (requires --return-envelope)")
	lf.StringVar(&newLetter.customEnvelope, "custom-envelope", "", "id of a custom envelope")
	lf.StringVar(&newLetter.extraService, "extra-service", "", "certified, certified_return_receipt or registered")
	_ = letterCreateCmd.MarkFlagRequired("from")
	letterListFlags.register(letterListCmd)
	letterListCmd.Flags().BoolVar(&letterListFlags.color, "color", false, "only color (true) or black and white (false) letters")

	checksCmd.AddCommand(checkCreateCmd, checkGetCmd, checkCancelCmd, checkListCmd)
	newCheck.register(checkCreateCmd)
	cf := checkCreateCmd.Flags()
	cf.StringVar(&newCheck.bankAccount, "bank-account", "", "id of a verified bank account")
	cf.StringVar(&newCheck.amount, "amount", "", "amount in dollars, e.g. 22.50")
	cf.StringVar(&newCheck.memo, "memo", "", "memo line")
	cf.IntVar(&newCheck.checkNumber, "check-number", 0, "check number")
	cf.StringVar(&newCheck.logo, "logo", "", "logo: @file or URL")
	cf.StringVar(&newCheck.message, "message", "", "message printed on the check bottom")
	cf.StringVar(&newCheck.checkBottom, "check-bottom", "", "check bottom: @file, tmpl_ id, URL or HTML")
	cf.StringVar(&newCheck.attachment, "attachment", "", "attachment: @file, tmpl_ id, URL or HTML")
	_ = checkCreateCmd.MarkFlagRequired("from")
	_ = checkCreateCmd.MarkFlagRequired("bank-account")
	_ = checkCreateCmd.MarkFlagRequired("amount")
	checkListFlags.register(checkListCmd)
}
