package output

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/s0up4200/lobster/batch"
	"github.com/s0up4200/lobster/lob"
)

const dateLayout = "2006-01-02 15:04"

type table struct {
	headers []string
	rows    [][]string
	footer  []string
}

func (t *table) write(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(t.headers, "\t"))
	for _, row := range t.rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	for _, line := range t.footer {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// details renders label/value pairs, one per line.
func details(w io.Writer, pairs [][2]string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, p := range pairs {
		if p[1] == "" {
			continue
		}
		fmt.Fprintf(tw, "%s:\t%s\n", p[0], p[1])
	}
	return tw.Flush()
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func when(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(dateLayout)
}

func day(d lob.Date) string {
	if d.IsZero() {
		return "-"
	}
	return d.String()
}

func place(a *lob.Address) string {
	if a == nil {
		return "-"
	}
	parts := make([]string, 0, 3)
	for _, p := range []*string{a.AddressCity, a.AddressState, a.AddressZip} {
		if s := str(p); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

func recipient(a *lob.Address) string {
	if name := str(a.Name); name != "" {
		return name
	}
	if company := str(a.Company); company != "" {
		return company
	}
	return a.AddressLine1
}

func listFooter[T any](l *lob.List[T]) []string {
	footer := []string{fmt.Sprintf("\n%d shown", l.Count)}
	if l.TotalCount != nil {
		footer[0] += fmt.Sprintf(" of %d", *l.TotalCount)
	}
	if next := l.NextCursor(); next != "" {
		footer = append(footer, "next page: --after "+next)
	}
	return footer
}

var (
	addressHeaders     = []string{"ID", "NAME", "LINE 1", "PLACE", "CREATED"}
	postcardHeaders    = []string{"ID", "TO", "PLACE", "SIZE", "MAIL TYPE", "SEND DATE", "EXPECTED"}
	letterHeaders      = []string{"ID", "TO", "PLACE", "COLOR", "EXTRA SERVICE", "SEND DATE", "EXPECTED"}
	checkHeaders       = []string{"ID", "NUMBER", "TO", "AMOUNT", "BANK ACCOUNT", "SEND DATE", "EXPECTED"}
	bankAccountHeaders = []string{"ID", "BANK", "TYPE", "SIGNATORY", "VERIFIED", "CREATED"}
)

func addressRow(a *lob.Address) []string {
	return []string{a.ID, recipient(a), a.AddressLine1, place(a), when(a.DateCreated)}
}

func postcardRow(p *lob.Postcard) []string {
	return []string{p.ID, recipient(&p.To), place(&p.To), string(p.Size), string(p.MailType),
		when(p.SendDate), day(p.ExpectedDeliveryDate)}
}

func letterRow(l *lob.Letter) []string {
	extra := "-"
	if l.ExtraService != nil {
		extra = string(*l.ExtraService)
	}
	return []string{l.ID, recipient(&l.To), place(&l.To), strconv.FormatBool(l.Color), extra,
		when(l.SendDate), day(l.ExpectedDeliveryDate)}
}

func checkRow(c *lob.Check) []string {
	return []string{c.ID, strconv.Itoa(c.CheckNumber), recipient(&c.To), "$" + c.Amount.String(),
		c.BankAccount.ID, when(c.SendDate), when(c.ExpectedDeliveryDate)}
}

func bankAccountRow(b *lob.BankAccount) []string {
	return []string{b.ID, b.BankName, string(b.AccountType), b.Signatory, strconv.FormatBool(b.Verified),
		when(b.DateCreated)}
}

func rows[T any](items []T, row func(*T) []string) [][]string {
	out := make([][]string, len(items))
	for i := range items {
		out[i] = row(&items[i])
	}
	return out
}

func listTable[T any](headers []string, l *lob.List[T], row func(*T) []string) *table {
	return &table{headers: headers, rows: rows(l.Data, row), footer: listFooter(l)}
}

// renderConsole writes v as a table. It reports false for types it has no
// table for.
func renderConsole(w io.Writer, v any) (bool, error) {
	var t *table

	switch x := v.(type) {
	case *lob.Address:
		t = &table{headers: addressHeaders, rows: [][]string{addressRow(x)}}
	case *lob.List[lob.Address]:
		t = listTable(addressHeaders, x, addressRow)
	case *lob.Postcard:
		t = &table{headers: postcardHeaders, rows: [][]string{postcardRow(x)}}
	case *lob.List[lob.Postcard]:
		t = listTable(postcardHeaders, x, postcardRow)
	case []lob.Postcard:
		t = &table{headers: postcardHeaders, rows: rows(x, postcardRow)}
	case *lob.Letter:
		t = &table{headers: letterHeaders, rows: [][]string{letterRow(x)}}
	case *lob.List[lob.Letter]:
		t = listTable(letterHeaders, x, letterRow)
	case []lob.Letter:
		t = &table{headers: letterHeaders, rows: rows(x, letterRow)}
	case *lob.Check:
		t = &table{headers: checkHeaders, rows: [][]string{checkRow(x)}}
	case *lob.List[lob.Check]:
		t = listTable(checkHeaders, x, checkRow)
	case []lob.Check:
		t = &table{headers: checkHeaders, rows: rows(x, checkRow)}
	case *lob.BankAccount:
		t = &table{headers: bankAccountHeaders, rows: [][]string{bankAccountRow(x)}}
	case *lob.List[lob.BankAccount]:
		t = listTable(bankAccountHeaders, x, bankAccountRow)
	case []lob.BankAccount:
		t = &table{headers: bankAccountHeaders, rows: rows(x, bankAccountRow)}
	case []lob.Address:
		t = &table{headers: addressHeaders, rows: rows(x, addressRow)}
	case *lob.Deletion:
		_, err := fmt.Fprintf(w, "%s deleted: %t\n", x.ID, x.Deleted)
		return true, err
	case *lob.USVerification:
		return true, usVerification(w, x)
	case *lob.IntlVerification:
		return true, details(w, [][2]string{
			{"ID", x.ID},
			{"Deliverability", string(x.Deliverability)},
			{"Recipient", x.Recipient},
			{"Primary line", x.PrimaryLine},
			{"Secondary line", x.SecondaryLine.Or("")},
			{"Last line", x.LastLine},
			{"Country", x.Country},
		})
	case *lob.USAutocompletion:
		t = &table{headers: []string{"PRIMARY LINE", "CITY", "STATE", "ZIP"}}
		for _, s := range x.Suggestions {
			t.rows = append(t.rows, []string{s.PrimaryLine, s.City, s.State, s.ZipCode})
		}
	case *lob.USZipLookup:
		t = &table{headers: []string{"CITY", "STATE", "COUNTY", "PREFERRED"}}
		for _, c := range x.Cities {
			t.rows = append(t.rows, []string{c.City, c.State, c.County, strconv.FormatBool(c.Preferred)})
		}
		t.footer = []string{fmt.Sprintf("\nZIP %s (%s)", x.ZipCode, x.ZipCodeType.Or("unknown"))}
	case []VerifyRow:
		t = &table{headers: []string{"#", "DELIVERABILITY", "PRIMARY LINE", "LAST LINE", "ERROR"}}
		for _, r := range x {
			t.rows = append(t.rows, []string{strconv.Itoa(r.Index), r.Deliverability, r.PrimaryLine, r.LastLine, r.Error})
		}
	case batch.Summary:
		t = &table{headers: []string{"DELIVERABILITY", "COUNT"}}
		for _, d := range slices.Sorted(maps.Keys(x.Deliverability)) {
			t.rows = append(t.rows, []string{string(d), strconv.Itoa(x.Deliverability[d])})
		}
		t.footer = []string{fmt.Sprintf("\n%d verified, %d failed", x.Total-x.Failed, x.Failed)}
	case CancelReport:
		t = &table{headers: []string{"ID", "RESULT"}}
		for _, id := range x.Successful {
			t.rows = append(t.rows, []string{id, "canceled"})
		}
		for _, id := range slices.Sorted(maps.Keys(x.Failed)) {
			t.rows = append(t.rows, []string{id, x.Failed[id]})
		}
		t.footer = []string{fmt.Sprintf("\n%d of %d canceled", len(x.Successful), x.Requested)}
	case []Preset:
		t = &table{headers: []string{"NAME", "EXPRESSION"}}
		for _, p := range x {
			t.rows = append(t.rows, []string{p.Name, p.Expression})
		}
	case FilterCounts:
		t = &table{headers: []string{"PRESET", "MATCHES"}}
		for _, name := range slices.Sorted(maps.Keys(x.Matches)) {
			t.rows = append(t.rows, []string{name, strconv.Itoa(x.Matches[name])})
		}
		t.footer = []string{fmt.Sprintf("\n%d %s evaluated", x.Records, x.Resource)}
	default:
		return false, nil
	}

	return true, t.write(w)
}

func usVerification(w io.Writer, v *lob.USVerification) error {
	c := v.Components
	a := v.DeliverabilityAnalysis
	return details(w, [][2]string{
		{"ID", v.ID},
		{"Deliverability", string(v.Deliverability)},
		{"Recipient", v.Recipient.Or("")},
		{"Primary line", v.PrimaryLine},
		{"Secondary line", v.SecondaryLine.Or("")},
		{"Last line", v.LastLine},
		{"ZIP+4", strings.TrimSuffix(c.ZipCode+"-"+c.ZipCodePlus4.Or(""), "-")},
		{"Record type", string(c.RecordType.Or(""))},
		{"Address type", string(c.AddressType.Or(""))},
		{"County", c.County},
		{"DPV confirmation", string(a.DpvConfirmation.Or(""))},
		{"DPV vacant", a.DpvVacant.String()},
		{"DPV active", a.DpvActive.String()},
	})
}
