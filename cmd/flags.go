package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/s0up4200/lobster/lob"
)

// parseFile turns a file flag into a lob.File:
//
//	@path/to/file.pdf   upload the local file
//	tmpl_...            saved template
//	http(s)://...       remote file
//	anything else       inline HTML
func parseFile(value string) (lob.File, error) {
	switch {
	case value == "":
		return nil, nil
	case strings.HasPrefix(value, "@"):
		path := strings.TrimPrefix(value, "@")
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		return lob.Upload{Filename: filepath.Base(path), Data: data}, nil
	case strings.HasPrefix(value, "tmpl_"):
		return lob.TemplateID(value), nil
	case strings.HasPrefix(value, "https://"), strings.HasPrefix(value, "http://"):
		return lob.RemoteURL(value), nil
	default:
		return lob.HTML(value), nil
	}
}

// parseSendAddress accepts the id of a saved address (adr_...), an inline
// JSON object, or @path to a JSON file.
func parseSendAddress(value string) (lob.SendAddress, error) {
	value = strings.TrimSpace(value)
	switch {
	case value == "":
		return nil, nil
	case strings.HasPrefix(value, "adr_"):
		return lob.AddressID(value), nil
	}

	data := []byte(value)
	if strings.HasPrefix(value, "@") {
		var err error
		if data, err = os.ReadFile(strings.TrimPrefix(value, "@")); err != nil {
			return nil, fmt.Errorf("read address: %w", err)
		}
	}

	var components lob.AddressComponents
	if err := json.Unmarshal(data, &components); err != nil {
		return nil, fmt.Errorf("address must be an adr_ id or a JSON object: %w", err)
	}
	return &components, nil
}

// parseMetadata turns key=value pairs into metadata
func parseMetadata(pairs []string) (lob.Metadata, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	md := make(lob.Metadata, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid metadata %q, want key=value", pair)
		}
		md[key] = value
	}
	return md, nil
}

// parseMergeVariables decodes a JSON object given inline or as @path
func parseMergeVariables(value string) (map[string]any, error) {
	if value == "" {
		return nil, nil
	}
	data := []byte(value)
	if strings.HasPrefix(value, "@") {
		var err error
		if data, err = os.ReadFile(strings.TrimPrefix(value, "@")); err != nil {
			return nil, fmt.Errorf("read merge variables: %w", err)
		}
	}
	var vars map[string]any
	if err := json.Unmarshal(data, &vars); err != nil {
		return nil, fmt.Errorf("merge variables must be a JSON object: %w", err)
	}
	return vars, nil
}

// parseSendDate reads YYYY-MM-DD or RFC 3339
func parseSendDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	d, err := lob.ParseDate(value)
	if err != nil {
		return nil, fmt.Errorf("invalid send date %q: %w", value, err)
	}
	t := d.Time(time.UTC)
	return &t, nil
}

func optionalString(cmd *cobra.Command, name, value string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &value
}

func optionalBool(cmd *cobra.Command, name string, value bool) *bool {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &value
}

// listFlags are shared by every list command
type listFlags struct {
	limit      int
	before     string
	after      string
	totalCount bool
	metadata   []string
	createdGte string
	createdLt  string
	all        bool
	filters    []string
}

func (f *listFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.limit, "limit", 0, "page size, at most 100")
	cmd.Flags().StringVar(&f.before, "before", "", "cursor of the page before")
	cmd.Flags().StringVar(&f.after, "after", "", "cursor of the page after")
	cmd.Flags().BoolVar(&f.totalCount, "total", false, "include the total count")
	cmd.Flags().StringSliceVar(&f.metadata, "metadata", nil, "metadata filter key=value (repeatable)")
	cmd.Flags().StringVar(&f.createdGte, "created-since", "", "only resources created on or after this date")
	cmd.Flags().StringVar(&f.createdLt, "created-before", "", "only resources created before this date")
	cmd.Flags().BoolVar(&f.all, "all", false, "follow next cursors until the last page")
	cmd.Flags().StringArrayVarP(&f.filters, "filter", "f", nil, "client-side filter expression or preset name (repeatable, all must match)")
}

func (f *listFlags) options() (lob.ListOptions, error) {
	opts := lob.ListOptions{Limit: f.limit, Before: f.before, After: f.after}
	if f.totalCount {
		opts.Include = []lob.ListInclude{lob.IncludeTotalCount}
	}

	md, err := parseMetadata(f.metadata)
	if err != nil {
		return opts, err
	}
	opts.Metadata = md

	gte, err := parseSendDate(f.createdGte)
	if err != nil {
		return opts, err
	}
	lt, err := parseSendDate(f.createdLt)
	if err != nil {
		return opts, err
	}
	if gte != nil || lt != nil {
		opts.DateCreated = &lob.DateFilter{Gte: gte, Lt: lt}
	}
	return opts, nil
}

// mailFlags add the filters shared by postcards, letters and checks
type mailFlags struct {
	listFlags
	mailType  string
	scheduled bool
	sortBy    string
	desc      bool
}

func (f *mailFlags) register(cmd *cobra.Command) {
	f.listFlags.register(cmd)
	cmd.Flags().StringVar(&f.mailType, "mail-type", "", "usps_first_class, usps_standard or ups_next_day_air")
	cmd.Flags().BoolVar(&f.scheduled, "scheduled", false, "only scheduled (true) or unscheduled (false) pieces")
	cmd.Flags().StringVar(&f.sortBy, "sort-by", "", "date_created or send_date")
	cmd.Flags().BoolVar(&f.desc, "desc", false, "sort descending")
}

func (f *mailFlags) options(cmd *cobra.Command) (lob.ListMailOptions, error) {
	base, err := f.listFlags.options()
	if err != nil {
		return lob.ListMailOptions{}, err
	}
	opts := lob.ListMailOptions{
		ListOptions: base,
		MailType:    lob.MailType(f.mailType),
		Scheduled:   optionalBool(cmd, "scheduled", f.scheduled),
	}
	if f.sortBy != "" {
		order := lob.SortAsc
		if f.desc {
			order = lob.SortDesc
		}
		opts.SortBy = &lob.SortBy{Field: lob.SortField(f.sortBy), Order: order}
	}
	return opts, nil
}
