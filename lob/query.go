package lob

import (
	"maps"
	"net/url"
	"slices"
	"time"
)

// Metadata is a free-form string map attached to resources. In list
// options it filters by exact key and value.
type Metadata map[string]string

// EncodeValues implements query.Encoder as metadata[key]=value.
func (m Metadata) EncodeValues(key string, v *url.Values) error {
	for _, k := range slices.Sorted(maps.Keys(m)) {
		v.Set(key+"["+k+"]", m[k])
	}
	return nil
}

// DateFilter bounds a timestamp field. Nil bounds are omitted.
type DateFilter struct {
	Gt  *time.Time `url:"gt,omitempty"`
	Gte *time.Time `url:"gte,omitempty"`
	Lt  *time.Time `url:"lt,omitempty"`
	Lte *time.Time `url:"lte,omitempty"`
}

// SortBy orders a mail piece listing.
type SortBy struct {
	Field SortField
	Order SortOrder
}

// EncodeValues implements query.Encoder as sort_by[field]=order.
func (s SortBy) EncodeValues(key string, v *url.Values) error {
	if s.Field == "" {
		return nil
	}
	order := s.Order
	if order == "" {
		order = SortAsc
	}
	v.Set(key+"["+string(s.Field)+"]", string(order))
	return nil
}

// ListOptions are the filters shared by every list operation.
type ListOptions struct {
	// Limit is the page size, at most 100. Zero uses the API default of 10.
	Limit int `url:"limit,omitempty"`
	// Before and After are cursors taken from a previous page.
	Before string `url:"before,omitempty"`
	After  string `url:"after,omitempty"`
	// Include requests optional envelope fields, e.g. IncludeTotalCount.
	Include     []ListInclude `url:"include,omitempty,brackets"`
	Metadata    Metadata      `url:"metadata,omitempty"`
	DateCreated *DateFilter   `url:"date_created,omitempty"`
}

// ListAddressesOptions filters ListAddresses.
type ListAddressesOptions struct {
	ListOptions
}

// ListBankAccountsOptions filters ListBankAccounts.
type ListBankAccountsOptions struct {
	ListOptions
}

// ListMailOptions are the filters shared by postcard, letter and check
// listings.
type ListMailOptions struct {
	ListOptions
	// Scheduled selects pieces whose send date is after (true) or equal to
	// (false) their creation date.
	Scheduled *bool       `url:"scheduled,omitempty"`
	SendDate  *DateFilter `url:"send_date,omitempty"`
	MailType  MailType    `url:"mail_type,omitempty"`
	SortBy    *SortBy     `url:"sort_by,omitempty"`
}

// ListPostcardsOptions filters ListPostcards.
type ListPostcardsOptions struct {
	ListMailOptions
	Size []PostcardSize `url:"size,omitempty,brackets"`
}

// ListLettersOptions filters ListLetters.
type ListLettersOptions struct {
	ListMailOptions
	Color *bool `url:"color,omitempty"`
}

// ListChecksOptions filters ListChecks.
type ListChecksOptions struct {
	ListMailOptions
}
