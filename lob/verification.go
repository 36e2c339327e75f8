package lob

import (
	"context"
	"encoding/json"
	"net/netip"
	"strings"

	"github.com/s0up4200/lobster/wire"
)

// USVerificationInput is the address handed to VerifyUSAddress: an
// AddressLine or USVerificationComponents.
type USVerificationInput interface {
	isUSVerificationInput()
}

// AddressLine is a complete address on a single line.
type AddressLine string

// MarshalJSON encodes the line as the request body {"address": line}.
func (a AddressLine) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Address string `json:"address"`
	}{Address: string(a)})
}

// USVerificationComponents is a US address split into parts.
type USVerificationComponents struct {
	Recipient     *string `json:"recipient,omitempty"`
	PrimaryLine   string  `json:"primary_line"`
	SecondaryLine *string `json:"secondary_line,omitempty"`
	Urbanization  *string `json:"urbanization,omitempty"`
	City          *string `json:"city,omitempty"`
	State         *string `json:"state,omitempty"`
	ZipCode       *string `json:"zip_code,omitempty"`
}

func (AddressLine) isUSVerificationInput()              {}
func (USVerificationComponents) isUSVerificationInput() {}

// VerifyOptions tunes VerifyUSAddress.
type VerifyOptions struct {
	Case Case `url:"case,omitempty"`
}

// USVerification is the result of verifying a US address.
type USVerification struct {
	ID                     string                 `json:"id"`
	Recipient              wire.Optional[string]  `json:"recipient"`
	PrimaryLine            string                 `json:"primary_line"`
	SecondaryLine          wire.Optional[string]  `json:"secondary_line"`
	Urbanization           wire.Optional[string]  `json:"urbanization"`
	LastLine               string                 `json:"last_line"`
	Deliverability         Deliverability         `json:"deliverability"`
	Components             VerificationComponents `json:"components"`
	DeliverabilityAnalysis DeliverabilityAnalysis `json:"deliverability_analysis"`
}

func (v USVerification) MarshalJSON() ([]byte, error) {
	type plain USVerification
	return encodeObject(ObjectUSVerification, plain(v))
}

func (v *USVerification) UnmarshalJSON(data []byte) error {
	type plain USVerification
	return decodeObject(data, ObjectUSVerification, (*plain)(v))
}

// VerificationComponents is the parsed and standardized form of a verified
// US address.
type VerificationComponents struct {
	PrimaryNumber            string                          `json:"primary_number"`
	StreetPredirection       wire.Optional[string]           `json:"street_predirection"`
	StreetName               string                          `json:"street_name"`
	StreetSuffix             wire.Optional[string]           `json:"street_suffix"`
	StreetPostdirection      wire.Optional[string]           `json:"street_postdirection"`
	SecondaryDesignator      wire.Optional[string]           `json:"secondary_designator"`
	SecondaryNumber          wire.Optional[string]           `json:"secondary_number"`
	PMBDesignator            wire.Optional[string]           `json:"pmb_designator"`
	PMBNumber                wire.Optional[string]           `json:"pmb_number"`
	ExtraSecondaryDesignator wire.Optional[string]           `json:"extra_secondary_designator"`
	ExtraSecondaryNumber     wire.Optional[string]           `json:"extra_secondary_number"`
	City                     string                          `json:"city"`
	State                    string                          `json:"state"`
	ZipCode                  string                          `json:"zip_code"`
	ZipCodePlus4             wire.Optional[string]           `json:"zip_code_plus_4"`
	ZipCodeType              wire.Optional[ZipCodeType]      `json:"zip_code_type"`
	DeliveryPointBarcode     wire.Optional[string]           `json:"delivery_point_barcode"`
	AddressType              wire.Optional[AddressType]      `json:"address_type"`
	RecordType               wire.Optional[RecordType]       `json:"record_type"`
	DefaultBuildingAddress   bool                            `json:"default_building_address"`
	County                   string                          `json:"county"`
	CountyFIPS               string                          `json:"county_fips"`
	CarrierRoute             string                          `json:"carrier_route"`
	CarrierRouteType         wire.Optional[CarrierRouteType] `json:"carrier_route_type"`
	Latitude                 *float64                        `json:"latitude"`
	Longitude                *float64                        `json:"longitude"`
}

// DeliverabilityAnalysis holds the USPS lookups behind a verification.
type DeliverabilityAnalysis struct {
	// DpvConfirmation is absent for undeliverable addresses.
	DpvConfirmation wire.Optional[DpvConfirmation] `json:"dpv_confirmation"`
	DpvCMRA         wire.Flag                      `json:"dpv_cmra"`
	DpvVacant       wire.Flag                      `json:"dpv_vacant"`
	DpvActive       wire.Flag                      `json:"dpv_active"`
	DpvFootnotes    []DpvCode                      `json:"dpv_footnotes"`
	EWSMatch        bool                           `json:"ews_match"`
	LacsIndicator   wire.Flag                      `json:"lacs_indicator"`
	LacsReturnCode  wire.Optional[LacsReturnCode]  `json:"lacs_return_code"`
	SuiteReturnCode wire.Optional[SuiteReturnCode] `json:"suite_return_code"`
}

// USAutocompletion lists address suggestions for a prefix.
type USAutocompletion struct {
	ID          string                   `json:"id"`
	Suggestions []AutocompleteSuggestion `json:"suggestions"`
}

func (a USAutocompletion) MarshalJSON() ([]byte, error) {
	type plain USAutocompletion
	return encodeObject(ObjectUSAutocompletion, plain(a))
}

func (a *USAutocompletion) UnmarshalJSON(data []byte) error {
	type plain USAutocompletion
	return decodeObject(data, ObjectUSAutocompletion, (*plain)(a))
}

// AutocompleteSuggestion is one candidate address.
type AutocompleteSuggestion struct {
	PrimaryLine string `json:"primary_line"`
	City        string `json:"city"`
	State       string `json:"state"`
	ZipCode     string `json:"zip_code"`
}

// AutocompleteOptions narrows AutocompleteUSAddress.
type AutocompleteOptions struct {
	City  string
	State string
	// GeoIPSort ranks suggestions by proximity to this client IP. The IP is
	// sent in X-Forwarded-For, never in the query.
	GeoIPSort netip.Addr
	// ValidAddresses restricts suggestions to deliverable addresses. The
	// account needs this feature enabled.
	ValidAddresses *bool
}

type autocompleteQuery struct {
	AddressPrefix  string `url:"address_prefix"`
	City           string `url:"city,omitempty"`
	State          string `url:"state,omitempty"`
	GeoIPSort      bool   `url:"geo_ip_sort,omitempty"`
	ValidAddresses *bool  `url:"valid_addresses,omitempty"`
}

// USZipLookup lists the cities served by a ZIP code.
type USZipLookup struct {
	ID          string                     `json:"id"`
	ZipCode     string                     `json:"zip_code"`
	ZipCodeType wire.Optional[ZipCodeType] `json:"zip_code_type"`
	Cities      []City                     `json:"cities"`
}

func (z USZipLookup) MarshalJSON() ([]byte, error) {
	type plain USZipLookup
	return encodeObject(ObjectUSZipLookup, plain(z))
}

func (z *USZipLookup) UnmarshalJSON(data []byte) error {
	type plain USZipLookup
	return decodeObject(data, ObjectUSZipLookup, (*plain)(z))
}

// City is a city served by a ZIP code.
type City struct {
	City       string `json:"city"`
	State      string `json:"state"`
	County     string `json:"county"`
	CountyFIPS string `json:"county_fips"`
	// Preferred marks the USPS preferred city name for the ZIP code.
	Preferred bool `json:"preferred"`
}

// IntlVerificationInput is a non-US address to verify.
type IntlVerificationInput struct {
	Recipient     *string `json:"recipient,omitempty"`
	PrimaryLine   string  `json:"primary_line"`
	SecondaryLine *string `json:"secondary_line,omitempty"`
	City          *string `json:"city,omitempty"`
	State         *string `json:"state,omitempty"`
	PostalCode    *string `json:"postal_code,omitempty"`
	// Country is an ISO 3166 alpha-2 code. US territories must use
	// VerifyUSAddress instead.
	Country string `json:"country"`
}

// usTerritories are rejected by the international verification endpoint.
var usTerritories = []string{"US", "AS", "PR", "FM", "GU", "MH", "MP", "PW", "VI"}

// Validate checks the request before it is sent.
func (in *IntlVerificationInput) Validate() error {
	if in == nil {
		return validationError("address is required")
	}
	if strings.TrimSpace(in.PrimaryLine) == "" {
		return validationError("primary_line is required")
	}
	country := strings.ToUpper(strings.TrimSpace(in.Country))
	if len(country) != 2 {
		return validationError("country must be a two-letter ISO 3166 code, got %q", in.Country)
	}
	for _, t := range usTerritories {
		if country == t {
			return validationError("country %s must be verified with the US verification API", country)
		}
	}
	if country == "PS" {
		return validationError("country %s is not supported by international verification", country)
	}
	return nil
}

// IntlVerification is the result of verifying a non-US address.
type IntlVerification struct {
	ID             string                `json:"id"`
	Recipient      string                `json:"recipient"`
	PrimaryLine    string                `json:"primary_line"`
	SecondaryLine  wire.Optional[string] `json:"secondary_line"`
	LastLine       string                `json:"last_line"`
	Country        string                `json:"country"`
	Deliverability Deliverability        `json:"deliverability"`
	Components     IntlAddressComponents `json:"components"`
}

func (v IntlVerification) MarshalJSON() ([]byte, error) {
	type plain IntlVerification
	return encodeObject(ObjectIntlVerification, plain(v))
}

func (v *IntlVerification) UnmarshalJSON(data []byte) error {
	type plain IntlVerification
	return decodeObject(data, ObjectIntlVerification, (*plain)(v))
}

// IntlAddressComponents is the parsed form of a verified non-US address.
type IntlAddressComponents struct {
	PrimaryNumber *string `json:"primary_number"`
	StreetName    *string `json:"street_name"`
	City          *string `json:"city"`
	State         *string `json:"state"`
	PostalCode    *string `json:"postal_code"`
}

// VerifyUSAddress verifies a US address. opts may be nil.
func (c *Client) VerifyUSAddress(ctx context.Context, address USVerificationInput, opts *VerifyOptions) (*USVerification, error) {
	switch a := address.(type) {
	case nil:
		return nil, validationError("address is required")
	case AddressLine:
		if strings.TrimSpace(string(a)) == "" {
			return nil, validationError("address is empty")
		}
	case USVerificationComponents:
		if strings.TrimSpace(a.PrimaryLine) == "" {
			return nil, validationError("primary_line is required")
		}
	case *USVerificationComponents:
		if a == nil || strings.TrimSpace(a.PrimaryLine) == "" {
			return nil, validationError("primary_line is required")
		}
	}

	q, err := encodeQuery(opts)
	if err != nil {
		return nil, err
	}

	var out USVerification
	if err := c.post(ctx, "/us_verifications", q, address, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AutocompleteUSAddress suggests US addresses starting with prefix. opts
// may be nil.
func (c *Client) AutocompleteUSAddress(ctx context.Context, prefix string, opts *AutocompleteOptions) (*USAutocompletion, error) {
	if strings.TrimSpace(prefix) == "" {
		return nil, validationError("address prefix is required")
	}

	q := autocompleteQuery{AddressPrefix: prefix}
	var reqOpts []RequestOption
	if opts != nil {
		q.City = opts.City
		q.State = opts.State
		q.ValidAddresses = opts.ValidAddresses
		if opts.GeoIPSort.IsValid() {
			q.GeoIPSort = true
			reqOpts = append(reqOpts, WithHeader("X-Forwarded-For", opts.GeoIPSort.String()))
		}
	}

	values, err := encodeQuery(&q)
	if err != nil {
		return nil, err
	}

	var out USAutocompletion
	if err := c.post(ctx, "/us_autocompletions", values, nil, &out, reqOpts...); err != nil {
		return nil, err
	}
	return &out, nil
}

// LookupUSZip lists the cities served by a five-digit ZIP code.
func (c *Client) LookupUSZip(ctx context.Context, zipCode string) (*USZipLookup, error) {
	if strings.TrimSpace(zipCode) == "" {
		return nil, validationError("zip code is required")
	}

	body := struct {
		ZipCode string `json:"zip_code"`
	}{ZipCode: zipCode}

	var out USZipLookup
	if err := c.post(ctx, "/us_zip_lookups", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyIntlAddress verifies a non-US address.
func (c *Client) VerifyIntlAddress(ctx context.Context, address *IntlVerificationInput) (*IntlVerification, error) {
	if err := address.Validate(); err != nil {
		return nil, err
	}
	var out IntlVerification
	if err := c.post(ctx, "/intl_verifications", nil, address, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
