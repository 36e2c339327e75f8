package lob

import (
	"encoding/json"
	"slices"

	"github.com/s0up4200/lobster/wire"
)

// decodeEnum accepts only the listed tokens.
func decodeEnum[E ~string](data []byte, dst *E, name string, known []E) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return &wire.DecodeError{Value: string(data), Type: name, Err: err}
	}
	if !slices.Contains(known, E(s)) {
		return &wire.DecodeError{Value: s, Type: name}
	}
	*dst = E(s)
	return nil
}

// MailType is the postal service class of a mail piece.
type MailType string

const (
	MailTypeUSPSFirstClass MailType = "usps_first_class"
	MailTypeUSPSStandard   MailType = "usps_standard"
	MailTypeUPSNextDayAir  MailType = "ups_next_day_air"
)

var mailTypes = []MailType{MailTypeUSPSFirstClass, MailTypeUSPSStandard, MailTypeUPSNextDayAir}

func (m *MailType) UnmarshalJSON(data []byte) error {
	return decodeEnum(data, m, "mail type", mailTypes)
}

// Deliverability is the overall verdict of an address verification.
type Deliverability string

const (
	Deliverable                Deliverability = "deliverable"
	DeliverableUnnecessaryUnit Deliverability = "deliverable_unnecessary_unit"
	DeliverableIncorrectUnit   Deliverability = "deliverable_incorrect_unit"
	DeliverableMissingUnit     Deliverability = "deliverable_missing_unit"
	Undeliverable              Deliverability = "undeliverable"
)

var deliverabilities = []Deliverability{
	Deliverable, DeliverableUnnecessaryUnit, DeliverableIncorrectUnit, DeliverableMissingUnit, Undeliverable,
}

func (d *Deliverability) UnmarshalJSON(data []byte) error {
	return decodeEnum(data, d, "deliverability", deliverabilities)
}

// ZipCodeType classifies a ZIP code.
type ZipCodeType string

const (
	ZipCodeStandard ZipCodeType = "standard"
	ZipCodeMilitary ZipCodeType = "military"
	ZipCodeUnique   ZipCodeType = "unique"
	ZipCodePOBox    ZipCodeType = "po_box"
)

var zipCodeTypes = []ZipCodeType{ZipCodeStandard, ZipCodeMilitary, ZipCodeUnique, ZipCodePOBox}

func (z *ZipCodeType) UnmarshalJSON(data []byte) error {
	return decodeEnum(data, z, "zip code type", zipCodeTypes)
}

// AddressType is the USPS residential delivery indicator.
type AddressType string

const (
	AddressResidential AddressType = "residential"
	AddressCommercial  AddressType = "commercial"
)

var addressTypes = []AddressType{AddressResidential, AddressCommercial}

func (a *AddressType) UnmarshalJSON(data []byte) error {
	return decodeEnum(data, a, "address type", addressTypes)
}

// RecordType is the kind of USPS record an address matched.
type RecordType string

const (
	RecordStreet     RecordType = "street"
	RecordHighrise   RecordType = "highrise"
	RecordFirm       RecordType = "firm"
	RecordPOBox      RecordType = "po_box"
	RecordRuralRoute RecordType = "rural_route"
)

var recordTypes = []RecordType{RecordStreet, RecordHighrise, RecordFirm, RecordPOBox, RecordRuralRoute}

func (r *RecordType) UnmarshalJSON(data []byte) error {
	return decodeEnum(data, r, "record type", recordTypes)
}

// CarrierRouteType is the kind of carrier route serving an address.
type CarrierRouteType string

const (
	CarrierRouteCityDelivery    CarrierRouteType = "city_delivery"
	CarrierRouteRuralRoute      CarrierRouteType = "rural_route"
	CarrierRouteHighwayContract CarrierRouteType = "highway_contract"
	CarrierRoutePOBox           CarrierRouteType = "po_box"
	CarrierRouteGeneralDelivery CarrierRouteType = "general_delivery"
	// CarrierRouteContract is not documented but is returned by the API.
	CarrierRouteContract CarrierRouteType = "contract"
)

var carrierRouteTypes = []CarrierRouteType{
	CarrierRouteCityDelivery, CarrierRouteRuralRoute, CarrierRouteHighwayContract,
	CarrierRoutePOBox, CarrierRouteGeneralDelivery, CarrierRouteContract,
}

func (c *CarrierRouteType) UnmarshalJSON(data []byte) error {
	return decodeEnum(data, c, "carrier route type", carrierRouteTypes)
}

// DpvConfirmation is the USPS delivery point validation result.
type DpvConfirmation string

const (
	// DpvConfirmed: deliverable.
	DpvConfirmed DpvConfirmation = "Y"
	// DpvSecondaryDropped: deliverable once the given secondary unit is removed.
	DpvSecondaryDropped DpvConfirmation = "S"
	// DpvSecondaryMissing: deliverable to the building default, unit missing.
	DpvSecondaryMissing DpvConfirmation = "D"
	// DpvNotConfirmed: not deliverable, though parts of it are valid.
	DpvNotConfirmed DpvConfirmation = "N"
)

var dpvConfirmations = []DpvConfirmation{DpvConfirmed, DpvSecondaryDropped, DpvSecondaryMissing, DpvNotConfirmed}

func (d *DpvConfirmation) UnmarshalJSON(data []byte) error {
	return decodeEnum(data, d, "DPV confirmation", dpvConfirmations)
}

// DpvCode is a DPV footnote.
type DpvCode string

const (
	DpvCodeAA DpvCode = "AA" // some parts valid
	DpvCodeA1 DpvCode = "A1" // invalid
	DpvCodeBB DpvCode = "BB" // deliverable
	DpvCodeCC DpvCode = "CC" // deliverable without the given secondary
	DpvCodeN1 DpvCode = "N1" // deliverable, secondary missing
	DpvCodeF1 DpvCode = "F1" // military
	DpvCodeG1 DpvCode = "G1" // general delivery
	DpvCodeU1 DpvCode = "U1" // unique ZIP
	DpvCodeM1 DpvCode = "M1" // primary number missing
	DpvCodeM3 DpvCode = "M3" // primary number invalid
	DpvCodeP1 DpvCode = "P1" // box number missing
	DpvCodeP3 DpvCode = "P3" // box number invalid
	DpvCodeR1 DpvCode = "R1" // CMRA without private mailbox
	DpvCodeR7 DpvCode = "R7" // phantom carrier route R777
	DpvCodeRR DpvCode = "RR" // CMRA with private mailbox
)

var dpvCodes = []DpvCode{
	DpvCodeAA, DpvCodeA1, DpvCodeBB, DpvCodeCC, DpvCodeN1, DpvCodeF1, DpvCodeG1, DpvCodeU1,
	DpvCodeM1, DpvCodeM3, DpvCodeP1, DpvCodeP3, DpvCodeR1, DpvCodeR7, DpvCodeRR,
}

func (d *DpvCode) UnmarshalJSON(data []byte) error {
	return decodeEnum(data, d, "DPV footnote", dpvCodes)
}

// LacsReturnCode is the LACSLink conversion result.
type LacsReturnCode string

const (
	LacsConverted        LacsReturnCode = "A"
	LacsSecondaryDropped LacsReturnCode = "92"
	LacsNotConvertible   LacsReturnCode = "14"
	LacsNoMatch          LacsReturnCode = "00"
)

var lacsReturnCodes = []LacsReturnCode{LacsConverted, LacsSecondaryDropped, LacsNotConvertible, LacsNoMatch}

func (l *LacsReturnCode) UnmarshalJSON(data []byte) error {
	return decodeEnum(data, l, "LACS return code", lacsReturnCodes)
}

// SuiteReturnCode is the SuiteLink lookup result.
type SuiteReturnCode string

const (
	SuiteMatched SuiteReturnCode = "A"
	SuiteNoMatch SuiteReturnCode = "00"
)

var suiteReturnCodes = []SuiteReturnCode{SuiteMatched, SuiteNoMatch}

func (s *SuiteReturnCode) UnmarshalJSON(data []byte) error {
	return decodeEnum(data, s, "suite return code", suiteReturnCodes)
}

// Case selects the letter case of verification output.
type Case string

const (
	CaseUpper Case = "upper"
	CaseLower Case = "lower"
)

// PostcardSize is a postcard format.
type PostcardSize string

const (
	PostcardSize4x6  PostcardSize = "4x6"
	PostcardSize6x9  PostcardSize = "6x9"
	PostcardSize6x11 PostcardSize = "6x11"
)

var postcardSizes = []PostcardSize{PostcardSize4x6, PostcardSize6x9, PostcardSize6x11}

func (p *PostcardSize) UnmarshalJSON(data []byte) error {
	return decodeEnum(data, p, "postcard size", postcardSizes)
}

// LetterAddressPlacement controls where the recipient address is printed.
type LetterAddressPlacement string

const (
	PlacementTopFirstPage    LetterAddressPlacement = "top_first_page"
	PlacementInsertBlankPage LetterAddressPlacement = "insert_blank_page"
)

var letterAddressPlacements = []LetterAddressPlacement{PlacementTopFirstPage, PlacementInsertBlankPage}

func (l *LetterAddressPlacement) UnmarshalJSON(data []byte) error {
	return decodeEnum(data, l, "address placement", letterAddressPlacements)
}

// ExtraService is an add-on USPS service for letters.
type ExtraService string

const (
	ExtraServiceCertified              ExtraService = "certified"
	ExtraServiceCertifiedReturnReceipt ExtraService = "certified_return_receipt"
	ExtraServiceRegistered             ExtraService = "registered"
)

var extraServices = []ExtraService{ExtraServiceCertified, ExtraServiceCertifiedReturnReceipt, ExtraServiceRegistered}

func (e *ExtraService) UnmarshalJSON(data []byte) error {
	return decodeEnum(data, e, "extra service", extraServices)
}

// AccountType is the owner type of a bank account.
type AccountType string

const (
	AccountCompany    AccountType = "company"
	AccountIndividual AccountType = "individual"
)

var accountTypes = []AccountType{AccountCompany, AccountIndividual}

func (a *AccountType) UnmarshalJSON(data []byte) error {
	return decodeEnum(data, a, "account type", accountTypes)
}

// Resource is the collection an event type belongs to.
type Resource string

const (
	ResourcePostcards    Resource = "postcards"
	ResourceLetters      Resource = "letters"
	ResourceChecks       Resource = "checks"
	ResourceAddresses    Resource = "addresses"
	ResourceBankAccounts Resource = "bank_accounts"
)

var resources = []Resource{ResourcePostcards, ResourceLetters, ResourceChecks, ResourceAddresses, ResourceBankAccounts}

func (r *Resource) UnmarshalJSON(data []byte) error {
	return decodeEnum(data, r, "resource", resources)
}

// ListInclude requests optional list envelope fields.
type ListInclude string

// IncludeTotalCount populates List.TotalCount.
const IncludeTotalCount ListInclude = "total_count"

// SortOrder is a list sort direction.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// SortField is the field a list is sorted by.
type SortField string

const (
	SortByDateCreated SortField = "date_created"
	SortBySendDate    SortField = "send_date"
)
