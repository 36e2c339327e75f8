package lob

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const addressJSON = `{
	"id": "adr_d3489cd64c791ab5",
	"description": "Harry - Office",
	"name": "HARRY ZHANG",
	"company": "LOB",
	"phone": "5555555555",
	"email": "harry@lob.com",
	"address_line1": "210 KING ST",
	"address_line2": null,
	"address_city": "SAN FRANCISCO",
	"address_state": "CA",
	"address_zip": "94107-1741",
	"address_country": "UNITED STATES",
	"metadata": {"customer": "42"},
	"date_created": "2024-01-10T18:48:21.384Z",
	"date_modified": "2024-01-10T18:48:21.384Z",
	"object": "address"
}`

const bankAccountJSON = `{
	"id": "bank_8cad8df5354d33f",
	"description": "Test Bank Account",
	"metadata": {},
	"routing_number": "322271627",
	"account_number": "123456789",
	"account_type": "company",
	"signatory": "John Doe",
	"signature_url": null,
	"bank_name": "J.P. MORGAN CHASE BANK, N.A.",
	"verified": false,
	"date_created": "2024-01-10T18:48:21.384Z",
	"date_modified": "2024-01-10T18:48:21.384Z",
	"object": "bank_account"
}`

const postcardJSON = `{
	"id": "psc_5c002b86ce47537a",
	"description": null,
	"metadata": {},
	"to": ` + addressJSON + `,
	"from": null,
	"url": "https://lob-assets.com/postcards/psc_5c002b86ce47537a.pdf",
	"front_template_id": "tmpl_a1234dddg",
	"back_template_id": null,
	"front_template_version_id": "vrsn_362184d96d9b0c9",
	"back_template_version_id": null,
	"carrier": "USPS",
	"tracking_events": [{
		"id": "evnt_9e84094c9368cfb",
		"name": "In Transit",
		"location": "72231",
		"time": "2024-03-03T08:00:00.000Z",
		"date_created": "2024-03-03T08:00:00.000Z",
		"date_modified": "2024-03-03T08:00:00.000Z",
		"object": "tracking_event"
	}],
	"thumbnails": [{"large": "https://lob-assets.com/l.png", "medium": "https://lob-assets.com/m.png", "small": "https://lob-assets.com/s.png"}],
	"merge_variables": {"name": "Harry"},
	"size": "4x6",
	"mail_type": "usps_first_class",
	"expected_delivery_date": "2024-03-08",
	"date_created": "2024-03-01T18:52:52.893Z",
	"date_modified": "2024-03-01T18:52:52.893Z",
	"send_date": "2024-03-01T18:57:52.884Z",
	"object": "postcard"
}`

const letterJSON = `{
	"id": "ltr_4868c3b754655f90",
	"description": "Demo Letter",
	"metadata": {},
	"to": ` + addressJSON + `,
	"from": ` + addressJSON + `,
	"color": true,
	"double_sided": true,
	"address_placement": "top_first_page",
	"return_envelope": false,
	"perforated_page": null,
	"custom_envelope": null,
	"extra_service": "certified",
	"mail_type": "usps_first_class",
	"url": "https://lob-assets.com/letters/ltr_4868c3b754655f90.pdf",
	"merge_variables": null,
	"template_id": null,
	"template_version_id": null,
	"carrier": "USPS",
	"tracking_number": "92071902358909000000000000",
	"tracking_events": [],
	"thumbnails": [],
	"expected_delivery_date": "2024-03-08",
	"date_created": "2024-03-01T18:52:52.893Z",
	"date_modified": "2024-03-01T18:52:52.893Z",
	"send_date": "2024-03-01T18:57:52.884Z",
	"object": "letter"
}`

const checkJSON = `{
	"id": "chk_534f10783683daa0",
	"description": "Demo Check",
	"metadata": {},
	"check_number": 10062,
	"memo": "rent",
	"amount": 22.5,
	"message": "Thanks",
	"url": "https://lob-assets.com/checks/chk_534f10783683daa0.pdf",
	"check_bottom_template_id": null,
	"attachment_template_id": null,
	"check_bottom_template_version_id": null,
	"attachment_template_version_id": null,
	"to": ` + addressJSON + `,
	"from": ` + addressJSON + `,
	"bank_account": ` + bankAccountJSON + `,
	"carrier": "USPS",
	"tracking_number": null,
	"tracking_events": [],
	"thumbnails": [],
	"merge_variables": null,
	"expected_delivery_date": "2024-03-08T00:00:00.000Z",
	"mail_type": "usps_first_class",
	"date_created": "2024-03-01T18:52:52.893Z",
	"date_modified": "2024-03-01T18:52:52.893Z",
	"send_date": "2024-03-01T18:57:52.884Z",
	"object": "check"
}`

const usVerificationJSON = `{
	"id": "us_ver_c7cb63d68f8d6",
	"recipient": "LOB.COM",
	"primary_line": "210 KING ST STE 6100",
	"secondary_line": "",
	"urbanization": "",
	"last_line": "SAN FRANCISCO CA 94107-1728",
	"deliverability": "deliverable",
	"components": {
		"primary_number": "210",
		"street_predirection": "",
		"street_name": "KING",
		"street_suffix": "ST",
		"street_postdirection": "",
		"secondary_designator": "STE",
		"secondary_number": "6100",
		"pmb_designator": "",
		"pmb_number": "",
		"extra_secondary_designator": "",
		"extra_secondary_number": "",
		"city": "SAN FRANCISCO",
		"state": "CA",
		"zip_code": "94107",
		"zip_code_plus_4": "1728",
		"zip_code_type": "standard",
		"delivery_point_barcode": "941071728506",
		"address_type": "commercial",
		"record_type": "highrise",
		"default_building_address": false,
		"county": "SAN FRANCISCO",
		"county_fips": "06075",
		"carrier_route": "C032",
		"carrier_route_type": "contract",
		"latitude": 37.77597542841264,
		"longitude": -122.3929557343685
	},
	"deliverability_analysis": {
		"dpv_confirmation": "Y",
		"dpv_cmra": "N",
		"dpv_vacant": "N",
		"dpv_active": "Y",
		"dpv_footnotes": ["AA", "BB"],
		"ews_match": false,
		"lacs_indicator": "",
		"lacs_return_code": "",
		"suite_return_code": "00"
	},
	"object": "us_verification"
}`

const listEnvelope = `{"data": [%s], "object": "list", "next_url": %s, "previous_url": null, "count": %d}`

// newTestClient starts a fake API and a client pointed at it.
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient("test_key", zerolog.Nop(), WithBaseURL(server.URL+"/v1"))
	require.NoError(t, err)
	return client
}

// unreachableClient fails the test if any request is dispatched.
func unreachableClient(t *testing.T) *Client {
	t.Helper()
	return newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
	})
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}
