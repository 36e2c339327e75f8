package lob

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/lobster/wire"
)

func TestDecode_RejectsWrongObjectTag(t *testing.T) {
	tests := []struct {
		name   string
		target any
		data   string
	}{
		{"address as postcard", new(Postcard), addressJSON},
		{"postcard as letter", new(Letter), postcardJSON},
		{"letter as check", new(Check), letterJSON},
		{"bank account as address", new(Address), bankAccountJSON},
		{"missing tag", new(Address), `{"id": "adr_1", "address_line1": "1 MAIN"}`},
		{"verification as list", new(List[Address]), usVerificationJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := json.Unmarshal([]byte(tt.data), tt.target)
			require.Error(t, err)
			var mismatch *ObjectMismatchError
			assert.True(t, errors.As(err, &mismatch))
		})
	}
}

func TestEncode_AddsObjectTag(t *testing.T) {
	var addr Address
	require.NoError(t, json.Unmarshal([]byte(addressJSON), &addr))

	encoded := mustJSON(t, addr)
	assert.JSONEq(t, addressJSON, encoded)

	var again Address
	require.NoError(t, json.Unmarshal([]byte(encoded), &again))
	assert.Equal(t, addr, again)

	assert.JSONEq(t, `{"object": "envelope", "id": "env_1", "url": "https://x"}`,
		mustJSON(t, CustomEnvelope{ID: "env_1", URL: "https://x"}))
}

func TestPostcard_RoundTrip(t *testing.T) {
	var p Postcard
	require.NoError(t, json.Unmarshal([]byte(postcardJSON), &p))

	var again Postcard
	require.NoError(t, json.Unmarshal([]byte(mustJSON(t, p)), &again))
	assert.Equal(t, p, again)
}

func TestUSVerification_EmptyOptionalsStayEmpty(t *testing.T) {
	var v USVerification
	require.NoError(t, json.Unmarshal([]byte(usVerificationJSON), &v))

	var raw map[string]any
	require.NoError(t, json.Unmarshal([]byte(mustJSON(t, v)), &raw))
	assert.Equal(t, "", raw["secondary_line"])
	assert.Equal(t, "us_verification", raw["object"])

	analysis := raw["deliverability_analysis"].(map[string]any)
	assert.Equal(t, "", analysis["lacs_indicator"])
	assert.Equal(t, "Y", analysis["dpv_active"])
	assert.Equal(t, "00", analysis["suite_return_code"])
}

func TestEnums_RejectUnknownTokens(t *testing.T) {
	tests := []struct {
		name   string
		target any
		data   string
	}{
		{"mail type", new(MailType), `"usps_second_class"`},
		{"deliverability", new(Deliverability), `"maybe"`},
		{"carrier route", new(CarrierRouteType), `"boat"`},
		{"dpv code", new(DpvCode), `"ZZ"`},
		{"lacs", new(LacsReturnCode), `"99"`},
		{"event type", new(EventTypeID), `"postcard.exploded"`},
		{"resource", new(Resource), `"templates"`},
		{"postcard size", new(PostcardSize), `"5x7"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := json.Unmarshal([]byte(tt.data), tt.target)
			var decErr *wire.DecodeError
			require.True(t, errors.As(err, &decErr))
			assert.NotEmpty(t, decErr.Value)
		})
	}

	var route CarrierRouteType
	require.NoError(t, json.Unmarshal([]byte(`"contract"`), &route))
	assert.Equal(t, CarrierRouteContract, route)

	var lacs LacsReturnCode
	require.NoError(t, json.Unmarshal([]byte(`"92"`), &lacs))
	assert.Equal(t, LacsSecondaryDropped, lacs)
}

func TestOptionalEnum_RejectsUnknownToken(t *testing.T) {
	var v struct {
		Type wire.Optional[ZipCodeType] `json:"zip_code_type"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"zip_code_type": ""}`), &v))
	assert.False(t, v.Type.Valid())

	err := json.Unmarshal([]byte(`{"zip_code_type": "galactic"}`), &v)
	var decErr *wire.DecodeError
	require.True(t, errors.As(err, &decErr))
	assert.Equal(t, "galactic", decErr.Value)
}

func TestDate(t *testing.T) {
	d, err := ParseDate("2024-03-08")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-08", d.String())

	d, err = ParseDate("2024-03-08T14:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-08", d.String())

	_, err = ParseDate("March 8")
	assert.Error(t, err)

	assert.Equal(t, `"2024-03-08"`, mustJSON(t, d))
}
