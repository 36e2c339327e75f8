package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/lobster/filter"
	"github.com/s0up4200/lobster/lob"
	"github.com/s0up4200/lobster/output"
)

func init() {
	logger = zerolog.Nop()
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	pdf := filepath.Join(dir, "front.pdf")
	require.NoError(t, os.WriteFile(pdf, []byte("%PDF-1.4"), 0o600))

	tests := []struct {
		name  string
		value string
		want  lob.File
	}{
		{name: "empty", value: "", want: nil},
		{name: "upload", value: "@" + pdf, want: lob.Upload{Filename: "front.pdf", Data: []byte("%PDF-1.4")}},
		{name: "template", value: "tmpl_a1234dddg", want: lob.TemplateID("tmpl_a1234dddg")},
		{name: "remote", value: "https://example.com/back.pdf", want: lob.RemoteURL("https://example.com/back.pdf")},
		{name: "html", value: "<h1>Hi {{name}}</h1>", want: lob.HTML("<h1>Hi {{name}}</h1>")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseFile(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := parseFile("@" + filepath.Join(dir, "missing.pdf"))
	assert.Error(t, err)
}

func TestParseSendAddress(t *testing.T) {
	got, err := parseSendAddress(" adr_d3489cd64c791ab5 ")
	require.NoError(t, err)
	assert.Equal(t, lob.AddressID("adr_d3489cd64c791ab5"), got)

	got, err = parseSendAddress(`{"name":"Harry","address_line1":"210 King St","address_zip":"94107"}`)
	require.NoError(t, err)
	components, ok := got.(*lob.AddressComponents)
	require.True(t, ok, "got %T", got)
	assert.Equal(t, "210 King St", components.AddressLine1)

	path := filepath.Join(t.TempDir(), "to.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"address_line1":"185 Berry St"}`), 0o600))
	got, err = parseSendAddress("@" + path)
	require.NoError(t, err)
	assert.Equal(t, "185 Berry St", got.(*lob.AddressComponents).AddressLine1)

	got, err = parseSendAddress("")
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = parseSendAddress("210 King St")
	assert.Error(t, err)
}

func TestParseMetadata(t *testing.T) {
	md, err := parseMetadata([]string{"customer=42", "campaign=spring=2024"})
	require.NoError(t, err)
	assert.Equal(t, lob.Metadata{"customer": "42", "campaign": "spring=2024"}, md)

	md, err = parseMetadata(nil)
	require.NoError(t, err)
	assert.Nil(t, md)

	for _, bad := range []string{"customer", "=42"} {
		_, err := parseMetadata([]string{bad})
		assert.Error(t, err, bad)
	}
}

func TestParseMergeVariables(t *testing.T) {
	vars, err := parseMergeVariables(`{"name":"Harry","items":[1,2]}`)
	require.NoError(t, err)
	assert.Equal(t, "Harry", vars["name"])

	_, err = parseMergeVariables(`["not","an","object"]`)
	assert.Error(t, err)
}

func TestParseSendDate(t *testing.T) {
	got, err := parseSendDate("2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), *got)

	got, err = parseSendDate("2024-03-01T18:57:52Z")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 18, 57, 52, 0, time.UTC), got.UTC())

	_, err = parseSendDate("next tuesday")
	assert.Error(t, err)
}

func nextURL(after string) *string {
	s := "https://api.lob.com/v1/addresses?limit=2&after=" + after
	return &s
}

func TestFetchPages(t *testing.T) {
	pages := map[string]*lob.List[lob.Address]{
		"":   {Data: []lob.Address{{ID: "adr_1"}, {ID: "adr_2"}}, Count: 2, NextURL: nextURL("c2")},
		"c2": {Data: []lob.Address{{ID: "adr_3"}, {ID: "adr_4"}}, Count: 2, NextURL: nextURL("c3")},
		"c3": {Data: []lob.Address{{ID: "adr_5"}}, Count: 1},
	}

	var cursors []string
	fetch := func(after string) (*lob.List[lob.Address], error) {
		cursors = append(cursors, after)
		return pages[after], nil
	}

	t.Run("first page only", func(t *testing.T) {
		cursors = nil
		l, err := fetchPages(context.Background(), false, "", fetch)
		require.NoError(t, err)
		assert.Len(t, l.Data, 2)
		assert.Equal(t, "c2", l.NextCursor())
		assert.Equal(t, []string{""}, cursors)
	})

	t.Run("all pages", func(t *testing.T) {
		cursors = nil
		l, err := fetchPages(context.Background(), true, "", fetch)
		require.NoError(t, err)
		require.Len(t, l.Data, 5)
		assert.Equal(t, "adr_5", l.Data[4].ID)
		assert.Equal(t, 5, l.Count)
		assert.Empty(t, l.NextCursor())
		assert.Equal(t, []string{"", "c2", "c3"}, cursors)
	})

	t.Run("starting cursor", func(t *testing.T) {
		cursors = nil
		l, err := fetchPages(context.Background(), true, "c2", fetch)
		require.NoError(t, err)
		assert.Len(t, l.Data, 3)
		assert.Equal(t, []string{"c2", "c3"}, cursors)
	})

	t.Run("error on later page", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := fetchPages(context.Background(), true, "", func(after string) (*lob.List[lob.Address], error) {
			if after == "c2" {
				return nil, boom
			}
			return pages[after], nil
		})
		assert.ErrorIs(t, err, boom)
	})

	t.Run("canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := fetchPages(ctx, true, "", fetch)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestReadVerificationInputs(t *testing.T) {
	input := strings.Join([]string{
		"# customers",
		"185 Berry St Ste 6100, San Francisco CA 94107",
		"",
		`{"primary_line":"210 King St","zip_code":"94107"}`,
	}, "\n")

	inputs, err := readVerificationInputs(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, inputs, 2)
	assert.Equal(t, lob.AddressLine("185 Berry St Ste 6100, San Francisco CA 94107"), inputs[0])
	components, ok := inputs[1].(lob.USVerificationComponents)
	require.True(t, ok)
	assert.Equal(t, "210 King St", components.PrimaryLine)

	_, err = readVerificationInputs(strings.NewReader("{not json"))
	assert.ErrorContains(t, err, "line 1")
}

// runLobster executes the command tree against a fake Lob API
func runLobster(t *testing.T, handler http.HandlerFunc, args ...string) (string, error) {
	t.Helper()
	return runLobsterWithConfig(t, handler, "", args...)
}

// runLobsterWithConfig is runLobster with config.yaml in the working directory
func runLobsterWithConfig(t *testing.T, handler http.HandlerFunc, configYAML string, args ...string) (string, error) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	dir := t.TempDir()
	if configYAML != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(configYAML), 0o600))
	}
	t.Setenv("HOME", dir)
	t.Chdir(dir)
	t.Setenv("LOBSTER_LOB_API_KEY", "test_key")
	t.Setenv("LOBSTER_LOB_BASE_URL", server.URL+"/v1")
	t.Setenv("LOBSTER_LOGGING_LEVEL", "error")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func testAddress(id, city, state string) lob.Address {
	created := time.Date(2024, 1, 10, 18, 48, 21, 0, time.UTC)
	return lob.Address{
		ID:           id,
		AddressLine1: "210 KING ST",
		AddressCity:  &city,
		AddressState: &state,
		DateCreated:  created,
		DateModified: created,
	}
}

// addressPages serves adr_1 (SF) and adr_2 (Oakland) on the first page and
// adr_3 (SF) on the second.
func addressPages(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/addresses", r.URL.Path)
		switch r.URL.Query().Get("after") {
		case "":
			writeJSON(t, w, lob.List[lob.Address]{
				Data:    []lob.Address{testAddress("adr_1", "SAN FRANCISCO", "CA"), testAddress("adr_2", "OAKLAND", "CA")},
				Count:   2,
				NextURL: nextURL("c2"),
			})
		default:
			writeJSON(t, w, lob.List[lob.Address]{Data: []lob.Address{testAddress("adr_3", "SAN FRANCISCO", "CA")}, Count: 1})
		}
	}
}

func TestAddressesList_AllPagesFiltered(t *testing.T) {
	out, err := runLobster(t, addressPages(t), "addresses", "list", "--all", "-o", "json", "-f", `City == "SAN FRANCISCO"`)
	require.NoError(t, err)

	var got struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got), out)
	assert.Equal(t, 2, got.Count)
	require.Len(t, got.Data, 2)
	assert.Equal(t, "adr_1", got.Data[0].ID)
	assert.Equal(t, "adr_3", got.Data[1].ID)
}

func TestPostcardsCancel_Batch(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		id := strings.TrimPrefix(r.URL.Path, "/v1/postcards/")
		if id == "psc_sent" {
			w.WriteHeader(http.StatusUnprocessableEntity)
			fmt.Fprint(w, `{"error":{"message":"postcard has already been sent","status_code":422,"code":"invalid"}}`)
			return
		}
		writeJSON(t, w, lob.Deletion{ID: id, Deleted: true})
	}

	out, err := runLobster(t, handler, "postcards", "cancel", "--yes", "-o", "json", "psc_a", "psc_sent", "psc_b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 3 postcard cancellations failed")

	var report struct {
		Requested  int               `json:"requested"`
		Successful []string          `json:"successful"`
		Failed     map[string]string `json:"failed"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report), out)
	assert.Equal(t, 3, report.Requested)
	assert.Equal(t, []string{"psc_a", "psc_b"}, report.Successful)
	assert.Contains(t, report.Failed, "psc_sent")
}

func TestApplyFilter_AllMustMatch(t *testing.T) {
	previous := filters
	filters = filter.NewManager()
	t.Cleanup(func() {
		_ = filters.Close(context.Background())
		filters = previous
	})
	require.NoError(t, filters.RegisterFilter("sf", `City == "SAN FRANCISCO"`))

	l := &lob.List[lob.Address]{
		Data: []lob.Address{
			testAddress("adr_1", "SAN FRANCISCO", "CA"),
			testAddress("adr_2", "OAKLAND", "CA"),
			testAddress("adr_3", "SAN FRANCISCO", "CA"),
		},
		Count: 3,
	}

	got, err := applyFilter(context.Background(), l, []string{"sf", `ID != "adr_1"`}, filter.AddressRecord)
	require.NoError(t, err)
	require.Len(t, got.Data, 1)
	assert.Equal(t, "adr_3", got.Data[0].ID)
	assert.Equal(t, 1, got.Count)
	assert.Len(t, l.Data, 3, "input list is not modified")

	same, err := applyFilter(context.Background(), l, nil, filter.AddressRecord)
	require.NoError(t, err)
	assert.Same(t, l, same)

	_, err = applyFilter(context.Background(), l, []string{"sf", `City ==`}, filter.AddressRecord)
	assert.ErrorContains(t, err, "invalid filter")
}

const presetsConfig = `
filter:
  presets:
    sf: City == "SAN FRANCISCO"
    california: State == "CA"
    oakland: City == "OAKLAND"
`

func TestFilterList(t *testing.T) {
	unused := func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
	}

	out, err := runLobsterWithConfig(t, unused, presetsConfig, "filter", "list", "-o", "json")
	require.NoError(t, err)

	var presets []output.Preset
	require.NoError(t, json.Unmarshal([]byte(out), &presets), out)
	assert.Equal(t, []output.Preset{
		{Name: "california", Expression: `State == "CA"`},
		{Name: "oakland", Expression: `City == "OAKLAND"`},
		{Name: "sf", Expression: `City == "SAN FRANCISCO"`},
	}, presets)
}

func TestFilterCount(t *testing.T) {
	out, err := runLobsterWithConfig(t, addressPages(t), presetsConfig, "filter", "count", "addresses", "-o", "json")
	require.NoError(t, err)

	var counts output.FilterCounts
	require.NoError(t, json.Unmarshal([]byte(out), &counts), out)
	assert.Equal(t, "addresses", counts.Resource)
	assert.Equal(t, 3, counts.Records)
	assert.Equal(t, map[string]int{"sf": 2, "california": 3, "oakland": 1}, counts.Matches)
}
