package filter

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/lobster/lob"
)

func ptr[T any](v T) *T { return &v }

func testPostcards(count int) []lob.Postcard {
	states := []string{"CA", "NY", "TX"}
	postcards := make([]lob.Postcard, count)
	for i := range postcards {
		postcards[i] = lob.Postcard{
			ID: fmt.Sprintf("psc_%04d", i),
			To: lob.Address{
				ID:           fmt.Sprintf("adr_%04d", i),
				Name:         ptr(fmt.Sprintf("Recipient %d", i)),
				AddressLine1: "185 Berry St",
				AddressState: ptr(states[i%3]),
			},
			MailType:    []lob.MailType{lob.MailTypeUSPSFirstClass, lob.MailTypeUSPSStandard}[i%2],
			Size:        lob.PostcardSize4x6,
			DateCreated: time.Now().AddDate(0, 0, -i),
		}
		if i%5 == 0 {
			postcards[i].Metadata = lob.Metadata{"campaign": "spring"}
		}
	}
	return postcards
}

func TestCompileFilter(t *testing.T) {
	tests := []struct {
		name        string
		expression  string
		wantErr     bool
		errContains string
	}{
		{name: "metadata helper", expression: `hasMetadata("campaign")`},
		{name: "field comparison", expression: `MailType == "usps_first_class" and ToState == "CA"`},
		{name: "date helpers", expression: `DateCreated > daysAgo(7) and not isZero(DateCreated)`},
		{name: "empty expression", expression: "   ", wantErr: true, errContains: "empty expression"},
		{name: "invalid syntax", expression: `hasMetadata("unclosed`, wantErr: true},
		{name: "not boolean", expression: `metadata("campaign")`, wantErr: true},
		{name: "wrong helper argument", expression: `hasMetadata(42)`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, err := CompileFilter(tt.expression)
			if tt.wantErr {
				require.Error(t, err)
				var compErr *CompilationError
				assert.ErrorAs(t, err, &compErr)
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expression, filter.Expression())
		})
	}
}

func TestFilterMatch(t *testing.T) {
	check := &lob.Check{
		ID:          "chk_1",
		Amount:      lob.NewMoney(250, 50),
		CheckNumber: 10042,
		To:          lob.Address{AddressState: ptr("NY")},
		BankAccount: lob.BankAccount{ID: "bank_1"},
		MailType:    lob.MailTypeUSPSFirstClass,
		Metadata:    lob.Metadata{"invoice": "INV-7"},
		DateCreated: time.Now().AddDate(0, 0, -3),
	}
	letter := &lob.Letter{
		ID:           "ltr_1",
		Color:        true,
		ExtraService: ptr(lob.ExtraServiceCertified),
		Deleted:      ptr(true),
		DateCreated:  time.Now().AddDate(0, -2, 0),
	}
	account := &lob.BankAccount{ID: "bank_2", BankName: "Example Bank", AccountType: lob.AccountCompany}

	tests := []struct {
		name       string
		expression string
		record     Record
		expected   bool
	}{
		{"check amount in dollars", `Amount > 250.0 and Amount < 251`, CheckRecord(check), true},
		{"check amount in cents", `AmountCents == 25050`, CheckRecord(check), true},
		{"metadata value", `metadata("invoice") == "INV-7"`, CheckRecord(check), true},
		{"metadata map", `Metadata.invoice startsWith "INV"`, CheckRecord(check), true},
		{"missing metadata", `hasMetadata("campaign")`, CheckRecord(check), false},
		{"kind helper", `isKind("CHECK") and BankAccount == "bank_1"`, CheckRecord(check), true},
		{"recipient state", `ToState == "NY"`, CheckRecord(check), true},
		{"recent", `DateCreated > daysAgo(7)`, CheckRecord(check), true},
		{"letter flags", `Color and ExtraService == "certified" and Deleted`, LetterRecord(letter), true},
		{"letter age", `DateCreated < monthsAgo(1)`, LetterRecord(letter), true},
		{"case-insensitive contains", `icontains(BankName, "example")`, BankAccountRecord(account), true},
		{"field of another kind never matches", `Amount > 0`, BankAccountRecord(account), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, err := CompileFilter(tt.expression)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, filter.Match(tt.record))
		})
	}
}

func TestEvalReportsRuntimeErrors(t *testing.T) {
	filter, err := CompileFilter(`Amount > 0`)
	require.NoError(t, err)

	_, err = filter.Eval(AddressRecord(&lob.Address{ID: "adr_1"}))
	require.Error(t, err)

	var evalErr *EvaluationError
	require.True(t, errors.As(err, &evalErr))
	assert.Equal(t, "adr_1", evalErr.RecordID)
	assert.Equal(t, "address", evalErr.Kind)
}

func TestConcurrentEvaluationKeepsOrder(t *testing.T) {
	postcards := testPostcards(1000)
	records := Records(postcards, PostcardRecord)

	filter, err := CompileFilter(`MailType == "usps_first_class" and ToState != "TX"`)
	require.NoError(t, err)

	evaluator := NewConcurrentEvaluator(WithWorkers(4), WithBatchSize(50))
	defer evaluator.Stop(context.Background())

	matches, err := evaluator.Evaluate(context.Background(), filter, records)
	require.NoError(t, err)

	var expected []string
	for _, r := range records {
		if filter.Match(r) {
			expected = append(expected, r.ID)
		}
	}
	got := make([]string, len(matches))
	for i, r := range matches {
		got[i] = r.ID
	}
	assert.NotEmpty(t, expected)
	assert.Equal(t, expected, got)
}

func TestEvaluateCanceledContext(t *testing.T) {
	records := Records(testPostcards(500), PostcardRecord)
	filter, err := CompileFilter(`true`)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	evaluator := NewConcurrentEvaluator(WithWorkers(2), WithBatchSize(10))
	defer evaluator.Stop(context.Background())

	_, err = evaluator.Evaluate(ctx, filter, records)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSelect(t *testing.T) {
	postcards := testPostcards(20)
	filter, err := CompileFilter(`hasMetadata("campaign")`)
	require.NoError(t, err)

	evaluator := NewConcurrentEvaluator(WithWorkers(1))
	defer evaluator.Stop(context.Background())

	selected, err := Select(context.Background(), evaluator, filter, postcards, PostcardRecord)
	require.NoError(t, err)

	ids := make([]string, len(selected))
	for i, p := range selected {
		ids[i] = p.ID
	}
	assert.Equal(t, []string{"psc_0000", "psc_0005", "psc_0010", "psc_0015"}, ids)
}

func TestFilterManager(t *testing.T) {
	manager := NewManager(WithEvaluator(NewConcurrentEvaluator(WithWorkers(2))))
	defer manager.Close(context.Background())
	ctx := context.Background()

	err := manager.RegisterFilters(map[string]string{
		"first-class": `MailType == "usps_first_class"`,
		"campaign":    `hasMetadata("campaign")`,
		"california":  `ToState == "CA"`,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"california", "campaign", "first-class"}, manager.ListFilters())

	records := Records(testPostcards(30), PostcardRecord)

	campaign, ok := manager.GetFilter("campaign")
	require.True(t, ok)
	matches, err := manager.Evaluate(ctx, campaign, records)
	require.NoError(t, err)
	assert.Len(t, matches, 6)

	all, err := manager.EvaluateAll(ctx, records)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Len(t, all["first-class"], 15)
	assert.Len(t, all["california"], 10)

	selected, err := manager.EvaluateSelected(ctx, []string{"california"}, records)
	require.NoError(t, err)
	assert.Len(t, selected, 1)

	_, err = manager.EvaluateSelected(ctx, []string{"nope"}, records)
	var unknown *UnknownFilterError
	assert.ErrorAs(t, err, &unknown)

	resolved, err := manager.Resolve("campaign")
	require.NoError(t, err)
	assert.Equal(t, `hasMetadata("campaign")`, resolved.Expression())

	adhoc, err := manager.Resolve(`Size == "4x6"`)
	require.NoError(t, err)
	assert.True(t, adhoc.Match(records[0]))

	_, exists := manager.GetFilter("missing")
	assert.False(t, exists)
}

func TestRegisterFiltersIsAllOrNothing(t *testing.T) {
	manager := NewManager()
	defer manager.Close(context.Background())

	err := manager.RegisterFilters(map[string]string{
		"good": `Deleted`,
		"bad":  `Deleted ==`,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"bad"`)
	assert.Empty(t, manager.ListFilters())
}

func TestCompilerCache(t *testing.T) {
	compiler := NewExprCompiler(WithCache(2))
	caching, ok := compiler.(CachingCompiler)
	require.True(t, ok)

	first, err := compiler.Compile(`Deleted`)
	require.NoError(t, err)
	again, err := compiler.Compile(`  Deleted  `)
	require.NoError(t, err)
	assert.Same(t, first, again)
	assert.Equal(t, 1, caching.Size())

	_, err = compiler.Compile(`not Deleted`)
	require.NoError(t, err)
	_, err = compiler.Compile(`Kind == "postcard"`)
	require.NoError(t, err)
	assert.Equal(t, 2, caching.Size())

	// The least recently used entry was evicted.
	evicted, err := compiler.Compile(`Deleted`)
	require.NoError(t, err)
	assert.NotSame(t, first, evicted)

	caching.Clear()
	assert.Equal(t, 0, caching.Size())
}

func TestCustomFunctions(t *testing.T) {
	compiler := NewExprCompiler(WithCustomFunctions(map[string]any{
		"isWestCoast": func(state string) bool { return state == "CA" || state == "OR" || state == "WA" },
	}))

	filter, err := compiler.Compile(`isWestCoast(ToState)`)
	require.NoError(t, err)

	records := Records(testPostcards(3), PostcardRecord)
	assert.True(t, filter.Match(records[0]))
	assert.False(t, filter.Match(records[1]))
}

func TestWorkerPoolStop(t *testing.T) {
	pool := NewWorkerPool(2)
	done := make(chan struct{})
	require.NoError(t, pool.Submit(context.Background(), func() { close(done) }))
	<-done

	require.NoError(t, pool.Stop(context.Background()))
	assert.ErrorIs(t, pool.Submit(context.Background(), func() {}), ErrPoolStopped)
}
