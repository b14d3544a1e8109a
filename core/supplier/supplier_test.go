package supplier

import (
	"context"
	"errors"
	"testing"
	"time"

	"parts-manager/core/metrics"
	"parts-manager/core/reconcile"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeDigiKey struct {
	resp *DigiKeySearchResponse
	err  error
	got  []string
}

func (f *fakeDigiKey) KeywordSearch(_ context.Context, keywords, partType, packageType string) (*DigiKeySearchResponse, error) {
	f.got = []string{keywords, partType, packageType}
	return f.resp, f.err
}

type fakeMouser struct {
	parts []MouserPart
	err   error
	delay time.Duration
}

func (f *fakeMouser) GetParts(ctx context.Context, _, _, _ string) ([]MouserPart, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.parts, f.err
}

type fakeOctopart struct {
	urls []string
	err  error
}

func (f *fakeOctopart) GetDatasheets(context.Context, string) ([]string, error) {
	return f.urls, f.err
}

type panicSource struct{}

func (panicSource) Supplier() reconcile.Supplier { return reconcile.SupplierMouser }

func (panicSource) Fetch(context.Context, Query) ([]reconcile.Candidate, error) {
	panic("boom")
}

// stallingSource ignores ctx and answers only after delay.
type stallingSource struct {
	delay time.Duration
}

func (stallingSource) Supplier() reconcile.Supplier { return reconcile.SupplierMouser }

func (s stallingSource) Fetch(context.Context, Query) ([]reconcile.Candidate, error) {
	time.Sleep(s.delay)
	return []reconcile.Candidate{{Supplier: reconcile.SupplierMouser}}, nil
}

func digikeyResponse() *DigiKeySearchResponse {
	resp := &DigiKeySearchResponse{
		Products: []DigiKeyProduct{
			{
				DigiKeyPartNumber:      "1276-1119-1-ND",
				ManufacturerPartNumber: "CL10A106KP8NNNC",
				Manufacturer:           DigiKeyManufacturer{Value: "Samsung"},
				ProductDescription:     "CAP CER 10UF 10V X5R 0603",
				PrimaryDatasheet:       " https://example.com/cl10.pdf ",
				QuantityAvailable:      1200,
				UnitPrice:              decimal.NewNullDecimal(decimal.RequireFromString("0.10")),
				Parameters: []DigiKeyParameter{
					{Parameter: "package / case", Value: "0603 (1608 Metric)"},
					{Parameter: "Package / Case", Value: "ignored"},
					{Parameter: "Mounting Type", Value: "Surface Mount"},
					{Parameter: "Base Part Number", Value: "CL10A106"},
					{Parameter: "Tolerance", Value: "10%"},
				},
			},
			{DigiKeyPartNumber: "NO-PRICE"},
		},
	}
	resp.SearchLocaleUsed.Currency = "USD"
	return resp
}

func TestTranslateDigiKey(t *testing.T) {
	got := TranslateDigiKey(digikeyResponse())
	require.Len(t, got, 2)

	c := got[0]
	assert.Equal(t, reconcile.SupplierDigiKey, c.Supplier)
	assert.Equal(t, "Samsung", c.Manufacturer)
	assert.Equal(t, "https://example.com/cl10.pdf", c.DatasheetURL)
	require.NotNil(t, c.AvailableQuantity)
	assert.Equal(t, int64(1200), *c.AvailableQuantity)
	assert.Equal(t, "USD", c.Currency)
	assert.Equal(t, "0603 (1608 Metric)", c.Attributes.Get(reconcile.AttrPackageCase))
	assert.Equal(t, "Surface Mount", c.Attributes.Get(reconcile.AttrMountingType))
	assert.Equal(t, "CL10A106", c.Attributes.Get(reconcile.AttrBasePartNumber))
	assert.Len(t, c.Attributes, 3)

	assert.False(t, got[1].UnitPrice.Valid)
	assert.Empty(t, got[1].Currency)

	assert.Nil(t, TranslateDigiKey(nil))
}

func TestTranslateMouser(t *testing.T) {
	parts := []MouserPart{
		{
			MouserPartNumber: "187-CL10A106KP8NNNC",
			DataSheetURL:     "https://example.com/m.pdf",
			Availability:     "12,500 In Stock",
			LifecycleStatus:  "New Product",
			PriceBreaks: []MouserPriceBreak{
				{Quantity: 10, Price: "$0.08", Currency: "USD"},
				{Quantity: 1, Price: "N/A", Currency: "USD"},
				{Quantity: 100, Price: "0,05 €", Currency: "EUR"},
			},
		},
		{MouserPartNumber: "NONE", Availability: "On Order"},
	}

	got := TranslateMouser(parts)
	require.Len(t, got, 2)

	c := got[0]
	assert.Equal(t, reconcile.SupplierMouser, c.Supplier)
	assert.Equal(t, "New Product", c.Status)
	require.NotNil(t, c.AvailableQuantity)
	assert.Equal(t, int64(12500), *c.AvailableQuantity)
	require.Len(t, c.PriceBreaks, 2)
	assert.True(t, c.PriceBreaks[0].Price.Equal(decimal.RequireFromString("0.08")))
	assert.True(t, c.PriceBreaks[1].Price.Equal(decimal.RequireFromString("0.05")))
	assert.Empty(t, c.Attributes)

	assert.Nil(t, got[1].AvailableQuantity)
	assert.Empty(t, got[1].PriceBreaks)
}

func TestTranslateDigiKey_NoCurrencyDropsPrice(t *testing.T) {
	resp := digikeyResponse()
	resp.SearchLocaleUsed.Currency = ""

	got := TranslateDigiKey(resp)
	require.Len(t, got, 2)
	assert.False(t, got[0].UnitPrice.Valid)
	assert.Empty(t, got[0].Currency)
}

func TestTranslateMouser_ThousandsAndCurrency(t *testing.T) {
	got := TranslateMouser([]MouserPart{{
		MouserPartNumber: "80-C0603C106K8PAC",
		PriceBreaks: []MouserPriceBreak{
			{Quantity: 1, Price: "1.234,50 €", Currency: "EUR"},
			{Quantity: 5, Price: "$1,250", Currency: "USD"},
			{Quantity: 10, Price: "$0.50"},
		},
	}})
	require.Len(t, got, 1)
	require.Len(t, got[0].PriceBreaks, 2)
	assert.True(t, got[0].PriceBreaks[0].Price.Equal(decimal.RequireFromString("1234.50")))
	assert.True(t, got[0].PriceBreaks[1].Price.Equal(decimal.RequireFromString("1250")))

	dk := reconcile.Candidate{
		Supplier:  reconcile.SupplierDigiKey,
		UnitPrice: decimal.NewNullDecimal(decimal.RequireFromString("2")),
		Currency:  "EUR",
	}
	lc, ok := reconcile.ResolveLowestCost(reconcile.Selected(dk), reconcile.Selected(got[0]), reconcile.CostPolicyNoneWithoutPrice)
	require.True(t, ok)
	assert.Equal(t, reconcile.SupplierDigiKey, lc.Supplier)
}

func TestAdapters_NotConfigured(t *testing.T) {
	ctx := context.Background()

	_, err := NewDigiKey(nil).Fetch(ctx, Query{PartNumber: "x"})
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = NewMouser(nil).Fetch(ctx, Query{PartNumber: "x"})
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = NewOctopart(nil).FetchDatasheets(ctx, "x")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestDigiKey_ForwardsHints(t *testing.T) {
	api := &fakeDigiKey{resp: digikeyResponse()}
	_, err := NewDigiKey(api).Fetch(context.Background(), Query{PartNumber: "CL10", PartType: "Capacitor", Package: "0603"})
	require.NoError(t, err)
	assert.Equal(t, []string{"CL10", "Capacitor", "0603"}, api.got)
}

func TestGather(t *testing.T) {
	set := Set{
		Primary:    NewDigiKey(&fakeDigiKey{resp: digikeyResponse()}),
		Secondary:  NewMouser(&fakeMouser{parts: []MouserPart{{MouserPartNumber: "M1"}}}),
		Datasheets: NewOctopart(&fakeOctopart{urls: []string{"https://example.com/o.pdf"}}),
	}

	res, err := Gather(context.Background(), set, Query{PartNumber: "CL10"}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "CL10", res.Sources.PartNumber)
	assert.Len(t, res.Sources.Primary, 2)
	assert.Len(t, res.Sources.Secondary, 1)
	assert.Equal(t, []string{"https://example.com/o.pdf"}, res.Sources.Datasheets)
	assert.Equal(t, 3, res.Configured)
	assert.Empty(t, res.Failures)
	assert.False(t, res.AllFailed())
	assert.NoError(t, res.Err())
}

func TestGather_PartialFailureDegrades(t *testing.T) {
	boom := errors.New("upstream 503")
	set := Set{
		Primary:    NewDigiKey(&fakeDigiKey{err: boom}),
		Secondary:  NewMouser(&fakeMouser{parts: []MouserPart{{MouserPartNumber: "M1"}}}),
		Datasheets: NewOctopart(nil),
	}

	res, err := Gather(context.Background(), set, Query{PartNumber: "CL10"}, nil)
	require.NoError(t, err)
	assert.Empty(t, res.Sources.Primary)
	assert.Len(t, res.Sources.Secondary, 1)
	assert.Equal(t, 2, res.Configured)
	require.Contains(t, res.Failures, reconcile.SupplierDigiKey)
	assert.ErrorIs(t, res.Failures[reconcile.SupplierDigiKey], boom)
	assert.False(t, res.AllFailed())
	assert.ErrorIs(t, res.Err(), boom)
}

func TestGather_AllConfiguredFail(t *testing.T) {
	set := Set{
		Primary:   NewDigiKey(&fakeDigiKey{err: errors.New("a")}),
		Secondary: panicSource{},
	}

	res, err := Gather(context.Background(), set, Query{PartNumber: "X"}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Configured)
	assert.True(t, res.AllFailed())
	assert.Contains(t, res.Err().Error(), "panicked")
}

func TestGather_NothingConfigured(t *testing.T) {
	set := Set{
		Primary:    NewDigiKey(nil),
		Secondary:  NewMouser(nil),
		Datasheets: NewOctopart(nil),
	}

	res, err := Gather(context.Background(), set, Query{PartNumber: "X"}, zap.NewNop())
	require.NoError(t, err)
	assert.Zero(t, res.Configured)
	assert.False(t, res.AllFailed())
	assert.Empty(t, res.Sources.Primary)
	assert.Empty(t, res.Sources.Datasheets)

	res, err = Gather(context.Background(), Set{}, Query{PartNumber: "X"}, zap.NewNop())
	require.NoError(t, err)
	assert.Zero(t, res.Configured)
}

func TestGather_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	set := Set{Secondary: NewMouser(&fakeMouser{delay: time.Second})}
	_, err := Gather(ctx, set, Query{PartNumber: "X"}, zap.NewNop())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestGather_DeadlineAbandonsStalledSource(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	set := Set{
		Primary:   NewDigiKey(&fakeDigiKey{resp: digikeyResponse()}),
		Secondary: stallingSource{delay: 2 * time.Second},
	}

	started := time.Now()
	res, err := Gather(ctx, set, Query{PartNumber: "CL10"}, zap.NewNop())
	assert.Less(t, time.Since(started), time.Second)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	assert.Len(t, res.Sources.Primary, 2)
	assert.Empty(t, res.Sources.Secondary)
	assert.Equal(t, 2, res.Configured)
	require.Contains(t, res.Failures, reconcile.SupplierMouser)
	assert.ErrorIs(t, res.Failures[reconcile.SupplierMouser], context.DeadlineExceeded)
	assert.NotContains(t, res.Failures, reconcile.SupplierDigiKey)
	assert.False(t, res.AllFailed())
}

func TestNewSet(t *testing.T) {
	ctx := context.Background()
	dk := &fakeDigiKey{resp: digikeyResponse()}
	ms := &fakeMouser{parts: []MouserPart{{MouserPartNumber: "M1"}}}
	op := &fakeOctopart{urls: []string{"https://example.com/o.pdf"}}

	set := NewSet(Config{DigiKeyEnabled: true, MouserEnabled: false, OctopartEnabled: true}, dk, ms, op)

	res, err := Gather(ctx, set, Query{PartNumber: "CL10"}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Configured)
	assert.Len(t, res.Sources.Primary, 2)
	assert.Empty(t, res.Sources.Secondary)
	assert.Len(t, res.Sources.Datasheets, 1)
}

func TestGather_Metrics(t *testing.T) {
	notConfigured := metrics.SupplierFetchesTotal.WithLabelValues(string(reconcile.SupplierOctopart), metrics.OutcomeNotConfigured)
	failed := metrics.SupplierFetchesTotal.WithLabelValues(string(reconcile.SupplierDigiKey), metrics.OutcomeError)
	listings := metrics.SupplierListings.WithLabelValues(string(reconcile.SupplierMouser))

	beforeNotConfigured := testutil.ToFloat64(notConfigured)
	beforeFailed := testutil.ToFloat64(failed)
	beforeListings := testutil.ToFloat64(listings)

	set := Set{
		Primary:    NewDigiKey(&fakeDigiKey{err: errors.New("x")}),
		Secondary:  NewMouser(&fakeMouser{parts: []MouserPart{{}, {}, {}}}),
		Datasheets: NewOctopart(nil),
	}
	_, err := Gather(context.Background(), set, Query{PartNumber: "X"}, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, beforeNotConfigured+1, testutil.ToFloat64(notConfigured))
	assert.Equal(t, beforeFailed+1, testutil.ToFloat64(failed))
	assert.Equal(t, beforeListings+3, testutil.ToFloat64(listings))
}
