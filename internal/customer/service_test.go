package customer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/policy-tracker/internal/lifecycle"
	"github.com/a3tai/policy-tracker/internal/pdf"
	"github.com/a3tai/policy-tracker/internal/policy"
	"github.com/a3tai/policy-tracker/internal/storage"
)

type fakeSource struct {
	pages []string
	err   error
	calls int
}

func (f *fakeSource) ExtractText(_ context.Context, path string) (*pdf.TextResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &pdf.TextResult{Path: path, PageCount: len(f.pages), Pages: f.pages}, nil
}

func fixedNow(s string) func() time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return t }
}

func newTestService(t *testing.T, source TextSource) (*Service, *storage.Store) {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "customers.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	svc, err := NewService(Options{
		Store:     store,
		Source:    source,
		Companies: []string{"Allianz", "Diğer"},
		Now:       fixedNow("2024-06-01"),
	})
	require.NoError(t, err)
	return svc, store
}

func TestNewService_RequiresStore(t *testing.T) {
	_, err := NewService(Options{})
	assert.Error(t, err)
}

func TestImportPDF(t *testing.T) {
	source := &fakeSource{pages: []string{
		"SİGORTA ETTİREN: JOHN SMITH",
		"Poliçe No: 123456 ... 01.01.2024 31.12.2024 ... TRAFİK SİGORTASI",
	}}
	svc, store := newTestService(t, source)

	rec, err := svc.ImportPDF(context.Background(), "policy.pdf")
	require.NoError(t, err)

	assert.Equal(t, "JOHN SMITH", rec.FullName)
	assert.Equal(t, "123456", rec.PolicyNo)
	assert.Equal(t, "01.01.2024", rec.PolicyStart)
	assert.Equal(t, "31.12.2024", rec.PolicyEnd)
	assert.Equal(t, policy.TypeTraffic, rec.InsuranceType)

	// import never stores anything
	all, err := store.FetchAll(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestImportPDF_InputErrorAborts(t *testing.T) {
	inputErr := &pdf.ExtractionInputError{Path: "bad.pdf", Op: "validate", Err: errors.New("corrupt")}
	svc, _ := newTestService(t, &fakeSource{err: inputErr})

	rec, err := svc.ImportPDF(context.Background(), "bad.pdf")
	require.Error(t, err)

	var target *pdf.ExtractionInputError
	assert.True(t, errors.As(err, &target))
	assert.Equal(t, policy.Record{}, rec)
}

func TestImportPDF_NoSource(t *testing.T) {
	svc, _ := newTestService(t, nil)

	_, err := svc.ImportPDF(context.Background(), "x.pdf")
	assert.ErrorIs(t, err, ErrNoTextSource)
}

func TestImportPDF_RealFileRejected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.pdf")
	require.NoError(t, os.WriteFile(path, []byte("not a pdf"), 0o600))

	source, err := pdf.NewService(1024*1024, dir, nil)
	require.NoError(t, err)
	svc, _ := newTestService(t, source)

	_, err = svc.ImportPDF(context.Background(), path)
	var target *pdf.ExtractionInputError
	require.True(t, errors.As(err, &target))
}

func TestSave_NormalizesAndTrims(t *testing.T) {
	svc, store := newTestService(t, nil)
	ctx := context.Background()

	id, err := svc.Save(ctx, policy.Record{
		FullName:    "  AYŞE KAYA ",
		NationalID:  "12345678901",
		PolicyStart: "01.01.2024",
		PolicyEnd:   "15 Mart 2025",
	})
	require.NoError(t, err)

	raw, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "AYŞE KAYA", raw.FullName)
	assert.Equal(t, "2024-01-01", raw.PolicyStart)
	assert.Equal(t, "2025-03-15", raw.PolicyEnd)

	shown, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "01.01.2024", shown.PolicyStart)
	assert.Equal(t, "15.03.2025", shown.PolicyEnd)
}

func TestSave_UnreadableDateStoredEmpty(t *testing.T) {
	svc, store := newTestService(t, nil)
	ctx := context.Background()

	id, err := svc.Save(ctx, policy.Record{FullName: "X", PolicyEnd: "??.??"})
	require.NoError(t, err)

	raw, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, raw.PolicyEnd)
}

func TestSave_RejectsBadNationalID(t *testing.T) {
	svc, store := newTestService(t, nil)
	ctx := context.Background()

	for _, id := range []string{"1234567****", "123", "1234567890a"} {
		_, err := svc.Save(ctx, policy.Record{FullName: "X", NationalID: id})
		var verr *policy.ValidationError
		require.True(t, errors.As(err, &verr), id)
		assert.Equal(t, "national_id", verr.Field)
	}

	all, err := store.FetchAll(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSave_AcceptsSpacedNationalID(t *testing.T) {
	svc, _ := newTestService(t, nil)

	_, err := svc.Save(context.Background(), policy.Record{NationalID: "123 4567 8901"})
	assert.NoError(t, err)
}

func TestUpdate(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	id, err := svc.Save(ctx, policy.Record{FullName: "ESKİ", PolicyEnd: "01.01.2030"})
	require.NoError(t, err)

	require.NoError(t, svc.Update(ctx, id, policy.Record{FullName: "YENİ", PolicyEnd: "2031-02-03"}))

	got, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "YENİ", got.FullName)
	assert.Equal(t, "03.02.2031", got.PolicyEnd)

	err = svc.Update(ctx, id+100, policy.Record{FullName: "YOK"})
	assert.ErrorIs(t, err, storage.ErrNotFound)

	err = svc.Update(ctx, id, policy.Record{NationalID: "12"})
	var verr *policy.ValidationError
	assert.True(t, errors.As(err, &verr))
}

func TestDelete(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	id, err := svc.Save(ctx, policy.Record{FullName: "SİLİNECEK"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, id))
	assert.ErrorIs(t, svc.Delete(ctx, id), storage.ErrNotFound)
}

func TestList_GroupsByExpiry(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	// today is 2024-06-01
	records := []policy.Record{
		{FullName: "GÜNCEL", PolicyEnd: "01.01.2025"},
		{FullName: "YAKIN", PolicyEnd: "01.07.2024"},
		{FullName: "BUGÜN", PolicyEnd: "01.06.2024"},
		{FullName: "BİTMİŞ", PolicyEnd: "31.05.2024"},
		{FullName: "TARİHSİZ"},
	}
	for _, r := range records {
		_, err := svc.Save(ctx, r)
		require.NoError(t, err)
	}

	listing, err := svc.List(ctx, "")
	require.NoError(t, err)

	assert.Equal(t, "01.06.2024", listing.Today)
	assert.Equal(t, lifecycle.DefaultWindowDays, listing.WindowDays)
	assert.Equal(t, 5, listing.Buckets.Len())

	names := func(rows []policy.Stored) []string {
		var out []string
		for _, r := range rows {
			out = append(out, r.FullName)
		}
		return out
	}
	assert.Equal(t, []string{"GÜNCEL", "TARİHSİZ"}, names(listing.Buckets.Active))
	assert.Equal(t, []string{"YAKIN", "BUGÜN"}, names(listing.Buckets.ExpiringSoon))
	assert.Equal(t, []string{"BİTMİŞ"}, names(listing.Buckets.Expired))
	assert.Equal(t, "01.07.2024", listing.Buckets.ExpiringSoon[0].PolicyEnd)
}

func TestList_Filter(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	for _, n := range []string{"ALİ VELİ", "ayşe ali", "MEHMET"} {
		_, err := svc.Save(ctx, policy.Record{FullName: n})
		require.NoError(t, err)
	}

	listing, err := svc.List(ctx, "ALI")
	require.NoError(t, err)
	assert.Equal(t, 2, listing.Buckets.Len())
}

func TestCompanies_ReturnsCopy(t *testing.T) {
	svc, _ := newTestService(t, nil)

	got := svc.Companies()
	assert.Equal(t, []string{"Allianz", "Diğer"}, got)

	got[0] = "changed"
	assert.Equal(t, "Allianz", svc.Companies()[0])
}
