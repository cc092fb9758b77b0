package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/policy-tracker/internal/policy"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "data", "test.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleRecord(name string) policy.Record {
	return policy.Record{
		FullName:      name,
		NationalID:    "12345678901",
		Phone:         "05551112233",
		LicenseNo:     "AB123456",
		Plate:         "34ABC123",
		PolicyNo:      "778899",
		Company:       "Allianz",
		InsuranceType: policy.TypeKasko,
		PolicyStart:   "2024-01-01",
		PolicyEnd:     "2025-01-01",
	}
}

func TestOpen_EmptyPath(t *testing.T) {
	_, err := Open("", nil)
	assert.Error(t, err)
}

func TestInsertAndGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.Insert(ctx, sampleRecord("AYŞE YILMAZ"))
	require.NoError(t, err)
	assert.NotZero(t, id)

	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, sampleRecord("AYŞE YILMAZ"), got.Record)
}

func TestFetchAll_InsertionOrder(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	names := []string{"ZEYNEP", "ALİ", "MEHMET"}
	for _, n := range names {
		_, err := s.Insert(ctx, sampleRecord(n))
		require.NoError(t, err)
	}

	all, err := s.FetchAll(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	for i, n := range names {
		assert.Equal(t, n, all[i].FullName)
	}
	assert.Less(t, all[0].ID, all[1].ID)
}

func TestFetchAll_Filter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, n := range []string{"ALİ VELİ", "Alı Kaya", "ALI DEMIR", "Şule Işık", "MEHMET"} {
		_, err := s.Insert(ctx, sampleRecord(n))
		require.NoError(t, err)
	}

	tests := []struct {
		filter string
		want   int
	}{
		{"ali", 3},
		{"ALİ", 3},
		{"  veli ", 1},
		{"şule", 1},
		{"IŞIK", 1},
		{"met", 1},
		{"nobody", 0},
	}

	for _, tt := range tests {
		t.Run(tt.filter, func(t *testing.T) {
			got, err := s.FetchAll(ctx, tt.filter)
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestUpdate_ReplacesAllFields(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.Insert(ctx, sampleRecord("ESKİ AD"))
	require.NoError(t, err)

	replacement := policy.Record{FullName: "YENİ AD", InsuranceType: policy.TypeDASK}
	require.NoError(t, s.Update(ctx, id, replacement))

	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, replacement, got.Record)
}

func TestUpdateAndDelete_NotFound(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	err := s.Update(ctx, 42, sampleRecord("X"))
	assert.True(t, errors.Is(err, ErrNotFound))

	err = s.Delete(ctx, 42)
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = s.Get(ctx, 42)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestDelete(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	keep, err := s.Insert(ctx, sampleRecord("KALAN"))
	require.NoError(t, err)
	gone, err := s.Insert(ctx, sampleRecord("GİDEN"))
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, gone))

	all, err := s.FetchAll(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, keep, all[0].ID)
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persist.db")
	ctx := context.Background()

	s, err := Open(path, nil)
	require.NoError(t, err)
	_, err = s.Insert(ctx, sampleRecord("KALICI"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path, nil)
	require.NoError(t, err)
	defer s.Close()

	all, err := s.FetchAll(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "KALICI", all[0].FullName)
}

func TestFoldName(t *testing.T) {
	assert.Equal(t, "ali", FoldName("ALİ"))
	assert.Equal(t, "ali", FoldName("ALI"))
	assert.Equal(t, "ali", FoldName("alı"))
	assert.Equal(t, "şule işik", FoldName("ŞULE IŞIK"))
}
