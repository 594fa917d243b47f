package state

import (
	"testing"

	"admindash-sync/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func sampleProducts() []domain.Product {
	cat := int64(2)
	return []domain.Product{
		{ID: 1, Name: "Handset X", SKU: "HX-1", Price: decimal.NewFromInt(499), CategoryID: &cat, TrackQuantity: true, StockQuantity: 5},
		{ID: 2, Name: "Charger", SKU: "CH-9", Price: decimal.NewFromInt(19), TrackQuantity: true, StockQuantity: 0},
		{ID: 3, Name: "Case", SKU: "CA-3", Price: decimal.NewFromInt(9), TrackQuantity: false, StockQuantity: 0},
	}
}

func TestFiltersQueryMatchesNameAndSKU(t *testing.T) {
	products := sampleProducts()

	byName := Filters{Query: "handset"}.Apply(products)
	require.Len(t, byName, 1)
	require.Equal(t, int64(1), byName[0].ID)

	bySKU := Filters{Query: "ch-9"}.Apply(products)
	require.Len(t, bySKU, 1)
	require.Equal(t, int64(2), bySKU[0].ID)
}

func TestFiltersCategory(t *testing.T) {
	cat := int64(2)
	got := Filters{CategoryID: &cat}.Apply(sampleProducts())
	require.Len(t, got, 1)
	require.Equal(t, int64(1), got[0].ID)
}

func TestFiltersPriceRange(t *testing.T) {
	got := Filters{PriceMin: dec(10), PriceMax: dec(100)}.Apply(sampleProducts())
	require.Len(t, got, 1)
	require.Equal(t, int64(2), got[0].ID)
}

func TestFiltersInStockOnly(t *testing.T) {
	got := Filters{InStockOnly: true}.Apply(sampleProducts())
	// Untracked products count as in stock.
	require.Len(t, got, 2)
	require.Equal(t, int64(1), got[0].ID)
	require.Equal(t, int64(3), got[1].ID)
}

func TestEmptyFiltersPassEverything(t *testing.T) {
	require.Len(t, Filters{}.Apply(sampleProducts()), 3)
}

func TestFilterStoreUpdate(t *testing.T) {
	s := NewFilterStore()
	s.Update(func(f *Filters) { f.Query = "case" })
	require.Equal(t, "case", s.Get().Query)

	s.Reset()
	require.Equal(t, Filters{}, s.Get())
}

func TestCurrentProductStore(t *testing.T) {
	s := NewCurrentProduct()

	_, err := s.Get()
	require.ErrorIs(t, err, domain.ErrNoSelection)

	s.Set(domain.Product{ID: 7, Name: "Handset X"})
	got, err := s.Get()
	require.NoError(t, err)
	require.Equal(t, int64(7), got.ID)

	s.Clear()
	_, err = s.Get()
	require.ErrorIs(t, err, domain.ErrNoSelection)
}
