package scraper

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateMockItemAlwaysEstimated(t *testing.T) {
	for _, store := range StoreOrder {
		item := GenerateMockItem("Some Obscure Manga", store)
		require.NotNil(t, item, store)
		assert.True(t, item.IsEstimated, store)
		assert.Equal(t, store, item.Store, store)
		assert.Greater(t, item.Price, 0.0, store)
		assert.NotEmpty(t, item.Currency, store)
		assert.NotEmpty(t, item.URL, store)
		assert.NotEmpty(t, item.Availability, store)
	}
}

func TestGenerateMockItemStoreDefaults(t *testing.T) {
	amazon := GenerateMockItem("Berserk", StoreAmazon)
	assert.Equal(t, 616.0, amazon.Price)
	assert.Equal(t, "JPY", amazon.Currency)
	assert.False(t, amazon.IsDigital)
	assert.Equal(t, "在庫あり", amazon.Availability)
	assert.Equal(t, "Berserk 1巻", amazon.Title)

	rightStuf := GenerateMockItem("Berserk", StoreRightStuf)
	assert.Equal(t, 9.99, rightStuf.Price)
	assert.Equal(t, "USD", rightStuf.Currency)
	assert.Equal(t, "In Stock", rightStuf.Availability)
	assert.Equal(t, "Berserk Vol. 1", rightStuf.Title)

	cmoa := GenerateMockItem("Berserk", StoreCmoa)
	assert.Equal(t, 495.0, cmoa.Price)
	assert.True(t, cmoa.IsDigital)
	assert.Equal(t, "配信中", cmoa.Availability)
}

func TestGenerateMockItemKnownTitle(t *testing.T) {
	item := GenerateMockItem("one piece", StoreAmazon)
	assert.Equal(t, "One Piece, Vol. 98", item.Title)
	assert.Equal(t, 999.0, item.Price)
	assert.Equal(t, "https://www.amazon.co.jp/dp/4088824415", item.URL)

	// Catalog matching ignores case and surrounding words
	item = GenerateMockItem("ONE PIECE vol 98", StoreAmazon)
	assert.Equal(t, "One Piece, Vol. 98", item.Title)

	// Japanese aliases resolve to the same entry
	item = GenerateMockItem("ワンピース", StoreBookWalker)
	assert.Equal(t, "ONE PIECE 98", item.Title)
	assert.Equal(t, 460.0, item.Price)

	item = GenerateMockItem("進撃の巨人", StoreRightStuf)
	assert.Equal(t, "Attack on Titan Manga Volume 34", item.Title)
	assert.Equal(t, 10.99, item.Price)
	assert.Equal(t, "USD", item.Currency)
}

func TestGenerateMockItemKnownTitleMissingStore(t *testing.T) {
	// The catalog only covers three stores; the rest fall back to the
	// generic profile
	item := GenerateMockItem("naruto", StoreCmoa)
	assert.Equal(t, 495.0, item.Price)
	assert.Equal(t, "naruto 1巻", item.Title)
	assert.True(t, strings.HasPrefix(item.URL, "https://www.cmoa.jp/title/"))
}

func TestGenerateMockItemUnknownStore(t *testing.T) {
	item := GenerateMockItem("Berserk", "NoSuchStore")
	require.NotNil(t, item)
	assert.Equal(t, "NoSuchStore", item.Store)
	assert.Equal(t, "JPY", item.Currency)
	assert.True(t, item.IsEstimated)
}

func TestCatalogKey(t *testing.T) {
	assert.Equal(t, "one piece", catalogKey("One Piece"))
	assert.Equal(t, "naruto", catalogKey("NARUTO -ナルト-"))
	assert.Equal(t, "attack on titan", catalogKey("Shingeki no Kyojin"))
	assert.Equal(t, "", catalogKey("Berserk"))
}
