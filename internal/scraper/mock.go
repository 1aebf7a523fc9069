package scraper

import (
	"fmt"
	mathrand "math/rand"
	"strings"
)

// mockProfile holds the fixed fallback values for one store. The URL
// pattern takes a random catalog id; everything else is deterministic.
type mockProfile struct {
	price        float64
	currency     string
	isDigital    bool
	availability string
	urlPattern   string
	imageURL     string
	titleSuffix  string
}

var mockProfiles = map[string]mockProfile{
	StoreAmazon: {
		price:        616,
		currency:     "JPY",
		availability: "在庫あり",
		urlPattern:   "https://www.amazon.co.jp/dp/B%09d",
		imageURL:     "https://m.media-amazon.com/images/I/placeholder-image.jpg",
		titleSuffix:  " 1巻",
	},
	StoreBookWalker: {
		price:        460,
		currency:     "JPY",
		isDigital:    true,
		availability: "購入可能",
		urlPattern:   "https://bookwalker.jp/series/%06d/",
		imageURL:     "https://c.bookwalker.jp/thumbnail/placeholder-image.jpg",
		titleSuffix:  " 1巻",
	},
	StoreRightStuf: {
		price:        9.99,
		currency:     "USD",
		availability: "In Stock",
		urlPattern:   "https://www.rightstufanime.com/manga-volume-%06d",
		imageURL:     "https://www.rightstufanime.com/images/productImages/placeholder-image.jpg",
		titleSuffix:  " Vol. 1",
	},
	StoreRakuten: {
		price:        693,
		currency:     "JPY",
		availability: "在庫あり",
		urlPattern:   "https://books.rakuten.co.jp/rb/%08d/",
		imageURL:     "https://thumbnail.image.rakuten.co.jp/placeholder-image.jpg",
		titleSuffix:  " 1巻",
	},
	StoreEbookJapan: {
		price:        550,
		currency:     "JPY",
		isDigital:    true,
		availability: "購入可能",
		urlPattern:   "https://ebookjapan.yahoo.co.jp/books/detail/%06d/",
		imageURL:     "https://ebookjapan.yahoo.co.jp/assets/images/placeholder-image.jpg",
		titleSuffix:  " 1巻",
	},
	StoreCmoa: {
		price:        495,
		currency:     "JPY",
		isDigital:    true,
		availability: "配信中",
		urlPattern:   "https://www.cmoa.jp/title/%06d/",
		imageURL:     "https://www.cmoa.jp/data/image/placeholder-image.jpg",
		titleSuffix:  " 1巻",
	},
}

// catalogEntry overrides the generic profile for a well-known title.
type catalogEntry struct {
	title    string
	price    float64
	currency string
	url      string
	imageURL string
}

// knownTitles maps lowercase search keys to realistic per-store data
// for a handful of popular series.
var knownTitles = map[string]map[string]catalogEntry{
	"one piece": {
		StoreAmazon: {
			title:    "One Piece, Vol. 98",
			price:    999,
			currency: "JPY",
			url:      "https://www.amazon.co.jp/dp/4088824415",
			imageURL: "https://m.media-amazon.com/images/I/51QFvXvnsrL._SL500_.jpg",
		},
		StoreBookWalker: {
			title:    "ONE PIECE 98",
			price:    460,
			currency: "JPY",
			url:      "https://bookwalker.jp/de46af1c08-4e55-4e44-bf37-d48b6b49d8d2/",
			imageURL: "https://c.bookwalker.jp/thumbnailkaisou/4088824415.jpg",
		},
		StoreRightStuf: {
			title:    "One Piece Manga Volume 98",
			price:    9.99,
			currency: "USD",
			url:      "https://www.rightstufanime.com/One-Piece-Manga-Volume-98",
			imageURL: "https://www.rightstufanime.com/images/productImages/9781974722891_manga-one-piece-98-primary.jpg",
		},
	},
	"naruto": {
		StoreAmazon: {
			title:    "Naruto, Vol. 72",
			price:    484,
			currency: "JPY",
			url:      "https://www.amazon.co.jp/dp/4088802128",
			imageURL: "https://m.media-amazon.com/images/I/51D4S-Y1dqL._SL500_.jpg",
		},
		StoreBookWalker: {
			title:    "NARUTO -ナルト- 72",
			price:    460,
			currency: "JPY",
			url:      "https://bookwalker.jp/de68c11e9d-b3cf-42ac-9520-2c6e7bafcb7f/",
			imageURL: "https://c.bookwalker.jp/thumbnailkaisou/4088802128.jpg",
		},
		StoreRightStuf: {
			title:    "Naruto Manga Volume 72",
			price:    9.99,
			currency: "USD",
			url:      "https://www.rightstufanime.com/Naruto-Manga-Volume-72",
			imageURL: "https://www.rightstufanime.com/images/productImages/9781421582849_manga-naruto-72-primary.jpg",
		},
	},
	"attack on titan": {
		StoreAmazon: {
			title:    "Attack on Titan, Vol. 34",
			price:    506,
			currency: "JPY",
			url:      "https://www.amazon.co.jp/dp/4065219582",
			imageURL: "https://m.media-amazon.com/images/I/51DH4PMPCEL._SL500_.jpg",
		},
		StoreBookWalker: {
			title:    "進撃の巨人(34)",
			price:    481,
			currency: "JPY",
			url:      "https://bookwalker.jp/de22e0e861-4c85-49cd-9ba1-a7937984a1cc/",
			imageURL: "https://c.bookwalker.jp/thumbnailkaisou/4065219582.jpg",
		},
		StoreRightStuf: {
			title:    "Attack on Titan Manga Volume 34",
			price:    10.99,
			currency: "USD",
			url:      "https://www.rightstufanime.com/Attack-on-Titan-Manga-Volume-34",
			imageURL: "https://www.rightstufanime.com/images/productImages/9781646512331_manga-attack-on-titan-34-primary.jpg",
		},
	},
}

// catalogKey returns the known-title key matching a search title,
// or "" when the title is not in the catalog.
func catalogKey(title string) string {
	lower := strings.ToLower(title)
	if strings.Contains(lower, "one piece") || strings.Contains(lower, "ワンピース") {
		return "one piece"
	}
	if strings.Contains(lower, "naruto") || strings.Contains(lower, "ナルト") {
		return "naruto"
	}
	if strings.Contains(lower, "attack on titan") || strings.Contains(lower, "shingeki") || strings.Contains(lower, "進撃の巨人") {
		return "attack on titan"
	}
	return ""
}

// GenerateMockItem produces a synthetic listing for a title and store.
// Every field is deterministic for a given (title, store) pair except
// the catalog id embedded in generated URLs, which is cosmetic.
// The item is always flagged as estimated.
func GenerateMockItem(title, store string) *Item {
	profile, ok := mockProfiles[store]
	if !ok {
		// Unknown store; still honor the uniform output contract
		profile = mockProfile{currency: "JPY", availability: "不明", titleSuffix: ""}
	}

	item := &Item{
		Store:        store,
		Title:        title + profile.titleSuffix,
		Price:        profile.price,
		Currency:     profile.currency,
		ImageURL:     profile.imageURL,
		Availability: profile.availability,
		IsDigital:    profile.isDigital,
		IsEstimated:  true,
	}

	if key := catalogKey(title); key != "" {
		if entry, ok := knownTitles[key][store]; ok {
			item.Title = entry.title
			item.Price = entry.price
			item.Currency = entry.currency
			item.URL = entry.url
			item.ImageURL = entry.imageURL
			return item
		}
	}

	if profile.urlPattern != "" {
		item.URL = fmt.Sprintf(profile.urlPattern, 100000+mathrand.Intn(900000))
	}
	return item
}
