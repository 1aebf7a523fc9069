package scraper

import (
	"github.com/ryosk0315/manga-price-tarcker/config"
	"github.com/ryosk0315/manga-price-tarcker/services/cache"
)

// Shared price patterns; stores differ mainly in whether prices carry
// a yen sign, a trailing 円, or a dollar sign.
var (
	yenPatterns    = []string{`¥\s?([\d,]+)`, `([\d,]+)円`, `([\d,]+)\s*pt`}
	dollarPatterns = []string{`\$([\d,.]+)`, `USD\s?([\d.]+)`}
)

// StoreOrder is the fixed priority order for aggregate output.
var StoreOrder = []string{
	StoreAmazon,
	StoreBookWalker,
	StoreRightStuf,
	StoreRakuten,
	StoreEbookJapan,
	StoreCmoa,
}

// CreateScrapers creates one scraper per store from the configuration,
// in the fixed store priority order.
func CreateScrapers(cfg *config.Config, cacheSvc cache.CacheService) []Scraper {
	configurations := []StoreConfig{
		{
			// Amazon.co.jp print search, stripbooks category
			Store:     StoreAmazon,
			SearchURL: cfg.AmazonURL,
			BaseURL:   "https://www.amazon.co.jp",
			Currency:  "JPY",
			IsDigital: false,
			CacheKey:  "amazon_rate_limited",
			BlockTime: cfg.BlockTime,
			Selectors: Selectors{
				Result: []string{
					"div[data-component-type='s-search-result']",
					"div.s-result-item[data-asin]",
					"div.s-result-list div.sg-col-inner",
				},
				Title: []string{"h2 a span", "span.a-text-normal", "h2 span"},
				Price: []string{
					"span.a-price span.a-offscreen",
					"span.a-price-whole",
					"span.a-color-price",
				},
				Link:          []string{"h2 a", "a.a-link-normal"},
				Image:         []string{"img.s-image", "div.s-product-image-container img"},
				Availability:  []string{"div.a-row.a-size-base.a-color-secondary span.a-color-success"},
				ImageAttrs:    []string{"src", "data-src"},
				PricePatterns: yenPatterns,
			},
			DefaultPrice:        616,
			DefaultAvailability: "在庫あり",
		},
		{
			// BookWalker comic/manga category search
			Store:     StoreBookWalker,
			SearchURL: cfg.BookWalkerURL,
			BaseURL:   "https://bookwalker.jp",
			Currency:  "JPY",
			IsDigital: true,
			CacheKey:  "bookwalker_rate_limited",
			BlockTime: cfg.BlockTime,
			Selectors: Selectors{
				Result:        []string{".bookitem", "li.m-tile", ".o-card"},
				Title:         []string{".book-title", ".m-book-item__title", "h2 a", "h3 a"},
				Price:         []string{".price", ".m-book-item__price", ".a-price"},
				Link:          []string{"a.a-link", ".book-title a", "h2 a", "a"},
				Image:         []string{".book-img img", ".m-thumb__image img", "img"},
				ImageAttrs:    []string{"data-srcset", "data-src", "src"},
				PricePatterns: yenPatterns,
			},
			DefaultPrice:        460,
			DefaultAvailability: "購入可能",
		},
		{
			// RightStuf English print search
			Store:     StoreRightStuf,
			SearchURL: cfg.RightStufURL,
			BaseURL:   "https://www.rightstufanime.com",
			Currency:  "USD",
			IsDigital: false,
			CacheKey:  "rightstuf_rate_limited",
			BlockTime: cfg.BlockTime,
			Selectors: Selectors{
				Result: []string{".product-item", ".product-tile", "div.product"},
				Title:  []string{".product-item-title", ".product-name", "h3 a"},
				Price: []string{
					".product-item-price .price-sales",
					".price-sales",
					".price",
				},
				Link:          []string{".product-item-thumbnail a", ".product-item-title a", "a"},
				Image:         []string{".product-item-thumbnail img", "img"},
				Availability:  []string{".product-availability", ".stock-status"},
				ImageAttrs:    []string{"data-src", "src"},
				PricePatterns: dollarPatterns,
			},
			DefaultPrice:        9.99,
			DefaultAvailability: "In Stock",
		},
		{
			// Rakuten Books comic genre search
			Store:     StoreRakuten,
			SearchURL: cfg.RakutenURL,
			BaseURL:   "https://books.rakuten.co.jp",
			Currency:  "JPY",
			IsDigital: false,
			CacheKey:  "rakuten_rate_limited",
			BlockTime: cfg.BlockTime,
			Selectors: Selectors{
				Result: []string{
					".rbcomp__item-list__item",
					"div.item-grid div.item",
					"ul.rb-items li",
				},
				Title: []string{
					".rbcomp__item-list__item__title a",
					"div.item-title a",
					"h3 a",
				},
				Price: []string{
					".rbcomp__item-list__item__price",
					"div.item-price",
					".price",
				},
				Link:          []string{".rbcomp__item-list__item__title a", "div.item-title a", "a"},
				Image:         []string{".rbcomp__item-list__item__image img", "div.item-image img", "img"},
				Availability:  []string{".rbcomp__item-list__item__stock", ".status-stock"},
				ImageAttrs:    []string{"data-src", "src"},
				PricePatterns: yenPatterns,
			},
			DefaultPrice:        693,
			DefaultAvailability: "在庫あり",
		},
		{
			// ebookjapan keyword search
			Store:     StoreEbookJapan,
			SearchURL: cfg.EbookJapanURL,
			BaseURL:   "https://ebookjapan.yahoo.co.jp",
			Currency:  "JPY",
			IsDigital: true,
			CacheKey:  "ebookjapan_rate_limited",
			BlockTime: cfg.BlockTime,
			Selectors: Selectors{
				Result:        []string{".book-item", "li.list-item", ".contents-list li"},
				Title:         []string{".book-title", "p.title", "a.book-link"},
				Price:         []string{".book-price", ".price", "p.book-item__price"},
				Link:          []string{"a.book-link", ".book-title a", "a"},
				Image:         []string{".book-thumbnail img", "img.lazyload", "img"},
				ImageAttrs:    []string{"data-src", "data-original", "src"},
				PricePatterns: yenPatterns,
			},
			DefaultPrice:        550,
			DefaultAvailability: "購入可能",
		},
		{
			// Comic Cmoa all-category search
			Store:     StoreCmoa,
			SearchURL: cfg.CmoaURL,
			BaseURL:   "https://www.cmoa.jp",
			Currency:  "JPY",
			IsDigital: true,
			CacheKey:  "cmoa_rate_limited",
			BlockTime: cfg.BlockTime,
			Selectors: Selectors{
				Result:        []string{".data", "li.search_result_box", ".title_list li"},
				Title:         []string{".title a", ".search_title a", "h3 a"},
				Price:         []string{".price", ".title_price"},
				Link:          []string{".title a", ".search_title a", "a"},
				Image:         []string{".data__image img", ".img_box img", "img"},
				ImageAttrs:    []string{"src", "data-src"},
				PricePatterns: yenPatterns,
			},
			DefaultPrice:        495,
			DefaultAvailability: "配信中",
		},
	}

	scrapers := make([]Scraper, 0, len(configurations))
	for _, storeCfg := range configurations {
		scrapers = append(scrapers, NewSiteScraper(storeCfg, cacheSvc))
	}
	return scrapers
}
