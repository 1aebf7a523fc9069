package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryosk0315/manga-price-tarcker/config"
)

func TestCreateScrapersOrder(t *testing.T) {
	cfg := config.LoadConfig()
	scrapers := CreateScrapers(cfg, nil)
	require.Len(t, scrapers, len(StoreOrder))

	for i, s := range scrapers {
		assert.Equal(t, StoreOrder[i], s.Store())
	}
}

func TestCreateScrapersSearchURLs(t *testing.T) {
	cfg := config.LoadConfig()
	scrapers := CreateScrapers(cfg, nil)

	for _, s := range scrapers {
		site, ok := s.(*SiteScraper)
		require.True(t, ok)
		searchURL := site.SearchURL("one piece")
		assert.Contains(t, searchURL, "one+piece", site.Store())
		assert.NotContains(t, searchURL, "%s", site.Store())
	}
}
