package spotify

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"spotify-insights/config"
	"spotify-insights/models"
	"spotify-insights/utils"

	"github.com/chromedp/chromedp"
)

// ChartSection represents a discovered chart or genre section on the charts homepage
type ChartSection struct {
	Name string
	URL  string
}

// ChartScraper harvests track rows from a public Spotify chart mirror.
// It is the alternative raw source when no dataset file is at hand; the rows
// it produces feed the exact same pipeline as the CSV loader.
type ChartScraper struct {
	cfg         *config.Config
	logger      *utils.Logger
	rateLimiter *utils.RateLimiter
	seenTracks  *utils.SeenTracker
}

// NewChartScraper creates a new ChartScraper
func NewChartScraper(cfg *config.Config, logger *utils.Logger) *ChartScraper {
	return &ChartScraper{
		cfg:         cfg,
		logger:      logger,
		rateLimiter: utils.NewRateLimiter(cfg.RateLimitDelay),
		seenTracks:  utils.NewSeenTracker(),
	}
}

// newContext creates a fresh chromedp context (one browser, one tab at a time)
func (s *ChartScraper) newContext() (context.Context, context.CancelFunc) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("log-level", "3"), // suppress Chrome logs
		chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
		chromedp.WindowSize(1280, 900),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	ctx, cancelCtx := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))

	cancel := func() {
		cancelCtx()
		cancelAlloc()
	}
	return ctx, cancel
}

// LoadRaw is the main entry point: it discovers chart sections and harvests
// up to TracksPerSection rows from each.
func (s *ChartScraper) LoadRaw() ([]*models.RawTrack, error) {
	s.logger.Info("Starting chart scraper...")

	ctx, cancel := s.newContext()
	defer cancel()

	ctx, cancelTimeout := context.WithTimeout(ctx, 25*time.Minute)
	defer cancelTimeout()

	sections, err := s.discoverSections(ctx)
	if err != nil {
		return nil, fmt.Errorf("section discovery failed: %w", err)
	}
	if len(sections) == 0 {
		return nil, fmt.Errorf("no chart sections found at %s", s.cfg.ChartsURL)
	}
	s.logger.Info("Found %d chart sections", len(sections))
	for i, sec := range sections {
		s.logger.Info("  [%d] %s -> %s", i+1, sec.Name, sec.URL)
	}

	// Scrape each section sequentially (avoid hammering the chart site)
	var allTracks []*models.RawTrack
	for _, section := range sections {
		s.rateLimiter.Wait()
		tracks, err := s.scrapeSection(ctx, section)
		if err != nil {
			s.logger.Error("Section '%s' failed: %v", section.Name, err)
			continue
		}
		allTracks = append(allTracks, tracks...)
		s.logger.Info("Section '%s': collected %d tracks (total so far: %d)",
			section.Name, len(tracks), len(allTracks))
	}

	s.logger.Info("Scraping complete. Total raw tracks: %d", len(allTracks))
	return allTracks, nil
}

// discoverSections loads the charts homepage and finds all chart/genre section links
func (s *ChartScraper) discoverSections(ctx context.Context) ([]ChartSection, error) {
	s.logger.Info("Loading charts homepage...")

	err := chromedp.Run(ctx,
		chromedp.Navigate(s.cfg.ChartsURL),
		chromedp.Sleep(5*time.Second), // give JS time to render
	)
	if err != nil {
		return nil, fmt.Errorf("homepage navigation failed: %w", err)
	}

	s.logger.Info("Homepage loaded, extracting sections...")

	type sectionData struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	}
	var rawSections []sectionData

	err = chromedp.Run(ctx, chromedp.Evaluate(`
		(function() {
			var results = [];
			var seen = {};

			// Strategy 1: section elements with a chart link
			document.querySelectorAll('section').forEach(function(sec) {
				var heading = sec.querySelector('h2');
				var link = sec.querySelector('a[href*="/charts/"], a[href*="/genre/"]');
				if (!heading || !link) return;
				var name = heading.innerText.trim();
				var href = link.href;
				if (name && href && !seen[href]) {
					seen[href] = true;
					results.push({name: name, url: href});
				}
			});

			// Strategy 2: plain nav/table-of-contents chart links
			if (results.length === 0) {
				document.querySelectorAll('a[href*="/charts/"], a[href*="_weekly"], a[href*="_daily"]').forEach(function(a) {
					var name = a.innerText.trim();
					if (!name || seen[a.href]) return;
					seen[a.href] = true;
					results.push({name: name, url: a.href});
				});
			}

			return results;
		})()
	`, &rawSections))

	if err != nil {
		return nil, fmt.Errorf("JS section extraction failed: %w", err)
	}

	var sections []ChartSection
	for _, rs := range rawSections {
		if rs.Name == "" || rs.URL == "" {
			continue
		}
		sections = append(sections, ChartSection{Name: rs.Name, URL: rs.URL})
	}

	return sections, nil
}

// scrapeSection harvests TracksPerSection rows from a section, paginating as needed
func (s *ChartScraper) scrapeSection(ctx context.Context, section ChartSection) ([]*models.RawTrack, error) {
	s.logger.Info("Scraping section: %s", section.Name)

	var allTracks []*models.RawTrack
	currentURL := section.URL
	page := 1

	for len(allTracks) < s.cfg.TracksPerSection {
		s.logger.Info("  [%s] page %d (have %d/%d)...", section.Name, page, len(allTracks), s.cfg.TracksPerSection)

		tracks, nextURL, err := s.scrapePage(ctx, currentURL)
		if err != nil {
			s.logger.Error("  Page %d error: %v", page, err)
			break
		}
		if len(tracks) == 0 {
			s.logger.Warn("  No tracks found on page %d", page)
			break
		}

		for _, t := range tracks {
			if len(allTracks) >= s.cfg.TracksPerSection {
				break
			}
			// Dedup across sections: the same track charts in many genres
			key := t.ArtistName + "|" + t.TrackName
			if !s.seenTracks.Add(key) {
				continue
			}
			allTracks = append(allTracks, t)
		}

		if nextURL == "" || len(allTracks) >= s.cfg.TracksPerSection {
			break
		}
		currentURL = nextURL
		page++
		s.rateLimiter.Wait()
	}

	return allTracks, nil
}

// scrapePage navigates to a chart page and extracts its track rows
func (s *ChartScraper) scrapePage(ctx context.Context, pageURL string) ([]*models.RawTrack, string, error) {
	var tracks []*models.RawTrack
	var nextURL string

	err := utils.RetryWithBackoff(s.cfg.MaxRetries, func() error {
		err := chromedp.Run(ctx,
			chromedp.Navigate(pageURL),
			chromedp.Sleep(4*time.Second), // wait for JS render
		)
		if err != nil {
			return fmt.Errorf("navigate failed: %w", err)
		}

		// Wait for a chart table; fall back to a plain delay
		waitErr := chromedp.Run(ctx, chromedp.WaitVisible(`table tbody tr`, chromedp.ByQuery))
		if waitErr != nil {
			_ = chromedp.Run(ctx, chromedp.Sleep(3*time.Second))
		}

		type rowData struct {
			Track       string `json:"track"`
			Artist      string `json:"artist"`
			Genres      string `json:"genres"`
			Popularity  string `json:"popularity"`
			ArtistPop   string `json:"artistPop"`
			Followers   string `json:"followers"`
			DurationMin string `json:"durationMin"`
			AlbumTracks string `json:"albumTracks"`
			ReleaseDate string `json:"releaseDate"`
		}
		var rows []rowData

		jsErr := chromedp.Run(ctx, chromedp.Evaluate(`
			(function() {
				var rows = [];

				var cellText = function(tr, names) {
					for (var i = 0; i < names.length; i++) {
						var el = tr.querySelector('[data-col="' + names[i] + '"], .' + names[i] + ', td[headers*="' + names[i] + '"]');
						if (el) return el.innerText.trim();
					}
					return '';
				};

				document.querySelectorAll('table tbody tr').forEach(function(tr) {
					var track = cellText(tr, ['track', 'track_name', 'title']);
					var artist = cellText(tr, ['artist', 'artist_name']);

					// Fallback: "Artist - Track" combined cell, common on chart mirrors
					if (!track && !artist) {
						var combined = cellText(tr, ['mp', 'text', 'song']) || (tr.cells && tr.cells[1] ? tr.cells[1].innerText.trim() : '');
						var sep = combined.indexOf(' - ');
						if (sep > 0) {
							artist = combined.slice(0, sep).trim();
							track = combined.slice(sep + 3).trim();
						}
					}

					if (!track && !artist) return;

					rows.push({
						track: track,
						artist: artist,
						genres: cellText(tr, ['genres', 'artist_genres', 'genre']),
						popularity: cellText(tr, ['popularity', 'track_popularity', 'pop']),
						artistPop: cellText(tr, ['artist_popularity']),
						followers: cellText(tr, ['followers', 'artist_followers']),
						durationMin: cellText(tr, ['duration', 'duration_min', 'length']),
						albumTracks: cellText(tr, ['album_tracks', 'total_tracks']),
						releaseDate: cellText(tr, ['release_date', 'released', 'album_release_date'])
					});
				});

				return rows;
			})()
		`, &rows))
		if jsErr != nil {
			return fmt.Errorf("row JS failed: %w", jsErr)
		}

		tracks = nil
		for _, r := range rows {
			tracks = append(tracks, &models.RawTrack{
				TrackName:        r.Track,
				ArtistName:       r.Artist,
				ArtistGenres:     r.Genres,
				TrackPopularity:  parseIntText(r.Popularity),
				ArtistPopularity: parseIntText(r.ArtistPop),
				ArtistFollowers:  int64(parseIntText(r.Followers)),
				TrackDurationMin: parseDuration(r.DurationMin),
				AlbumTotalTracks: parseIntText(r.AlbumTracks),
				AlbumReleaseDate: r.ReleaseDate,
			})
		}

		// Find next page link
		var next string
		_ = chromedp.Run(ctx, chromedp.Evaluate(`
			(function() {
				var btn = document.querySelector('a[aria-label="Next"]') ||
				          document.querySelector('a[rel="next"]') ||
				          document.querySelector('a[href*="page="]');
				return btn ? btn.href : '';
			})()
		`, &next))
		nextURL = next
		return nil
	}, s.logger)

	return tracks, nextURL, err
}

// parseIntText reads an integer cell, tolerating thousands separators.
func parseIntText(raw string) int {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}

// parseDuration reads a duration cell, either decimal minutes ("3.45")
// or "m:ss" clock form.
func parseDuration(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	if strings.Contains(raw, ":") {
		parts := strings.SplitN(raw, ":", 2)
		minutes, errM := strconv.ParseFloat(parts[0], 64)
		seconds, errS := strconv.ParseFloat(parts[1], 64)
		if errM != nil || errS != nil {
			return 0
		}
		return minutes + seconds/60
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return f
}
