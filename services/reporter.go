package services

import (
	"fmt"
	"strings"

	"spotify-insights/models"
)

// PrintInsightReport formats and prints the insight report to terminal
func PrintInsightReport(report *models.InsightReport) {
	border := strings.Repeat("═", 55)
	thin := strings.Repeat("─", 55)

	fmt.Printf("\n╔%s╗\n", border)
	fmt.Printf("║%s║\n", center("SPOTIFY TRACK INSIGHTS ", 55))
	fmt.Printf("╚%s╝\n", border)

	fmt.Printf("\n OVERVIEW\n%s\n", thin)
	fmt.Printf("  Raw Records Loaded      : %d\n", report.TotalRaw)
	fmt.Printf("  Tracks After Cleaning   : %d\n", report.TotalTracks)

	if len(report.TopArtists) > 0 {
		fmt.Printf("\n TOP %d ARTISTS BY AVERAGE TRACK POPULARITY\n%s\n", len(report.TopArtists), thin)
		for i, a := range report.TopArtists {
			fmt.Printf("  %2d. %-35s %6.2f\n", i+1, truncate(a.Artist, 35), a.MeanPopularity)
		}
	}

	if len(report.Genres) > 0 {
		fmt.Printf("\n GENRES BY AVERAGE TRACK POPULARITY\n%s\n", thin)
		for _, g := range report.Genres {
			bar := strings.Repeat("▓", int(g.MeanPopularity/5))
			fmt.Printf("  %-25s %6.2f  %s\n", truncate(g.Genre, 25)+":", g.MeanPopularity, bar)
		}
	}

	if report.Correlation != nil {
		fmt.Printf("\n CORRELATION MATRIX\n%s\n", thin)
		fmt.Printf("  %-28s", "")
		for i := range report.Correlation.Fields {
			fmt.Printf(" [%d]  ", i+1)
		}
		fmt.Println()
		for i, field := range report.Correlation.Fields {
			fmt.Printf("  [%d] %-24s", i+1, field)
			for j := range report.Correlation.Fields {
				if report.Correlation.IsDefined(i, j) {
					fmt.Printf("%5.2f ", report.Correlation.At(i, j))
				} else {
					fmt.Printf("%5s ", "n/a")
				}
			}
			fmt.Println()
		}
	}

	if len(report.YearlyTrend) > 0 {
		fmt.Printf("\n AVERAGE TRACK POPULARITY BY RELEASE YEAR\n%s\n", thin)
		for _, y := range report.YearlyTrend {
			bar := strings.Repeat("▓", int(y.MeanPopularity/5))
			fmt.Printf("  %d  %6.2f  %s\n", y.Year, y.MeanPopularity, bar)
		}
	}

	if len(report.Distribution) > 0 {
		fmt.Printf("\n POPULARITY CATEGORY DISTRIBUTION\n%s\n", thin)
		for _, c := range report.Distribution {
			bar := strings.Repeat("▓", c.Count)
			fmt.Printf("  %-12s %4d  %s\n", string(c.Category)+":", c.Count, bar)
		}
	}

	fmt.Printf("\n%s\n\n", border)
}

func center(s string, width int) string {
	// Account for possible emoji width
	runes := []rune(s)
	if len(runes) >= width {
		return s
	}
	pad := (width - len(runes)) / 2
	return strings.Repeat(" ", pad) + s + strings.Repeat(" ", width-len(runes)-pad)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
