package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/wpstar1/githighlight/models"
	"github.com/wpstar1/githighlight/utils"
)

// ReportService summarizes an ingestion run for the operator.
type ReportService struct {
	logger *utils.Logger
}

// NewReportService creates a ReportService with the given logger.
func NewReportService(logger *utils.Logger) *ReportService {
	return &ReportService{logger: logger}
}

// Generate computes run statistics from the merged candidates and the
// records that were produced from them.
func (s *ReportService) Generate(date string, candidates []*models.RawRepo, records []*models.Repository) *models.RunReport {
	report := &models.RunReport{
		Date:       date,
		ByLanguage: make(map[string]int),
	}

	report.TotalCandidates = len(candidates)
	for _, c := range candidates {
		lang := c.Language
		if lang == "" {
			lang = "unknown"
		}
		report.ByLanguage[lang]++
	}

	if len(records) == 0 {
		return report
	}

	report.TotalRecords = len(records)
	report.MinStars = records[0].Stars
	report.MaxStars = records[0].Stars

	var total int
	for _, r := range records {
		if r.Degraded {
			report.Degraded++
		}
		total += r.Stars
		if r.Stars < report.MinStars {
			report.MinStars = r.Stars
		}
		if r.Stars >= report.MaxStars {
			report.MaxStars = r.Stars
			report.MostStarred = r
		}
	}
	report.AverageStars = float64(total) / float64(len(records))

	return report
}

// Print renders the report to stdout.
func (s *ReportService) Print(r *models.RunReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  TRENDING INGESTION — %s\033[0m\n", r.Date)
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	fmt.Printf("\033[1;33m  Overview\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Candidates merged    : \033[1m%d\033[0m\n", r.TotalCandidates)
	fmt.Printf("  Records produced     : \033[1m%d\033[0m\n", r.TotalRecords)
	fmt.Printf("  Degraded (fallback)  : \033[1m%d\033[0m\n", r.Degraded)
	fmt.Println()

	fmt.Printf("\033[1;33m  Star Statistics\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if r.TotalRecords > 0 {
		fmt.Printf("  Average stars : \033[1;32m%.0f\033[0m\n", r.AverageStars)
		fmt.Printf("  Minimum stars : \033[1;32m%d\033[0m\n", r.MinStars)
		fmt.Printf("  Maximum stars : \033[1;32m%d\033[0m\n", r.MaxStars)
		if r.MostStarred != nil {
			fmt.Printf("  Most starred  : %s (%d)\n", r.MostStarred.Name, r.MostStarred.Stars)
		}
	} else {
		fmt.Printf("  No records produced\n")
	}
	fmt.Println()

	fmt.Printf("\033[1;33m  Candidates by Language\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if len(r.ByLanguage) == 0 {
		fmt.Printf("  No language data\n")
	} else {
		type langCount struct {
			lang  string
			count int
		}
		var langs []langCount
		for lang, cnt := range r.ByLanguage {
			langs = append(langs, langCount{lang, cnt})
		}
		sort.Slice(langs, func(i, j int) bool {
			if langs[i].count != langs[j].count {
				return langs[i].count > langs[j].count
			}
			return langs[i].lang < langs[j].lang
		})
		for _, lc := range langs {
			bar := strings.Repeat("█", lc.count)
			fmt.Printf("  %-20s %s (%d)\n", lc.lang, bar, lc.count)
		}
	}

	fmt.Printf("\n\033[1;35m%s\033[0m\n\n", sep)
}
