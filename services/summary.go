package services

import (
	"fmt"
	"io"
	"strings"

	"sperrmuell/models"
	"sperrmuell/storage"
	"sperrmuell/utils"
)

type SummaryService struct {
	logger *utils.Logger
}

func NewSummaryService(logger *utils.Logger) *SummaryService {
	return &SummaryService{logger: logger}
}

func (s *SummaryService) Generate(found int, stats []models.DateStats) *models.RunSummary {
	r := &models.RunSummary{
		DatesFound: found,
		PerDate:    stats,
	}

	for _, st := range stats {
		if st.AlreadyComplete {
			r.DatesSkipped++
			continue
		}
		r.DatesProcessed++
		r.TotalRanges += st.Ranges
		r.TotalTried += st.AddressesTried
		r.TotalResolved += st.Resolved
		r.UnknownStreets += st.UnknownStreets
	}

	if r.TotalTried > 0 && r.TotalResolved == 0 {
		s.logger.Warn("[summary] No address could be located; check MUNICIPALITY and the OSM extract")
	}
	return r
}

// HitRate is the share of tried addresses that resolved, in percent.
func HitRate(r *models.RunSummary) float64 {
	if r.TotalTried == 0 {
		return 0
	}
	return round1(float64(r.TotalResolved) * 100 / float64(r.TotalTried))
}

func (s *SummaryService) Print(w io.Writer, r *models.RunSummary) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(w, "\033[1;35m  SPERRMÜLL RUN SUMMARY\033[0m\n")
	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n\n", sep)

	fmt.Fprintf(w, "\033[1;33m  Overview\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Dates found      : \033[1m%d\033[0m\n", r.DatesFound)
	fmt.Fprintf(w, "  Dates processed  : \033[1m%d\033[0m\n", r.DatesProcessed)
	fmt.Fprintf(w, "  Already complete : \033[1m%d\033[0m\n", r.DatesSkipped)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Addresses\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Ranges           : \033[1m%d\033[0m\n", r.TotalRanges)
	fmt.Fprintf(w, "  Tried            : \033[1m%d\033[0m\n", r.TotalTried)
	fmt.Fprintf(w, "  Located          : \033[1;32m%d\033[0m (%.1f%%)\n", r.TotalResolved, HitRate(r))
	fmt.Fprintf(w, "  Unknown streets  : \033[1;31m%d\033[0m\n", r.UnknownStreets)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Per Date\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	processed := 0
	for _, st := range r.PerDate {
		if st.AlreadyComplete {
			continue
		}
		processed++
		fmt.Fprintf(w, "  %s  %4d ranges  %5d/%-5d located  %d skipped\n",
			storage.DateDirName(st.Date), st.Ranges, st.Resolved, st.AddressesTried,
			st.UnknownStreets+st.SkippedRows)
	}
	if processed == 0 {
		fmt.Fprintf(w, "  Nothing new to process\n")
	}

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n\n", sep)
}

func round1(f float64) float64 {
	return float64(int(f*10+0.5)) / 10
}
