package olas

// ProgressFunc is told about every page the scraper reaches. percent is
// always within [0, 100].
type ProgressFunc func(page int, percent int)

const percentPerPage = 10

func pagePercent(page int) int {
	return min(max(page*percentPerPage, 0), 100)
}
