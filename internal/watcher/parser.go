package watcher

//
// parser.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"
	"gitlab.com/kabes/go-integwatch/internal/aerr"
	"gitlab.com/kabes/go-integwatch/internal/model"
)

//nolint:gochecknoglobals
var (
	noResultsRe    = regexp.MustCompile(`alert[^"]*">[^<]*[nN]o results`)
	serviceLevelRe = regexp.MustCompile(`\s([ABC][12])`)
	// whitespace including unicode spaces (nbsp)
	whitespaceRe   = regexp.MustCompile(`[\s\v\p{Z}\x{85}]+`)
)

const minCells = 4

// Parse extract courses grouped by level from search result page.
func Parse(page RawPage) (model.Availability, error) {
	body := string(page)
	if noResultsRe.MatchString(body) {
		return model.Availability{}, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return model.Availability{}, aerr.Wrapf(err, "parse page failed")
	}

	table := doc.Find("table.table").First()
	if table.Length() == 0 {
		log.Logger.Warn().Str("page", body).Msg("Parser: could not find the openings table")

		return model.Availability{}, ErrStructure.WithUserMsg("There are openings, but could not find the table.")
	}

	avail := model.Availability{}

	var perr error

	table.Find("tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		cells := row.Find("td")
		if cells.Length() < minCells {
			return true
		}

		time := cellText(cells, 0)
		service := cellText(cells, 1)
		place := cellText(cells, 2)
		free := cellText(cells, 3) //nolint:mnd

		match := serviceLevelRe.FindStringSubmatch(service)
		if match == nil {
			perr = ErrStructure.WithUserMsg("Cannot parse service for level: \"%s\"", service).
				WithMeta("service", service)

			return false
		}

		avail.Add(model.Level(match[1]), model.NewCourse(time, place, free))

		return true
	})

	if perr != nil {
		return model.Availability{}, perr
	}

	return avail, nil
}

func cellText(cells *goquery.Selection, idx int) string {
	return normalizeSpaces(cells.Eq(idx).Text())
}

func normalizeSpaces(text string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
}
