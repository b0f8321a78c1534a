package agenda

import (
	"fmt"
	"strconv"
)

// DefaultReportBase is the report number of the first game of the season.
const DefaultReportBase = 1026475

// Link is a named external reference.
type Link struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// DefaultLinks are the reference links every official gets.
var DefaultLinks = []Link{
	{Name: "Incident Report", URL: "https://bit.ly/ahlincidentreport"},
	{Name: "Video Review", URL: "https://bit.ly/ahlvideoreview"},
	{Name: "Rulebook", URL: "https://theahl.com/rules"},
	{Name: "AHL Google Drive", URL: "https://bit.ly/AHLOfficialsGoogleDrive24-25"},
}

// Links builds URLs for league game reports.
type Links struct {
	// ReportBase is the report number of the game whose gameID starts with 1.
	ReportBase int
	External   []Link
}

// NewLinks returns Links with the default report base and external links.
func NewLinks() Links {
	return Links{ReportBase: DefaultReportBase, External: DefaultLinks}
}

// ReportNumber maps a gameID to the league's report number.
// Only the leading digits of gameID count, so "12-345" is game 12.
func (l Links) ReportNumber(gameID string) (int, error) {
	end := 0
	for end < len(gameID) && gameID[end] >= '0' && gameID[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, fmt.Errorf("ReportNumber: game ID \"%s\" does not start with a number", gameID)
	}
	n, err := strconv.Atoi(gameID[:end])
	if err != nil {
		return 0, fmt.Errorf("ReportNumber: %w", err)
	}
	return l.ReportBase + n - 1, nil
}

// GameCenterURL is the public game center page for gameID.
func (l Links) GameCenterURL(gameID string) (string, error) {
	n, err := l.ReportNumber(gameID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("https://theahl.com/stats/game-center/%d", n), nil
}

// GamesheetURL is the official game report for gameID.
func (l Links) GamesheetURL(gameID string) (string, error) {
	n, err := l.ReportNumber(gameID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("https://lscluster.hockeytech.com/game_reports/official-game-report.php?lang_id=1&client_code=ahl&game_id=%d", n), nil
}
