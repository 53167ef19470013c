package scholarly

import (
	"strconv"
	"strings"
)

// Author is one author profile as returned by the provider.
type Author struct {
	ScholarID    string        `json:"scholar_id"`
	Name         string        `json:"name"`
	Affiliation  string        `json:"affiliation"`
	EmailDomain  string        `json:"email_domain"`
	Interests    []string      `json:"interests"`
	CitedBy      int           `json:"cited_by"`
	CitedBy5y    int           `json:"cited_by_5y"`
	HIndex       int           `json:"h_index"`
	HIndex5y     int           `json:"h_index_5y"`
	I10Index     int           `json:"i10_index"`
	I10Index5y   int           `json:"i10_index_5y"`
	Publications []Publication `json:"publications"`
}

// Publication is one publication row in an author profile.
type Publication struct {
	Title     string   `json:"title"`
	Year      Year     `json:"year"`
	Citations int      `json:"citations"`
	Authors   []string `json:"authors"`
	Venue     string   `json:"venue"`
	URL       string   `json:"url"`
}

// Year tolerates the provider emitting years as numbers or as strings with
// trailing noise ("2023/05"). Unparseable values decode to zero.
type Year int

// UnmarshalJSON accepts both numeric and string-encoded years.
func (y *Year) UnmarshalJSON(data []byte) error {
	text := strings.TrimSpace(string(data))
	if text == "null" || text == "" {
		*y = 0
		return nil
	}
	if strings.HasPrefix(text, `"`) {
		unquoted, err := strconv.Unquote(text)
		if err != nil {
			*y = 0
			return nil
		}
		*y = Year(ParseYear(unquoted))
		return nil
	}
	value, err := strconv.Atoi(text)
	if err != nil {
		*y = Year(ParseYear(text))
		return nil
	}
	*y = Year(value)
	return nil
}

// ParseYear extracts a four-digit year from the start of a string, the way
// scraped publication dates usually encode it. Returns 0 when absent.
func ParseYear(value string) int {
	value = strings.TrimSpace(value)
	if len(value) < 4 {
		return 0
	}
	head := value[:4]
	for _, r := range head {
		if r < '0' || r > '9' {
			return 0
		}
	}
	year, err := strconv.Atoi(head)
	if err != nil {
		return 0
	}
	return year
}

type searchResponse struct {
	Authors []Author `json:"authors"`
}
