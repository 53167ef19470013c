package scholarly

import "strings"

// normalizeAuthor trims provider noise out of a decoded profile: padded
// names, duplicate or empty interest tags, and publications without titles.
func normalizeAuthor(author Author) Author {
	author.ScholarID = strings.TrimSpace(author.ScholarID)
	author.Name = strings.TrimSpace(author.Name)
	author.Affiliation = strings.TrimSpace(author.Affiliation)
	author.EmailDomain = strings.TrimSpace(author.EmailDomain)
	author.Interests = dedupeStrings(author.Interests)

	kept := author.Publications[:0]
	for _, pub := range author.Publications {
		pub.Title = strings.TrimSpace(pub.Title)
		if pub.Title == "" {
			continue
		}
		pub.Venue = strings.TrimSpace(pub.Venue)
		pub.URL = strings.TrimSpace(pub.URL)
		pub.Authors = splitAuthors(pub.Authors)
		if pub.Citations < 0 {
			pub.Citations = 0
		}
		kept = append(kept, pub)
	}
	author.Publications = kept
	return author
}

// splitAuthors flattens "A and B" / "A, B" entries some providers pack into
// a single element into individual author names.
func splitAuthors(authors []string) []string {
	var out []string
	for _, entry := range authors {
		entry = strings.ReplaceAll(entry, " and ", ",")
		for _, part := range strings.Split(entry, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func dedupeStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	var out []string
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		key := strings.ToLower(value)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, value)
	}
	return out
}
