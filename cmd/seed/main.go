package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"scholardash/internal/adapters/jsonfile"
	"scholardash/internal/app/ports"
)

// seed writes a demo roster and matching snapshot cache so the dashboard
// has data to show before the first live refresh.
func main() {
	dir := flag.String("dir", "data", "directory for the generated files")
	force := flag.Bool("force", false, "overwrite existing files")
	flag.Parse()

	rosterPath := filepath.Join(*dir, "faculty.json")
	cachePath := filepath.Join(*dir, "cache.json")

	if !*force {
		if _, err := os.Stat(rosterPath); err == nil {
			exitErr(fmt.Sprintf("%s already exists, use -force to overwrite", rosterPath))
		}
	}

	records := jsonfile.NewRecordStore(rosterPath)
	if err := records.Save(demoRoster()); err != nil {
		exitErr("write roster: " + err.Error())
	}

	if *force {
		if err := os.Remove(cachePath); err != nil && !os.IsNotExist(err) {
			exitErr("remove cache: " + err.Error())
		}
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	snapshots := demoSnapshots()

	// Entries are written oldest first so the staged cache timestamps stay
	// monotonically non-decreasing.
	ids := make([]string, 0, len(snapshots))
	for id := range snapshots {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return snapshots[ids[i]].age > snapshots[ids[j]].age })

	current := time.Now()
	cache, err := jsonfile.OpenSnapshotCacheWithClock(cachePath, logger, func() time.Time { return current })
	if err != nil {
		exitErr("open cache: " + err.Error())
	}
	for _, id := range ids {
		seedEntry := snapshots[id]
		current = time.Now().Add(-seedEntry.age)
		seedEntry.snapshot.FetchedAt = current.UTC()
		if err := cache.Put(id, seedEntry.snapshot); err != nil {
			exitErr("write cache entry: " + err.Error())
		}
	}

	fmt.Printf("Seeded %s with %d members and %s with %d snapshots\n",
		rosterPath, len(demoRoster().Faculty), cachePath, len(snapshots))
}

func exitErr(message string) {
	fmt.Fprintln(os.Stderr, message)
	os.Exit(1)
}

func demoRoster() ports.Roster {
	return ports.Roster{
		Department:  "Computer Science",
		Institution: "Central University",
		UpdatedAt:   time.Now().UTC().Format(time.RFC3339),
		Faculty: []ports.FacultyRecord{
			{ID: "1", Name: "Rajiv Kumar", Designation: "Professor", Email: "rajiv.kumar@centraluniv.edu", ScholarID: "rk-4821", ResearchAreas: []string{"Machine Learning", "Natural Language Processing"}, JoinedYear: 2009, ProfileFetched: true},
			{ID: "2", Name: "Priya Sharma", Designation: "Assistant Professor", Email: "priya.sharma@centraluniv.edu", ScholarID: "ps-1174", ResearchAreas: []string{"Machine Learning", "Educational Data Mining"}, JoinedYear: 2019, ProfileFetched: true},
			{ID: "3", Name: "Anil Verma", Designation: "Professor", Email: "anil.verma@centraluniv.edu", ScholarID: "av-3390", ResearchAreas: []string{"Databases", "Data Integration"}, JoinedYear: 2006, ProfileFetched: true},
			{ID: "4", Name: "Meera Nair", Designation: "Associate Professor", Email: "meera.nair@centraluniv.edu", ScholarID: "mn-2087", ResearchAreas: []string{"Computer Vision"}, JoinedYear: 2014, ProfileFetched: true},
			{ID: "5", Name: "Suresh Patel", Designation: "Assistant Professor", Email: "suresh.patel@centraluniv.edu", ResearchAreas: []string{"Distributed Systems"}, JoinedYear: 2021},
			{ID: "6", Name: "Lakshmi Rao", Designation: "Professor", Email: "lakshmi.rao@centraluniv.edu", ScholarID: "lr-5512", ResearchAreas: []string{"Algorithms", "Complexity Theory"}, JoinedYear: 2003},
		},
	}
}

type seededSnapshot struct {
	age      time.Duration
	snapshot ports.MetricsSnapshot
}

func demoSnapshots() map[string]seededSnapshot {
	return map[string]seededSnapshot{
		"1": {age: 2 * time.Hour, snapshot: snapshot("1", "rk-4821", "Rajiv Kumar", 2840, 27, 61, []ports.Publication{
			{Title: "Attention Models for Low Resource Machine Translation", Year: 2024, Citations: 312, Venue: "ACL", Authors: []string{"Rajiv Kumar", "Priya Sharma"}},
			{Title: "Transfer Learning for Indic Language Understanding", Year: 2022, Citations: 498, Venue: "EMNLP", Authors: []string{"Rajiv Kumar"}},
			{Title: "Neural Architectures for Text Classification", Year: 2019, Citations: 1020, Venue: "TACL", Authors: []string{"Rajiv Kumar", "Meera Nair"}},
		})},
		"2": {age: 26 * time.Hour, snapshot: snapshot("2", "ps-1174", "Priya Sharma", 640, 13, 17, []ports.Publication{
			{Title: "Predicting Student Outcomes with Sequence Models", Year: 2024, Citations: 88, Venue: "EDM", Authors: []string{"Priya Sharma"}},
			{Title: "Attention Models for Low Resource Machine Translation", Year: 2024, Citations: 312, Venue: "ACL", Authors: []string{"Rajiv Kumar", "Priya Sharma"}},
		})},
		"3": {age: 3 * 24 * time.Hour, snapshot: snapshot("3", "av-3390", "Anil Verma", 1910, 22, 44, []ports.Publication{
			{Title: "Incremental View Maintenance at Scale", Year: 2023, Citations: 140, Venue: "VLDB", Authors: []string{"Anil Verma"}},
			{Title: "Schema Matching with Weak Supervision", Year: 2021, Citations: 260, Venue: "SIGMOD", Authors: []string{"Anil Verma", "Suresh Patel"}},
		})},
		"4": {age: 40 * time.Minute, snapshot: snapshot("4", "mn-2087", "Meera Nair", 1235, 18, 29, []ports.Publication{
			{Title: "Self Supervised Pretraining for Medical Imaging", Year: 2025, Citations: 96, Venue: "CVPR", Authors: []string{"Meera Nair"}},
			{Title: "Neural Architectures for Text Classification", Year: 2019, Citations: 1020, Venue: "TACL", Authors: []string{"Rajiv Kumar", "Meera Nair"}},
		})},
	}
}

func snapshot(facultyID, scholarID, name string, citations, hIndex, i10Index int, pubs []ports.Publication) ports.MetricsSnapshot {
	pubsByYear := make(map[int]int)
	citesByYear := make(map[int]int)
	for _, pub := range pubs {
		if pub.Year > 0 {
			pubsByYear[pub.Year]++
			citesByYear[pub.Year] += pub.Citations
		}
	}
	return ports.MetricsSnapshot{
		FacultyID:          facultyID,
		ScholarID:          scholarID,
		Name:               name,
		Affiliation:        "Central University",
		EmailDomain:        "@centraluniv.edu",
		Interests:          interestsFor(name),
		Citations:          citations,
		Citations5y:        citations * 6 / 10,
		HIndex:             hIndex,
		HIndex5y:           hIndex * 7 / 10,
		I10Index:           i10Index,
		I10Index5y:         i10Index * 7 / 10,
		PublicationCount:   len(pubs),
		Publications:       pubs,
		PublicationsByYear: pubsByYear,
		CitationsByYear:    citesByYear,
	}
}

func interestsFor(name string) []string {
	switch {
	case strings.HasPrefix(name, "Rajiv"):
		return []string{"machine learning", "natural language processing"}
	case strings.HasPrefix(name, "Priya"):
		return []string{"machine learning", "educational data mining"}
	case strings.HasPrefix(name, "Anil"):
		return []string{"databases"}
	default:
		return []string{"computer vision"}
	}
}
