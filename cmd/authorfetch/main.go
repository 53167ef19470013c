package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"scholardash/pkg/scholarly"
)

// authorfetch probes the scholarly provider directly, bypassing the cache
// and the roster. Useful for checking a profile id before adding a member.
func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "no .env file loaded:", err)
	}
	v := viper.New()
	v.AutomaticEnv()

	baseURL := flag.String("provider", strings.TrimSpace(v.GetString("SCHOLARDASH_PROVIDER_URL")), "scholarly provider base URL (or SCHOLARDASH_PROVIDER_URL)")
	scholarID := flag.String("id", "", "scholar profile identifier")
	name := flag.String("name", "", "author name to search when no id is given")
	timeout := flag.Duration("timeout", 30*time.Second, "request timeout")
	retries := flag.Int("retries", 3, "retries for transient provider failures")
	flag.Parse()

	if strings.TrimSpace(*baseURL) == "" {
		exitErr("provider base URL is required (or set SCHOLARDASH_PROVIDER_URL)")
	}
	if strings.TrimSpace(*scholarID) == "" && strings.TrimSpace(*name) == "" {
		exitErr("one of -id or -name is required")
	}

	client, err := scholarly.New(scholarly.Config{
		BaseURL:    strings.TrimSpace(*baseURL),
		Timeout:    *timeout,
		MaxRetries: *retries,
	})
	if err != nil {
		exitErr(err.Error())
	}

	ctx := context.Background()
	var author scholarly.Author
	if id := strings.TrimSpace(*scholarID); id != "" {
		author, err = client.AuthorByID(ctx, id)
	} else {
		author, err = client.SearchAuthor(ctx, strings.TrimSpace(*name))
	}
	if err != nil {
		exitErr(err.Error())
	}

	encoded, err := json.MarshalIndent(author, "", "  ")
	if err != nil {
		exitErr(err.Error())
	}
	fmt.Println(string(encoded))
}

func exitErr(message string) {
	fmt.Fprintln(os.Stderr, message)
	os.Exit(1)
}
