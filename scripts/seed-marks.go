package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/ugmi/ugmi/internal/model"
	"github.com/ugmi/ugmi/internal/repository"
)

// seed-marks inserts one mark per non-empty input line and prints the new
// IDs. Marks have no API of their own, so local setups create them here.
func main() {
	var (
		databaseURL = flag.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
		input       = flag.String("file", "-", "File with one mark title per line, - for stdin")
		format      = flag.String("format", "plain", "Output format: plain or json")
	)
	flag.Parse()

	if *databaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required")
		os.Exit(1)
	}

	var r io.Reader = os.Stdin
	if *input != "-" {
		f, err := os.Open(*input)
		if err != nil {
			fmt.Fprintln(os.Stderr, "open input:", err)
			os.Exit(1)
		}
		defer f.Close()
		r = f
	}

	titles, err := readTitles(r)
	if err != nil {
		fmt.Fprintln(os.Stderr, "read input:", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repo, err := repository.New(ctx, *databaseURL)
	if err != nil {
		fmt.Fprintln(os.Stderr, "connect database:", err)
		os.Exit(1)
	}
	defer repo.Close()

	marks := make([]*model.Mark, 0, len(titles))
	for _, title := range titles {
		mark := &model.Mark{Title: title}
		if err := repo.CreateMark(ctx, mark); err != nil {
			fmt.Fprintln(os.Stderr, "create mark:", err)
			os.Exit(1)
		}
		marks = append(marks, mark)
	}

	switch strings.ToLower(*format) {
	case "plain":
		for _, mark := range marks {
			fmt.Printf("%d\t%s\n", mark.ID, mark.Title)
		}
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(marks)
	default:
		fmt.Fprintln(os.Stderr, "invalid format; use plain or json")
		os.Exit(1)
	}
}

func readTitles(r io.Reader) ([]string, error) {
	var titles []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if title := strings.TrimSpace(scanner.Text()); title != "" {
			titles = append(titles, title)
		}
	}
	return titles, scanner.Err()
}
