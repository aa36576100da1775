// Command loadingredients imports the ingredient dictionary from a
// JSON or CSV file into Postgres.
//
// JSON input is either a flat list of {"name": ..., "measurement_unit": ...}
// objects or a Django-style fixture with a "fields" wrapper. CSV input
// is "name<sep>unit" rows with ';' or ',' separators, with or without
// a header row.
package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/opyryanova/foodgram/internal/db"
	"github.com/opyryanova/foodgram/internal/ingredients"
	"github.com/opyryanova/foodgram/internal/logging"
)

var (
	app  = kingpin.New("loadingredients", "Import ingredients into the Foodgram database.")
	path = app.Arg("path", "JSON or CSV file with ingredients.").Required().String()
)

type item struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

func main() {
	kingpin.MustParse(app.Parse(os.Args[1:]))

	_ = godotenv.Load()

	logger, err := logging.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(logger); err != nil {
		logger.Fatal("import failed", zap.Error(err))
	}
}

func run(logger *zap.Logger) error {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return errors.New("DATABASE_URL is required")
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, dsn)
	if err != nil {
		return err
	}
	defer pool.Close()

	items, err := loadFile(*path)
	if err != nil {
		return err
	}

	repo := ingredients.NewPostgresRepository(pool)

	created := 0
	for _, it := range items {
		name := strings.TrimSpace(it.Name)
		unit := strings.TrimSpace(it.MeasurementUnit)
		if name == "" || unit == "" {
			continue
		}
		wasNew, err := repo.Upsert(ctx, name, unit)
		if err != nil {
			return fmt.Errorf("upsert %q: %w", name, err)
		}
		if wasNew {
			created++
		}
	}

	total, err := repo.Count(ctx)
	if err != nil {
		return err
	}

	logger.Info("ingredients imported",
		zap.Int("read", len(items)),
		zap.Int("created", created),
		zap.Int("total", total),
	)
	return nil
}

func loadFile(path string) ([]item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		return parseJSON(data)
	}
	return parseCSV(data)
}

func parseJSON(data []byte) ([]item, error) {
	// Django fixture dumps wrap rows in a "fields" object.
	var fixture []struct {
		Fields item `json:"fields"`
	}
	if err := json.Unmarshal(data, &fixture); err == nil && len(fixture) > 0 && fixture[0].Fields.Name != "" {
		items := make([]item, 0, len(fixture))
		for _, f := range fixture {
			items = append(items, f.Fields)
		}
		return items, nil
	}

	var items []item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	return items, nil
}

func parseCSV(data []byte) ([]item, error) {
	text := string(data)

	sep := ','
	if strings.Count(text, ";") > strings.Count(text, ",") {
		sep = ';'
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = sep
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	items := []item{}
	for i, row := range rows {
		if len(row) < 2 {
			continue
		}
		name := strings.TrimSpace(row[0])
		unit := strings.TrimSpace(row[1])
		if i == 0 && isHeader(name, unit) {
			continue
		}
		if name != "" && unit != "" {
			items = append(items, item{Name: name, MeasurementUnit: unit})
		}
	}
	return items, nil
}

func isHeader(name, unit string) bool {
	n := strings.ToLower(name)
	u := strings.ToLower(unit)
	return n == "name" || u == "measurement_unit" || u == "unit"
}
