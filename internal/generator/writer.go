package generator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vanshika/movieshelf/backend/internal/domain"
)

// WriteDataset serializes the dataset to path. Files ending in .yaml or .yml
// are written as YAML, everything else as indented JSON.
func WriteDataset(dataset domain.Dataset, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	if isYAML(path) {
		encoder := yaml.NewEncoder(file)
		encoder.SetIndent(2)
		if err := encoder.Encode(dataset); err != nil {
			return fmt.Errorf("encode yaml for %s: %w", path, err)
		}
		return encoder.Close()
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(dataset); err != nil {
		return fmt.Errorf("encode json for %s: %w", path, err)
	}
	return nil
}

// LoadDataset reads a dataset previously written by WriteDataset or by hand.
// Whole numbers in movie properties load as int64 and other numbers as
// float64, so Neo4j stores them as Integer and Float respectively. A numeric
// tmdbId is converted to its decimal string.
func LoadDataset(path string) (domain.Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("read %s: %w", path, err)
	}

	var dataset domain.Dataset
	if isYAML(path) {
		err = yaml.Unmarshal(data, &dataset)
	} else {
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.UseNumber()
		err = decoder.Decode(&dataset)
	}
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("decode %s: %w", path, err)
	}

	for i, movie := range dataset.Movies {
		dataset.Movies[i], err = normalizeMovie(movie)
		if err != nil {
			return domain.Dataset{}, fmt.Errorf("decode %s: movie %d: %w", path, i, err)
		}
	}
	return dataset, nil
}

func normalizeMovie(movie domain.Movie) (domain.Movie, error) {
	out := make(domain.Movie, len(movie))
	for k, v := range movie {
		n, err := normalizeValue(v)
		if err != nil {
			return nil, fmt.Errorf("property %s: %w", k, err)
		}
		out[k] = n
	}

	switch id := out[domain.MoviePropTmdbID].(type) {
	case int64:
		out[domain.MoviePropTmdbID] = strconv.FormatInt(id, 10)
	case float64:
		return nil, fmt.Errorf("tmdbId %v is not an integer", id)
	}
	return out, nil
}

func normalizeValue(v any) (any, error) {
	switch val := v.(type) {
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i, nil
		}
		return val.Float64()
	case int:
		return int64(val), nil
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			n, err := normalizeValue(item)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	default:
		return v, nil
	}
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
