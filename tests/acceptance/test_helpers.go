package acceptance

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// SkipMarker is recorded when an expression's guard leaves the image alone.
const SkipMarker = "skip"

type SourceSizes struct {
	Name    string            `json:"name"`
	Width   int               `json:"width"`
	Height  int               `json:"height"`
	Results map[string]string `json:"results"` // key is the size expression
}

type SizeStore struct {
	path        string
	updateSizes bool
	sources     map[string]SourceSizes // name -> expected sizes
}

func NewSizeStore(testDataPath string) *SizeStore {
	return &SizeStore{
		path:        filepath.Join(testDataPath, "expected_sizes.json"),
		updateSizes: os.Getenv("UPDATE_TEST_DATA") == "true",
		sources:     make(map[string]SourceSizes),
	}
}

func (s *SizeStore) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) && s.updateSizes {
			return nil
		}
		return fmt.Errorf("failed to read size file: %w", err)
	}

	var list []SourceSizes
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("failed to parse size file: %w", err)
	}

	for _, src := range list {
		s.sources[src.Name] = src
	}
	return nil
}

func (s *SizeStore) Save() error {
	if !s.updateSizes {
		return nil
	}

	var list []SourceSizes
	for _, src := range s.sources {
		list = append(list, src)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Name < list[j].Name
	})

	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal sizes: %w", err)
	}
	if err := os.WriteFile(s.path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write size file: %w", err)
	}
	return nil
}

func (s *SizeStore) Record(name, expr, result string) {
	src := s.sources[name]
	if src.Results == nil {
		src.Name = name
		src.Results = make(map[string]string)
	}
	src.Results[expr] = result
	s.sources[name] = src
}

func (s *SizeStore) Sources() []SourceSizes {
	list := make([]SourceSizes, 0, len(s.sources))
	for _, src := range s.sources {
		list = append(list, src)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Name < list[j].Name
	})
	return list
}

func (s *SizeStore) IsUpdateMode() bool {
	return s.updateSizes
}

func Expressions(results map[string]string) []string {
	exprs := make([]string, 0, len(results))
	for e := range results {
		exprs = append(exprs, e)
	}
	sort.Strings(exprs)
	return exprs
}
