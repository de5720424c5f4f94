// Package transform derives the model feature columns from raw event
// tables: fixed column renames, dictionary-based categorical features and
// calendar fields.
package transform

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/broucz/machine-learning-suite/internal/pipeline"
)

// Names of the fixed dictionary set.
const (
	DeviceDict          = "device_dict"
	ProductCategoryDict = "product_category_dict"
	ContentCategoryDict = "content_category_dict"
)

// ErrUnknownDictionary reports a lookup against a name outside the fixed
// dictionary set.
var ErrUnknownDictionary = errors.New("unknown dictionary name")

type deviceRecord struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	DeviceType struct {
		ID int64 `json:"id"`
	} `json:"device_type"`
}

type categoryRecord struct {
	ID     int64 `json:"id"`
	Parent int64 `json:"parent"`
}

// StaticDictionary loads the three reference catalogs from JSON files at
// construction. Mappings are immutable afterwards and safe to share across
// worker goroutines without locking.
type StaticDictionary struct {
	dictionaries map[string]pipeline.Mapping
}

// NewStaticDictionary loads devices.json, product_categories.json and
// content_categories.json from rootDir.
func NewStaticDictionary(rootDir string) (*StaticDictionary, error) {
	d := &StaticDictionary{
		dictionaries: map[string]pipeline.Mapping{
			DeviceDict:          {},
			ProductCategoryDict: {},
			ContentCategoryDict: {},
		},
	}
	if err := d.loadDevices(filepath.Join(rootDir, "devices.json")); err != nil {
		return nil, err
	}
	if err := d.loadCategories(filepath.Join(rootDir, "product_categories.json"), ProductCategoryDict); err != nil {
		return nil, err
	}
	if err := d.loadCategories(filepath.Join(rootDir, "content_categories.json"), ContentCategoryDict); err != nil {
		return nil, err
	}
	return d, nil
}

// loadDevices maps device id → (device-type id, brand index). Brand indexes
// are assigned densely, starting at 1, in first-seen order of the
// normalized brand name.
func (d *StaticDictionary) loadDevices(path string) error {
	var devices []deviceRecord
	if err := loadJSON(path, &devices); err != nil {
		return err
	}
	brandIndex := make(map[string]int64)
	for _, device := range devices {
		brand := strings.ReplaceAll(strings.ToLower(device.Name), " ", "_")
		if _, ok := brandIndex[brand]; !ok {
			brandIndex[brand] = int64(len(brandIndex) + 1)
		}
		d.dictionaries[DeviceDict][device.ID] = pipeline.Pair{device.DeviceType.ID, brandIndex[brand]}
	}
	return nil
}

func (d *StaticDictionary) loadCategories(path, name string) error {
	var categories []categoryRecord
	if err := loadJSON(path, &categories); err != nil {
		return err
	}
	for _, category := range categories {
		d.dictionaries[name][category.ID] = pipeline.Pair{category.ID, category.Parent}
	}
	return nil
}

func loadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading dictionary file %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing dictionary file %s: %w", path, err)
	}
	return nil
}

// Get returns the named mapping. The name must be one of the fixed set.
func (d *StaticDictionary) Get(name string) (pipeline.Mapping, error) {
	mapping, ok := d.dictionaries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDictionary, name)
	}
	return mapping, nil
}
