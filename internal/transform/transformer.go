package transform

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/broucz/machine-learning-suite/internal/pipeline"
)

// renameColumns maps raw event columns to their feature names.
var renameColumns = map[string]string{
	"idlanguage":           "browser_language",
	"region_geoname_id":    "region",
	"city_geoname_id":      "city",
	"idos":                 "os",
	"idproxy":              "proxy",
	"idadvertiser":         "advertiser_id",
	"idcampaign":           "campaign_id",
	"idvariation":          "variation_id",
	"idadvertiser_ad_type": "campaign_type",
	"ad_type":              "zone_type",
	"idpublisher":          "publisher_id",
	"idsite":               "site_id",
	"idzone":               "zone_id",
	"sub":                  "sub_id",
	"idtraffic_type":       "traffic_type",
	"goal":                 "conversion_status",
}

// Logged-keys set names. Browser and ad-format sets are reserved for
// dictionaries that do not exist yet.
const (
	deviceKeys          = "device"
	browserKeys         = "browser"
	productCategoryKeys = "product_category"
	contentCategoryKeys = "content_category"
	adFormatKeys        = "ad_format"
)

// Transformer applies the feature derivation to raw event tables. A single
// instance is shared across worker goroutines; the logged-keys sets that
// suppress duplicate missing-key logs are guarded by a mutex.
type Transformer struct {
	dictionary pipeline.Dictionary
	logger     *zap.Logger

	mu         sync.Mutex
	loggedKeys map[string]map[int64]struct{}
}

// New creates a Transformer using the given dictionary for categorical
// feature lookups.
func New(dictionary pipeline.Dictionary, logger *zap.Logger) *Transformer {
	return &Transformer{
		dictionary: dictionary,
		logger:     logger,
		loggedKeys: map[string]map[int64]struct{}{
			deviceKeys:          {},
			browserKeys:         {},
			productCategoryKeys: {},
			contentCategoryKeys: {},
			adFormatKeys:        {},
		},
	}
}

// mappedValue resolves key in the named dictionary. A missing key yields
// the default pair (0,0) and is logged once per logged-keys set.
func (t *Transformer) mappedValue(key int64, dictionaryName, keySet string) (pipeline.Pair, error) {
	mapping, err := t.dictionary.Get(dictionaryName)
	if err != nil {
		return pipeline.Pair{}, err
	}
	pair, ok := mapping[key]
	if !ok {
		t.mu.Lock()
		if _, seen := t.loggedKeys[keySet][key]; !seen {
			t.logger.Info("missing dictionary entry",
				zap.Int64("key", key),
				zap.String("dictionary", dictionaryName))
			t.loggedKeys[keySet][key] = struct{}{}
		}
		t.mu.Unlock()
	}
	return pair, nil
}

// Transform rewrites the raw table in place: columns are renamed, the
// six dictionary features are derived from the three raw id columns (which
// are then dropped), and hour_of_day and day_of_week are extracted from
// date_time. day_of_week uses the Monday=0 convention.
func (t *Transformer) Transform(table *pipeline.Table) (*pipeline.Table, error) {
	table.Rename(renameColumns)

	derivations := []struct {
		source     string
		dictionary string
		keySet     string
		first      string
		second     string
	}{
		{"iddevice", DeviceDict, deviceKeys, "device_type", "device_brand"},
		{"idproduct_category", ProductCategoryDict, productCategoryKeys, "ad_category", "ad_sub_category"},
		{"idcategory", ContentCategoryDict, contentCategoryKeys, "content_category", "content_sub_category"},
	}

	for _, d := range derivations {
		for _, row := range table.Rows {
			key, err := asInt64(row[d.source])
			if err != nil {
				return nil, fmt.Errorf("column %s: %w", d.source, err)
			}
			pair, err := t.mappedValue(key, d.dictionary, d.keySet)
			if err != nil {
				return nil, err
			}
			row[d.first] = pair[0]
			row[d.second] = pair[1]
		}
		table.AddColumn(d.first)
		table.AddColumn(d.second)
	}
	table.Drop("iddevice", "idproduct_category", "idcategory")

	for _, row := range table.Rows {
		ts, ok := row["date_time"].(time.Time)
		if !ok {
			return nil, fmt.Errorf("column date_time: expected timestamp, got %T", row["date_time"])
		}
		row["hour_of_day"] = int64(ts.Hour())
		row["day_of_week"] = int64((int(ts.Weekday()) + 6) % 7)
	}
	table.AddColumn("hour_of_day")
	table.AddColumn("day_of_week")

	return table, nil
}

// asInt64 converts the integer shapes a database driver may hand back.
func asInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int8:
		return int64(n), nil
	case uint64:
		return int64(n), nil
	case uint32:
		return int64(n), nil
	case uint16:
		return int64(n), nil
	case uint8:
		return int64(n), nil
	default:
		return 0, fmt.Errorf("expected integer, got %T", v)
	}
}
