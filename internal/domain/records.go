package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"fortio.org/safecast"
)

// Provider identifies an upstream data source.
type Provider string

const (
	ProviderAggregator   Provider = "covid19india"
	ProviderMinistryAPI  Provider = "mohfw-api"
	ProviderMinistrySite Provider = "mohfw-site"
	ProviderDisasterAPI  Provider = "ndma-api"
)

// ParseProvider accepts the provider names used in commands and flags.
func ParseProvider(s string) (Provider, error) {
	switch p := Provider(strings.ToLower(strings.TrimSpace(s))); p {
	case ProviderAggregator, ProviderMinistryAPI, ProviderMinistrySite, ProviderDisasterAPI:
		return p, nil
	default:
		return "", fmt.Errorf("unknown provider %q", s)
	}
}

// Count is a numeric field as providers encode it: a JSON number, a numeric
// string, or null. Parsing is deferred to the normalizer so that a bad value
// rejects one row instead of the whole payload.
type Count string

// UnmarshalJSON accepts strings, numbers, and null.
func (c *Count) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	switch {
	case s == "null":
		*c = ""
	case strings.HasPrefix(s, `"`):
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*c = Count(str)
	default:
		*c = Count(s)
	}
	return nil
}

var errMissingCount = errors.New("missing value")

// parseCount parses an integer count. Integral floats ("105.0") are
// accepted since some ArcGIS layers serialize counts as doubles.
func parseCount(raw string) (int, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, errMissingCount
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.Trunc(f) != f {
		return 0, fmt.Errorf("not an integer: %q", raw)
	}
	n, err := safecast.Convert[int](f)
	if err != nil {
		return 0, fmt.Errorf("out of range: %q: %w", raw, err)
	}
	return n, nil
}

// AggregatorRecord is one "statewise" entry of the covid19india data.json.
type AggregatorRecord struct {
	State          string `json:"state"`
	StateCode      string `json:"statecode"`
	Confirmed      Count  `json:"confirmed"`
	Recovered      Count  `json:"recovered"`
	Deaths         Count  `json:"deaths"`
	Active         Count  `json:"active"`
	DeltaConfirmed Count  `json:"deltaconfirmed"`
	LastUpdated    string `json:"lastupdatedtime"`
}

// AggregatorSnapshot is the covid19india data.json document.
type AggregatorSnapshot struct {
	Statewise []AggregatorRecord `json:"statewise"`
}

// DistrictRecord is one district in the covid19india district-wise document.
type DistrictRecord struct {
	District  string `json:"district"`
	Confirmed Count  `json:"confirmed"`
	Active    Count  `json:"active"`
	Recovered Count  `json:"recovered"`
	Deceased  Count  `json:"deceased"`
	Delta     struct {
		Confirmed Count `json:"confirmed"`
	} `json:"delta"`
}

// StateDistricts is one state in the covid19india v2 state_district_wise.json.
type StateDistricts struct {
	State        string           `json:"state"`
	StateCode    string           `json:"statecode"`
	DistrictData []DistrictRecord `json:"districtData"`
}

// MinistryRecord is one entry of the MoHFW datanew.json array.
type MinistryRecord struct {
	StateName   string `json:"state_name"`
	StateCode   string `json:"state_code"`
	NewActive   Count  `json:"new_active"`
	NewCured    Count  `json:"new_cured"`
	NewDeath    Count  `json:"new_death"`
	NewPositive Count  `json:"new_positive"`
}

// MinistrySiteRow is one row scraped from the MoHFW website table. Cells
// hold the raw text, footnote markers included.
type MinistrySiteRow struct {
	Name      string
	Active    string
	Recovered string
	Deceased  string
	Confirmed string
}

// DisasterPayload is the NDMA ArcGIS feature query response.
type DisasterPayload struct {
	Features []DisasterFeature `json:"features"`
}

// DisasterFeature wraps the attributes of one NDMA feature.
type DisasterFeature struct {
	Attributes DisasterAttributes `json:"attributes"`
}

// DisasterAttributes holds the NDMA per-state counts.
type DisasterAttributes struct {
	StateName               string `json:"state_name"`
	ConfirmedCases          Count  `json:"confirmedcases"`
	CuredDischargedMigrated Count  `json:"cured_discharged_migrated"`
	Deaths                  Count  `json:"deaths"`
}
