package common

import (
	"fmt"
	"os"
	"path/filepath"

	"pillar-alerts-go/internal/engine"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v2"
)

// thresholdsFile mirrors engine.Thresholds for the yaml tuning file. Every
// field is optional: a zero or empty value keeps the engine default. Money
// ratios are strings so they parse through decimal rather than float.
type thresholdsFile struct {
	DailyAnomalyMinSamples     int    `yaml:"daily_anomaly_min_samples"`
	DailyAnomalyRatio          string `yaml:"daily_anomaly_ratio"`
	DailyAnomalyHighExcess     string `yaml:"daily_anomaly_high_excess"`
	MonthlyOverspendRatio      string `yaml:"monthly_overspend_ratio"`
	MonthlyOverspendHighExcess string `yaml:"monthly_overspend_high_excess"`
	CategoryShareFloor         string `yaml:"category_share_floor"`
	CategoryOverflowRatio      string `yaml:"category_overflow_ratio"`
	SubscriptionShareFloor     string `yaml:"subscription_share_floor"`
	SubscriptionShareHigh      string `yaml:"subscription_share_high"`
	PriceExcessRatio           string `yaml:"price_excess_ratio"`
	PriceMinPoints             int    `yaml:"price_min_points"`
	ExpenseStaleDays           int    `yaml:"expense_stale_days"`
	ExpenseStaleMediumDays     int    `yaml:"expense_stale_medium_days"`

	MoodLowLevel          int     `yaml:"mood_low_level"`
	MoodLowRunMin         int     `yaml:"mood_low_run_min"`
	MoodLowRunHigh        int     `yaml:"mood_low_run_high"`
	SharpDropMinSamples   int     `yaml:"sharp_drop_min_samples"`
	SharpDropRatio        float64 `yaml:"sharp_drop_ratio"`
	MoodStaleDays         int     `yaml:"mood_stale_days"`
	MoodStaleMediumDays   int     `yaml:"mood_stale_medium_days"`
	MoodVariabilityStddev float64 `yaml:"mood_variability_stddev"`

	InactivityAlertDays      int     `yaml:"inactivity_alert_days"`
	InactivityHighDays       int     `yaml:"inactivity_high_days"`
	AbandonmentGapMin        int     `yaml:"abandonment_gap_min"`
	AbandonmentActivePerWeek float64 `yaml:"abandonment_active_per_week"`
	ProlongedInactivityDays  int     `yaml:"prolonged_inactivity_days"`
	IrregularityGapDays      int     `yaml:"irregularity_gap_days"`
}

// LoadThresholds reads the tuning file and overlays it on the engine
// defaults. A missing file is not an error: the defaults are a complete
// policy on their own.
func LoadThresholds(thresholdsFilePath string) (engine.Thresholds, error) {
	th := engine.DefaultThresholds()

	path := thresholdsFilePath
	if !filepath.IsAbs(path) {
		wd, err := os.Getwd()
		if err != nil {
			return th, fmt.Errorf("failed to get working directory: %w", err)
		}
		path = filepath.Join(wd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return th, nil
		}
		return th, fmt.Errorf("unable to read %s: %w", thresholdsFilePath, err)
	}

	var file thresholdsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return th, fmt.Errorf("unable to parse %s: %w", thresholdsFilePath, err)
	}

	if err := applyOverrides(&th, file); err != nil {
		return th, fmt.Errorf("invalid value in %s: %w", thresholdsFilePath, err)
	}
	return th, nil
}

func applyOverrides(th *engine.Thresholds, file thresholdsFile) error {
	decimals := []struct {
		key   string
		value string
		dst   *decimal.Decimal
	}{
		{"daily_anomaly_ratio", file.DailyAnomalyRatio, &th.DailyAnomalyRatio},
		{"daily_anomaly_high_excess", file.DailyAnomalyHighExcess, &th.DailyAnomalyHighExcess},
		{"monthly_overspend_ratio", file.MonthlyOverspendRatio, &th.MonthlyOverspendRatio},
		{"monthly_overspend_high_excess", file.MonthlyOverspendHighExcess, &th.MonthlyOverspendHighExcess},
		{"category_share_floor", file.CategoryShareFloor, &th.CategoryShareFloor},
		{"category_overflow_ratio", file.CategoryOverflowRatio, &th.CategoryOverflowRatio},
		{"subscription_share_floor", file.SubscriptionShareFloor, &th.SubscriptionShareFloor},
		{"subscription_share_high", file.SubscriptionShareHigh, &th.SubscriptionShareHigh},
		{"price_excess_ratio", file.PriceExcessRatio, &th.PriceExcessRatio},
	}
	for _, d := range decimals {
		if d.value == "" {
			continue
		}
		parsed, err := decimal.NewFromString(d.value)
		if err != nil {
			return fmt.Errorf("%s: %q is not a decimal", d.key, d.value)
		}
		if !parsed.IsPositive() {
			return fmt.Errorf("%s must be positive, got %q", d.key, d.value)
		}
		*d.dst = parsed
	}

	ints := []struct {
		key   string
		value int
		dst   *int
	}{
		{"daily_anomaly_min_samples", file.DailyAnomalyMinSamples, &th.DailyAnomalyMinSamples},
		{"price_min_points", file.PriceMinPoints, &th.PriceMinPoints},
		{"expense_stale_days", file.ExpenseStaleDays, &th.ExpenseStaleDays},
		{"expense_stale_medium_days", file.ExpenseStaleMediumDays, &th.ExpenseStaleMediumDays},
		{"mood_low_level", file.MoodLowLevel, &th.MoodLowLevel},
		{"mood_low_run_min", file.MoodLowRunMin, &th.MoodLowRunMin},
		{"mood_low_run_high", file.MoodLowRunHigh, &th.MoodLowRunHigh},
		{"sharp_drop_min_samples", file.SharpDropMinSamples, &th.SharpDropMinSamples},
		{"mood_stale_days", file.MoodStaleDays, &th.MoodStaleDays},
		{"mood_stale_medium_days", file.MoodStaleMediumDays, &th.MoodStaleMediumDays},
		{"inactivity_alert_days", file.InactivityAlertDays, &th.InactivityAlertDays},
		{"inactivity_high_days", file.InactivityHighDays, &th.InactivityHighDays},
		{"abandonment_gap_min", file.AbandonmentGapMin, &th.AbandonmentGapMin},
		{"prolonged_inactivity_days", file.ProlongedInactivityDays, &th.ProlongedInactivityDays},
		{"irregularity_gap_days", file.IrregularityGapDays, &th.IrregularityGapDays},
	}
	for _, i := range ints {
		if i.value == 0 {
			continue
		}
		if i.value < 0 {
			return fmt.Errorf("%s must be positive, got %d", i.key, i.value)
		}
		*i.dst = i.value
	}

	floats := []struct {
		key   string
		value float64
		dst   *float64
	}{
		{"sharp_drop_ratio", file.SharpDropRatio, &th.SharpDropRatio},
		{"mood_variability_stddev", file.MoodVariabilityStddev, &th.MoodVariabilityStddev},
		{"abandonment_active_per_week", file.AbandonmentActivePerWeek, &th.AbandonmentActivePerWeek},
	}
	for _, f := range floats {
		if f.value == 0 {
			continue
		}
		if f.value < 0 {
			return fmt.Errorf("%s must be positive, got %f", f.key, f.value)
		}
		*f.dst = f.value
	}

	return nil
}
