package utils

// Band is a closed numeric range [Min, Max].
type Band struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func (b Band) Contains(v float64) bool { return v >= b.Min && v <= b.Max }

// ReferenceRanges holds every threshold the health scorer uses.
type ReferenceRanges struct {
	BaseScore int `json:"base_score"`

	// Heart rate, bpm. Outside NormalHeartRate scores HeartRateOutOfRange,
	// inside RestingHeartRate scores HeartRateIdeal, anything else 0.
	NormalHeartRate     Band `json:"normal_heart_rate"`
	RestingHeartRate    Band `json:"resting_heart_rate"`
	HeartRateIdeal      int  `json:"heart_rate_ideal"`
	HeartRateOutOfRange int  `json:"heart_rate_out_of_range"`

	// Blood pressure, mmHg. A reading is optimal when strictly below both limits.
	OptimalSystolicBelow   float64 `json:"optimal_systolic_below"`
	OptimalDiastolicBelow  float64 `json:"optimal_diastolic_below"`
	OptimalShareGood       float64 `json:"optimal_share_good"`
	OptimalSharePoor       float64 `json:"optimal_share_poor"`
	BloodPressureGood      int     `json:"blood_pressure_good"`
	BloodPressurePoor      int     `json:"blood_pressure_poor"`
	ElevatedSystolicAbove  float64 `json:"elevated_systolic_above"`
	ElevatedDiastolicAbove float64 `json:"elevated_diastolic_above"`
	ElevatedShareConcern   float64 `json:"elevated_share_concern"`

	// Sleep, hours.
	RecommendedSleep  Band    `json:"recommended_sleep"`
	ShortSleepBelow   float64 `json:"short_sleep_below"`
	SleepIdeal        int     `json:"sleep_ideal"`
	SleepShort        int     `json:"sleep_short"`
	SleepSlightlyLow  int     `json:"sleep_slightly_low"`
	SleepSwingHours   float64 `json:"sleep_swing_hours"`
	SleepSwingConcern float64 `json:"sleep_swing_concern"`

	// Steps per sample.
	StepsTarget       float64 `json:"steps_target"`
	StepsActive       float64 `json:"steps_active"`
	StepsSedentary    float64 `json:"steps_sedentary"`
	StepsTargetMet    int     `json:"steps_target_met"`
	StepsActiveBonus  int     `json:"steps_active_bonus"`
	StepsLow          int     `json:"steps_low"`
	LowStepsShareWarn float64 `json:"low_steps_share_warn"`
}

// DefaultReferenceRanges returns the stock thresholds.
func DefaultReferenceRanges() ReferenceRanges {
	return ReferenceRanges{
		BaseScore: 70,

		NormalHeartRate:     Band{Min: 60, Max: 100},
		RestingHeartRate:    Band{Min: 60, Max: 80},
		HeartRateIdeal:      5,
		HeartRateOutOfRange: -5,

		OptimalSystolicBelow:   120,
		OptimalDiastolicBelow:  80,
		OptimalShareGood:       0.8,
		OptimalSharePoor:       0.4,
		BloodPressureGood:      10,
		BloodPressurePoor:      -10,
		ElevatedSystolicAbove:  130,
		ElevatedDiastolicAbove: 80,
		ElevatedShareConcern:   0.5,

		RecommendedSleep:  Band{Min: 7, Max: 9},
		ShortSleepBelow:   6,
		SleepIdeal:        8,
		SleepShort:        -8,
		SleepSlightlyLow:  -4,
		SleepSwingHours:   1.5,
		SleepSwingConcern: 1.0 / 3.0,

		StepsTarget:       10000,
		StepsActive:       7500,
		StepsSedentary:    5000,
		StepsTargetMet:    10,
		StepsActiveBonus:  5,
		StepsLow:          -5,
		LowStepsShareWarn: 0.5,
	}
}
