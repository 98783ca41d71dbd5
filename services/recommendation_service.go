package services

import (
	"healthtrack/utils"
)

type Recommendation struct {
	Category string `json:"category"`
	Title    string `json:"title"`
	Detail   string `json:"detail"`
	Priority string `json:"priority"` // high | medium | low
}

var concernRecs = map[string][]Recommendation{
	utils.ConcernElevatedBloodPressure: {
		{Category: "vitals", Priority: "high", Title: "Talk to a healthcare provider",
			Detail: "Several of your recent blood pressure readings were elevated. Share them with your doctor."},
		{Category: "nutrition", Priority: "medium", Title: "Cut back on salt",
			Detail: "Keep sodium under 2300 mg a day and favour fresh food over processed food."},
	},
	utils.ConcernIrregularSleep: {
		{Category: "sleep", Priority: "medium", Title: "Keep a fixed bedtime",
			Detail: "Go to bed and wake up at the same time every day, weekends included."},
		{Category: "sleep", Priority: "low", Title: "Wind down without screens",
			Detail: "Put phones and laptops away 30 minutes before bed."},
	},
	utils.ConcernLowActivity: {
		{Category: "fitness", Priority: "medium", Title: "Add a daily walk",
			Detail: "A 20 minute walk adds roughly 2500 steps."},
		{Category: "fitness", Priority: "low", Title: "Break up sitting time",
			Detail: "Stand up and move for a few minutes every hour."},
	},
}

var maintainRec = Recommendation{
	Category: "general", Priority: "low", Title: "Keep it up",
	Detail: "Your recent metrics look healthy. Keep logging to track your progress.",
}

var moreDataRec = Recommendation{
	Category: "general", Priority: "low", Title: "Log more metrics",
	Detail: "Record heart rate, blood pressure, sleep and steps regularly for a more complete analysis.",
}

// Recommend maps each concern to its canned advice, in concern order.
// With no concerns it returns a single maintain or log-more entry.
func Recommend(res utils.ScoreResult, sampleCount int) []Recommendation {
	out := []Recommendation{}
	for _, c := range res.Concerns {
		out = append(out, concernRecs[c]...)
	}
	if len(out) > 0 {
		return out
	}
	if sampleCount == 0 || res.Incomplete {
		return append(out, moreDataRec)
	}
	return append(out, maintainRec)
}
