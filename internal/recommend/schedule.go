package recommend

// Weekdays in schedule order.
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

const defaultScheduleHours = 2

// ScheduleTopic is an upcoming topic to place in the week.
type ScheduleTopic struct {
	TopicID        string  `json:"topic_id"`
	TopicTitle     string  `json:"topic_title"`
	EstimatedHours float64 `json:"estimated_hours,omitempty"`
}

// DayPlan lists the topics placed on one weekday.
type DayPlan struct {
	Day        string          `json:"day"`
	Topics     []ScheduleTopic `json:"topics"`
	TotalHours float64         `json:"total_hours"`
}

// Schedule is a single week of study.
type Schedule struct {
	Pace       string    `json:"pace"`
	Days       []DayPlan `json:"days"`
	TotalHours float64   `json:"total_hours"`
	// Unscheduled counts trailing topics that did not fit in the week.
	Unscheduled int `json:"unscheduled"`
}

// StudySchedule packs topics in input order into Monday..Sunday. A topic
// that would overflow a day moves to the next day and is never split.
// Topics without an estimate count as 2 hours. Days with no topics are
// omitted and anything left after Sunday is reported in Unscheduled.
func StudySchedule(hoursPerDay float64, pace string, topics []ScheduleTopic) Schedule {
	s := Schedule{Pace: pace, Days: []DayPlan{}}

	next := 0
	for _, day := range Weekdays {
		if next >= len(topics) {
			break
		}
		plan := DayPlan{Day: day}
		for plan.TotalHours < hoursPerDay && next < len(topics) {
			hours := topics[next].EstimatedHours
			if hours == 0 {
				hours = defaultScheduleHours
			}
			if plan.TotalHours+hours > hoursPerDay {
				break
			}
			t := topics[next]
			t.EstimatedHours = hours
			plan.Topics = append(plan.Topics, t)
			plan.TotalHours += hours
			next++
		}
		if len(plan.Topics) > 0 {
			s.Days = append(s.Days, plan)
			s.TotalHours += plan.TotalHours
		}
	}

	s.Unscheduled = len(topics) - next
	return s
}

// FromRecommendations converts recommendations into schedule input.
func FromRecommendations(recs []Recommendation) []ScheduleTopic {
	topics := make([]ScheduleTopic, len(recs))
	for i, r := range recs {
		topics[i] = ScheduleTopic{TopicID: r.TopicID, TopicTitle: r.TopicTitle, EstimatedHours: r.EstimatedHours}
	}
	return topics
}
