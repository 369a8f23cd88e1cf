package catalog

import "github.com/example/bgcoach/pkg/models"

// BeginnerLessons returns the built-in degraded-mode lesson set used when
// the catalog service cannot be reached. These mirror the foundational
// grammar items every learner starts with.
func BeginnerLessons() []models.Lesson {
	return []models.Lesson{
		{
			ID:          "lesson.no_infinitive",
			Title:       "Няма инфинитив: 'да' + сегашно",
			Level:       []string{"A2", "B1"},
			Explanation: "В български няма инфинитив. Използваме 'да' + сегашно: 'Искам да поръчам'.",
			ErrorPatterns: []string{
				"bg.no_infinitive.da_present",
			},
			Trigger: models.TriggerCondition{
				MinOccurrences:      2,
				TimeWindowHours:     24,
				ConfidenceThreshold: 0.7,
			},
			Drills: []models.LessonDrill{
				{Type: "transform", Prompt: "Искам ___ (поръчвам) кафе.", Answer: "да поръчам"},
				{Type: "fill", Prompt: "Трябва ___ работя утре.", Answer: "да"},
			},
		},
		{
			ID:          "lesson.definite_article",
			Title:       "Определителен член: накрайник",
			Level:       []string{"A1", "A2"},
			Explanation: "Определителният член в български е накрайник: -ът/-та/-то/-те.",
			ErrorPatterns: []string{
				"bg.definite.article.postposed",
			},
			Trigger: models.TriggerCondition{
				MinOccurrences:      2,
				TimeWindowHours:     24,
				ConfidenceThreshold: 0.7,
			},
			Drills: []models.LessonDrill{
				{Type: "transform", Prompt: "Виждам ___ (стол).", Answer: "стола"},
			},
		},
		{
			ID:          "lesson.future_shte",
			Title:       "Бъдеще време с 'ще'",
			Level:       []string{"A1", "A2"},
			Explanation: "Бъдеще време се образува с 'ще' + сегашно: 'Утре ще работя'.",
			ErrorPatterns: []string{
				"bg.future.shte",
			},
			Trigger: models.TriggerCondition{
				MinOccurrences:      2,
				TimeWindowHours:     24,
				ConfidenceThreshold: 0.7,
			},
			Drills: []models.LessonDrill{
				{Type: "fill", Prompt: "Утре ___ пътувам до София.", Answer: "ще"},
			},
		},
	}
}
