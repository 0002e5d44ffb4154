package services

import (
	"github.com/NutriFlow-2025/coaching-service/internal/models"
)

// Answer-to-score maps for the eight scored dimensions. The "100%"/"75%"
// adherence entries exist for rows submitted through an older form revision.
var (
	adherenceScoreMap = map[string]float64{
		"Estou conseguindo seguir tudo tranquilamente":                  100,
		"Consigo seguir tudo, mas às vezes passo por alguma dificuldade": 75,
		"Não consigo realizar tudo":                                      40,
		"Não estou conseguindo realizar nada":                            0,
		"100%": 100,
		"75%":  75,
	}

	dedicationScoreMap = map[string]float64{
		"Dei o meu melhor":       100,
		"Me dediquei":            75,
		"Neutro":                 50,
		"Poderia ter feito mais": 25,
		"Não me dediquei nada":   0,
	}

	dispositionScoreMap = map[string]float64{
		"Muito disposto(a)":      100,
		"Geralmente disposto(a)": 75,
		"Depende do dia":         50,
		"Geralmente indisposto(a)": 25,
		"Zero disposição":          0,
	}

	routineScoreMap = map[string]float64{
		"Bem estruturada e equilibrada":                 100,
		"Um pouco desorganizada, mas consigo lidar":     50,
		"Muito desorganizada e me sinto sobrecarregado": 0,
	}

	evolutionScoreMap = map[string]float64{
		"Bastante evolução":        100,
		"Consigo notar evolução":   75,
		"Não noto evolução":        50,
		"Talvez esteja regredindo": 25,
		"Estou regredindo":         0,
	}

	sleepScoreMap = map[string]float64{
		"Ótimo":    100,
		"Bom":      75,
		"Neutro":   50,
		"Ruim":     25,
		"Terrível": 0,
	}

	// Stress and anxiety run inverted: the worse the answer, the higher the
	// numeric score
	stressScoreMap = map[string]float64{
		"Não estive estressado(a)":     0,
		"Um pouco estressado(a)":       50,
		"Constantemente estressado(a)": 100,
	}

	anxietyScoreMap = map[string]float64{
		"Não senti ansiedade":                      0,
		"Senti ansiedade em momentos específicos":  50,
		"Senti ansiedade de forma constante":       100,
	}
)

// Score computes the derived scores from the source answers. Pure and
// idempotent; unmapped or missing answers score zero. The overall score
// averages adherence and dedication only — the asymmetric weighting is
// intentional and preserved.
func Score(answers models.CheckinAnswers) models.CheckinScores {
	scores := models.CheckinScores{
		Adherence:    lookupScore(answers.Adherence, adherenceScoreMap),
		Dedication:   lookupScore(answers.Dedication, dedicationScoreMap),
		Disposition:  lookupScore(answers.Disposition, dispositionScoreMap),
		Routine:      lookupScore(answers.Routine, routineScoreMap),
		Evolution:    lookupScore(answers.Evolution, evolutionScoreMap),
		SleepQuality: lookupScore(answers.SleepQuality, sleepScoreMap),
		Stress:       lookupScore(answers.Stress, stressScoreMap),
		Anxiety:      lookupScore(answers.Anxiety, anxietyScoreMap),
	}
	scores.Overall = (scores.Adherence + scores.Dedication) / 2
	return scores
}

func lookupScore(answer *string, mapping map[string]float64) float64 {
	if answer == nil {
		return 0
	}
	return mapping[*answer] // unmapped answers score 0
}

// NumericValue coerces an optional numeric answer, defaulting to zero on
// absence. Coercion never errors.
func NumericValue(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// TrafficLight is the heatmap cell color for a dimension value
type TrafficLight string

const (
	LightGreen  TrafficLight = "green"
	LightYellow TrafficLight = "yellow"
	LightRed    TrafficLight = "red"
)

// ScoreLight grades a 0-100 score: green >= 75, yellow >= 50, red below
func ScoreLight(score float64) TrafficLight {
	switch {
	case score >= 75:
		return LightGreen
	case score >= 50:
		return LightYellow
	default:
		return LightRed
	}
}

// InvertedScoreLight grades stress/anxiety scores where 0 is best
func InvertedScoreLight(score float64) TrafficLight {
	switch {
	case score == 0:
		return LightGreen
	case score <= 50:
		return LightYellow
	default:
		return LightRed
	}
}

// MealsOutsideLight grades off-plan meal counts
func MealsOutsideLight(count float64) TrafficLight {
	switch {
	case count <= 2:
		return LightGreen
	case count <= 4:
		return LightYellow
	default:
		return LightRed
	}
}

// AlcoholLight grades alcohol days
func AlcoholLight(days float64) TrafficLight {
	switch {
	case days == 0:
		return LightGreen
	case days <= 2:
		return LightYellow
	default:
		return LightRed
	}
}

// TrainingLight grades weekly training days
func TrainingLight(days float64) TrafficLight {
	switch {
	case days >= 3:
		return LightGreen
	case days >= 1:
		return LightYellow
	default:
		return LightRed
	}
}
