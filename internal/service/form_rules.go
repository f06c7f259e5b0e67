package service

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/noah-isme/smartclean-api/internal/models"
)

const (
	minPasswordChars = 8
	// bcrypt ignores or rejects input beyond this many bytes.
	maxPasswordBytes = 72
)

var (
	emailPattern    = regexp.MustCompile(`.+@.+\..+`)
	phoneDisallowed = regexp.MustCompile(`[^\d+\s-]`)
	digitPattern    = regexp.MustCompile(`\d`)
	capitalPattern  = regexp.MustCompile(`[A-Z]`)
	symbolPattern   = regexp.MustCompile(`[^A-Za-z0-9]`)
)

type passwordRule struct {
	label string
	check func(string) bool
}

var passwordRules = []passwordRule{
	{label: "At least 8 characters", check: func(v string) bool { return utf8.RuneCountInString(v) >= minPasswordChars }},
	{label: "Includes a number", check: digitPattern.MatchString},
	{label: "Includes a capital letter", check: capitalPattern.MatchString},
	{label: "Includes a symbol", check: symbolPattern.MatchString},
}

// ValidEmail applies the loose address check used by every SmartClean form.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// SanitizePhone keeps digits, plus signs, whitespace and dashes.
func SanitizePhone(phone string) string {
	return phoneDisallowed.ReplaceAllString(phone, "")
}

// EvaluatePassword scores a password against the four strength rules.
func EvaluatePassword(password string) models.PasswordInsight {
	score := 0
	checks := make([]models.PasswordCheck, 0, len(passwordRules))
	for _, rule := range passwordRules {
		met := rule.check(password)
		if met {
			score++
		}
		checks = append(checks, models.PasswordCheck{Label: rule.label, Met: met})
	}

	var label string
	switch {
	case score <= 1:
		label = "Add more strength"
	case score == 2:
		label = "Getting stronger"
	case score == 3:
		label = "Strong password"
	default:
		label = "Excellent password"
	}

	return models.PasswordInsight{
		Score:      score,
		Percentage: int(math.Round(float64(score) / float64(len(passwordRules)) * 100)),
		Label:      label,
		Checks:     checks,
	}
}

func blank(value string) bool {
	return strings.TrimSpace(value) == ""
}
