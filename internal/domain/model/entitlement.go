package model

// Entitlements is the fixed feature/limit record a plan unlocks.
type Entitlements struct {
	DailyUploads       int
	MonthlyAudioCredit int // narrated-audio minutes per month
	Languages          []string
	QuizGenerator      bool
	OfflineDownloads   bool
	PriorityVoices     bool
}

var entitlementTable = map[PlanID]Entitlements{
	PlanFree: {
		DailyUploads:       2,
		MonthlyAudioCredit: 10,
		Languages:          []string{"en"},
	},
	PlanStudentPro: {
		DailyUploads:       15,
		MonthlyAudioCredit: 120,
		Languages:          []string{"en", "fr", "es", "yo", "ig", "ha"},
		QuizGenerator:      true,
		OfflineDownloads:   true,
	},
	PlanMasteryPass: {
		DailyUploads:       50,
		MonthlyAudioCredit: 600,
		Languages:          []string{"en", "fr", "es", "pt", "de", "ar", "yo", "ig", "ha", "sw"},
		QuizGenerator:      true,
		OfflineDownloads:   true,
		PriorityVoices:     true,
	},
}

// EntitlementsFor resolves the limit record for a plan. Unknown or empty plan
// values fall back to the free tier.
func EntitlementsFor(plan PlanID) Entitlements {
	if e, ok := entitlementTable[plan]; ok {
		return e
	}
	return entitlementTable[PlanFree]
}

func (e Entitlements) CanAccessLanguage(lang string) bool {
	for _, l := range e.Languages {
		if l == lang {
			return true
		}
	}
	return false
}

var upgradeMessages = map[string]string{
	"quiz_generator":    "Upgrade to Student Pro to turn your PDFs into practice quizzes.",
	"offline_downloads": "Upgrade to Student Pro to keep audio for offline listening.",
	"priority_voices":   "Upgrade to Mastery Pass for premium narration voices.",
	"languages":         "Upgrade your plan to unlock more narration languages.",
	"daily_uploads":     "You reached today's upload limit. Upgrade for a higher daily quota.",
}

// UpgradeMessage returns the user-facing prompt shown when a feature is gated.
func UpgradeMessage(feature string) string {
	if m, ok := upgradeMessages[feature]; ok {
		return m
	}
	return "Upgrade your plan to unlock this feature."
}
