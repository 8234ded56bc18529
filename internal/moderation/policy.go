package moderation

import "strings"

// ShouldBan reports whether an unsafe verdict carries a bot/scam signal that
// escalates to a ban of the posting user. The ban is irreversible; there is
// no appeal flow.
func ShouldBan(v Verdict) bool {
	if v.Safe {
		return false
	}
	return v.IsBot || strings.Contains(strings.ToLower(v.Reason), "scam")
}

// ExtractJSON returns the first JSON object embedded in a model response,
// tolerating markdown code fences around it.
func ExtractJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		return strings.TrimSpace(text[start : end+1])
	}
	return strings.TrimSpace(text)
}
