package prompt

import "strings"

// maxSpecialRequestLen caps customer free text before it is embedded into the
// generation contract.
const maxSpecialRequestLen = 500

// instruction-like openings that must not survive into the contract, since the
// special-requests text is customer-controlled and concatenated into the same
// contract text the model treats as authoritative.
var bannedPhrases = []string{
	"ignore previous",
	"ignore all previous",
	"ignore the above",
	"disregard",
	"system:",
	"assistant:",
	"you are now",
	"new instructions",
	"respond with",
	"return only",
	"output the",
}

// SanitizeSpecialRequests neutralizes customer free text for embedding:
// length-capped, stripped of fence and brace characters that could open a new
// JSON or code context, and with instruction-like lines dropped.
func SanitizeSpecialRequests(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	runes := []rune(s)
	if len(runes) > maxSpecialRequestLen {
		s = string(runes[:maxSpecialRequestLen])
	}
	s = strings.NewReplacer("`", "", "{", "", "}", "", "<", "", ">", "").Replace(s)

	var kept []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || isInstructionLike(line) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, " ")
}

func isInstructionLike(line string) bool {
	lower := strings.ToLower(line)
	for _, phrase := range bannedPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}
