package workflow

import (
	"regexp"
	"strconv"
	"strings"
)

// Choice is a resolved answer to the four-option documentation prompt.
type Choice string

const (
	ChoiceUpload     Choice = "upload"
	ChoiceRemove     Choice = "remove"
	ChoiceSubmitAsIs Choice = "submit_without"
	ChoiceExit       Choice = "exit"
)

// leadingDigit pulls a bare or "option N" style digit off the front of a
// reply, tolerating trailing punctuation like "2)" or "3.".
var leadingDigit = regexp.MustCompile(`^\s*(?:option\s*)?(\d)`)

var spelledChoices = map[string]Choice{
	"one": ChoiceUpload, "①": ChoiceUpload, "❶": ChoiceUpload,
	"two": ChoiceRemove, "②": ChoiceRemove, "❷": ChoiceRemove,
	"three": ChoiceSubmitAsIs, "③": ChoiceSubmitAsIs, "❸": ChoiceSubmitAsIs,
	"four": ChoiceExit, "④": ChoiceExit, "❹": ChoiceExit,
}

// ResolveChoice maps freeform user text to one of the numbered resolution
// choices. Digits and spelled or circled numerals are checked first, then
// keyword phrasing. The second return is false when nothing matched.
func ResolveChoice(text string) (Choice, bool) {
	s := strings.ToLower(strings.TrimSpace(text))
	if s == "" {
		return "", false
	}

	if m := leadingDigit.FindStringSubmatch(s); m != nil {
		switch m[1] {
		case "1":
			return ChoiceUpload, true
		case "2":
			return ChoiceRemove, true
		case "3":
			return ChoiceSubmitAsIs, true
		case "4":
			return ChoiceExit, true
		}
	}

	if c, ok := spelledChoices[s]; ok {
		return c, true
	}

	switch {
	case matchAny(s, "option 1", "upload", "more documentation", "additional documentation"):
		return ChoiceUpload, true
	case matchAny(s, "option 2", "remove"):
		return ChoiceRemove, true
	case matchAny(s, "option 3", "submit without"):
		return ChoiceSubmitAsIs, true
	case matchAny(s, "option 4", "exit", "restart", "later", "pause"):
		return ChoiceExit, true
	}
	return "", false
}

// matchAny reports whether the lowered text contains any of the keywords.
func matchAny(text string, keywords ...string) bool {
	lowered := strings.ToLower(text)
	for _, k := range keywords {
		if strings.Contains(lowered, k) {
			return true
		}
	}
	return false
}

func isStartIntent(text string) bool {
	return matchAny(text, "start", "new case", "begin", "ready", "i'm ready", "i am ready", "new patient", "file a claim", "medicare", "help")
}

func isAffirmative(text string) bool {
	return matchAny(text, "yes", "proceed", "ok", "okay", "confirm")
}

func isNegative(text string) bool {
	return matchAny(text, "no", "not yet")
}

func isSubmitIntent(text string) bool {
	return matchAny(text, "submit", "please submit", "file it", "send it", "go ahead")
}

// formatUSD renders an amount like 4820.0 as "4,820.00".
func formatUSD(amount float64) string {
	s := strconv.FormatFloat(amount, 'f', 2, 64)
	dot := strings.IndexByte(s, '.')
	intPart, frac := s[:dot], s[dot:]

	var b strings.Builder
	for i := 0; i < len(intPart); i++ {
		if i > 0 && (len(intPart)-i)%3 == 0 && intPart[i-1] != '-' {
			b.WriteByte(',')
		}
		b.WriteByte(intPart[i])
	}
	return b.String() + frac
}
