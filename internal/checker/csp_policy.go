package checker

import "strings"

// CSPMaxScore is the score of a policy with no detected weaknesses.
const CSPMaxScore = 20

// CSPAnalysis summarizes the strength of a Content-Security-Policy value.
type CSPAnalysis struct {
	Directives map[string][]string
	Score      int
	Issues     []string
}

// AnalyzeCSP parses a policy and flags common weaknesses. Directive names
// and source keywords are compared case-insensitively.
func AnalyzeCSP(value string) CSPAnalysis {
	directives := parseCSPDirectives(strings.ToLower(value))
	analysis := CSPAnalysis{
		Directives: directives,
		Score:      CSPMaxScore,
	}

	flag := func(penalty int, issue string) {
		analysis.Score -= penalty
		analysis.Issues = append(analysis.Issues, issue)
	}

	if anySource(directives, "'unsafe-inline'") {
		flag(5, "Contains 'unsafe-inline' which weakens CSP protection")
	}
	if anySource(directives, "'unsafe-eval'") {
		flag(5, "Contains 'unsafe-eval' which allows eval() and similar functions")
	}
	if anySource(directives, "*") {
		flag(3, "Contains wildcard (*) source which is too permissive")
	}

	if _, ok := directives["default-src"]; !ok {
		flag(3, "Missing 'default-src' directive (recommended fallback)")
	}
	if _, ok := directives["script-src"]; !ok {
		flag(2, "Consider adding 'script-src' directive for script control")
	}

	for _, token := range directives["script-src"] {
		switch token {
		case "data:":
			flag(2, "Script sources allow data: URIs which can enable CSP bypasses")
		case "blob:":
			flag(2, "Script sources allow blob: URLs which may enable CSP bypasses")
		case "filesystem:":
			flag(2, "Script sources allow filesystem: URLs which may enable CSP bypasses")
		}
		if strings.HasPrefix(token, "http:") {
			flag(2, "Script sources allow insecure http scheme")
		}
	}

	if analysis.Score < 0 {
		analysis.Score = 0
	}

	return analysis
}

func anySource(directives map[string][]string, source string) bool {
	for _, tokens := range directives {
		for _, token := range tokens {
			if token == source {
				return true
			}
		}
	}
	return false
}

func parseCSPDirectives(value string) map[string][]string {
	result := make(map[string][]string)
	for _, part := range strings.Split(value, ";") {
		fields := strings.Fields(part)
		if len(fields) == 0 {
			continue
		}
		name := fields[0]
		// First occurrence wins, as browsers ignore repeated directives.
		if _, seen := result[name]; seen {
			continue
		}
		result[name] = fields[1:]
	}
	return result
}
