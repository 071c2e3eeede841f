package utils

import "strings"

// AveragesCacheKey is the key of one user's computed averages. Emails are
// case-sensitive identities, so the key keeps the case and only trims space.
func AveragesCacheKey(email string) string {
	return "averages:v1:" + strings.TrimSpace(email)
}

// AveragesGenerationKey holds the counter bumped whenever a user's averages
// are invalidated.
func AveragesGenerationKey(email string) string {
	return "averages:v1:gen:" + strings.TrimSpace(email)
}
