package chats

import "strings"

// parseArray splits a comma-joined participant list produced by
// array_to_string. Participant ids are UUIDs, so the separator is safe.
func parseArray(joined string) []string {
	if joined == "" {
		return nil
	}
	return strings.Split(joined, ",")
}
