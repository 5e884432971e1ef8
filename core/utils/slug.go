package utils

import (
	"regexp"
	"strings"
)

var nonWord = regexp.MustCompile(`\W+`)

// Slugify derives the default alias of an object from its name: every run of
// non-word characters becomes a single underscore and the result is lower-cased.
//
//	Slugify("Meeting Room #2") == "meeting_room_2"
func Slugify(name string) string {
	return strings.ToLower(nonWord.ReplaceAllString(name, "_"))
}
