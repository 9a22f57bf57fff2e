package validate

import "strings"

// FashionWhitelist terms are always accepted and always extracted
var FashionWhitelist = []string{
	"wdywt", "ootd", "nyfw", "fits", "drip", "slay", "fire", "clean", "fresh",
	"sick", "hard", "fit", "outfit", "rizz", "bussin", "periodt", "vibe", "mood",
	"sus", "based", "cringe", "slaps", "lowkey", "highkey", "mid", "no cap", "bet",
	"fr", "ngl", "hits different", "w", "l", "stan", "flex", "finsta", "vsco", "aesthetic",
}

// GenAlphaTerms are confirmed Gen Alpha slang
var GenAlphaTerms = []string{
	"skibidi", "gyat", "ohio", "fanum tax", "npc", "goofy ahh", "sigma",
	"kai cenat", "speed moments", "sus", "mewing", "skrrt", "nahhhh",
	"womp womp", "bruh sound effect", "giga chad", "gyatt damn", "delulu",
	"kairos", "capybara",
}

// ConfirmedSlang is known slang that is accepted without a lookup
var ConfirmedSlang = []string{
	// Gen Alpha
	"rizz", "bussin", "no cap", "periodt", "slay", "bet", "fr", "ngl",
	"lowkey", "highkey", "mid", "w", "l", "sus", "skibidi", "gyat", "ohio",
	"fanum tax", "sigma", "mewing", "delulu", "cap", "goofy ahh",
	// Gen Z
	"vibe", "mood", "based", "cringe", "slaps", "hits different",
	"stan", "flex", "drip", "fire", "ratio", "simp", "main character",
	// Fashion
	"fit", "outfit", "clean", "fresh", "hard", "sick", "wdywt", "ootd",
	"drip check", "lewk", "serving looks", "snatched", "on fleek",
}

// Blacklist holds common words that are never slang
var Blacklist = []string{
	"the", "and", "for", "are", "but", "not", "you", "all", "can", "was", "one",
	"get", "has", "him", "his", "how", "now", "see", "way", "who", "did", "this",
	"that", "with", "have", "from", "they", "know", "been", "good", "time", "when",
	"come", "just", "like", "make", "take", "well", "what", "why", "which", "going",
	"today", "where", "about", "other", "really", "there", "could", "would", "should",
	"still", "being", "never", "always", "maybe", "house", "school", "work", "people",
	"reddit", "comment", "thread", "upvote", "post", "everyone", "something", "anything",
}

var (
	fashionSet   = toSet(FashionWhitelist)
	genAlphaSet  = toSet(GenAlphaTerms)
	confirmedSet = toSet(ConfirmedSlang)
	blacklistSet = toSet(Blacklist)
)

func toSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[strings.ToLower(w)] = true
	}
	return set
}

// IsAllowListed reports whether term is on any allow-list
func IsAllowListed(term string) bool {
	return fashionSet[term] || genAlphaSet[term] || confirmedSet[term]
}

// IsGenAlpha reports whether term is a confirmed Gen Alpha term
func IsGenAlpha(term string) bool {
	return genAlphaSet[term]
}

// IsFashion reports whether term is on the fashion whitelist
func IsFashion(term string) bool {
	return fashionSet[term]
}

// IsBlacklisted reports whether term is a common word
func IsBlacklisted(term string) bool {
	return blacklistSet[term]
}
