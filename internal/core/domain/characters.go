package domain

import "strings"

// knownCharacters is the fixed speaker vocabulary of the corpus.
var knownCharacters = []string{
	"Jerry",
	"George",
	"Elaine",
	"Kramer",
	"Newman",
	"Frank",
	"Estelle",
	"Morty",
	"Helen",
	"Susan",
	"Puddy",
	"Peterman",
	"Jackie",
	"Uncle Leo",
	"Mickey",
	"Bania",
	"Steinbrenner",
	"Jack Klompus",
	"Babu",
	"Soup Nazi",
}

// characterAliases maps lower-cased alternative spellings to canonical names.
var characterAliases = map[string]string{
	"leo":                 "Uncle Leo",
	"frank costanza":      "Frank",
	"estelle costanza":    "Estelle",
	"morty seinfeld":      "Morty",
	"helen seinfeld":      "Helen",
	"cosmo kramer":        "Kramer",
	"jerry seinfeld":      "Jerry",
	"george costanza":     "George",
	"elaine benes":        "Elaine",
	"david puddy":         "Puddy",
	"j. peterman":         "Peterman",
	"jackie chiles":       "Jackie",
	"kenny bania":         "Bania",
	"george steinbrenner": "Steinbrenner",
	"klompus":             "Jack Klompus",
	"babu bhatt":          "Babu",
	"susan ross":          "Susan",
}

// KnownCharacters returns a copy of the speaker vocabulary.
func KnownCharacters() []string {
	out := make([]string, len(knownCharacters))
	copy(out, knownCharacters)
	return out
}

// NormalizeCharacter maps a speaker name to its canonical form.
// The boolean is false when the name is not part of the vocabulary; the
// returned name is then the input with its whitespace collapsed.
// Ingestion and search both key speakers by this form.
func NormalizeCharacter(name string) (string, bool) {
	collapsed := strings.Join(strings.Fields(name), " ")
	key := strings.ToLower(collapsed)
	if key == "" {
		return "", false
	}
	for _, c := range knownCharacters {
		if strings.ToLower(c) == key {
			return c, true
		}
	}
	if canonical, ok := characterAliases[key]; ok {
		return canonical, true
	}
	return collapsed, false
}

// CharacterRoster lists the known characters in vocabulary order with their
// corpus counts, followed by speakers that only appear in the corpus.
func CharacterRoster(known []string, stats CorpusStats) []CharacterStats {
	byName := make(map[string]CharacterStats, len(stats.Characters))
	for _, cs := range stats.Characters {
		byName[cs.Character] = cs
	}

	roster := make([]CharacterStats, 0, len(known)+len(stats.Characters))
	seen := make(map[string]bool, len(known))
	for _, name := range known {
		cs := byName[name]
		cs.Character = name
		roster = append(roster, cs)
		seen[name] = true
	}
	for _, cs := range stats.Characters {
		if !seen[cs.Character] {
			roster = append(roster, cs)
		}
	}
	return roster
}
