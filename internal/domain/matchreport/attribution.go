package matchreport

import "strings"

// teamIndex groups a team's normalized events by jersey number.
type teamIndex struct {
	starters   map[Number]struct{}
	subs       []SubstitutionNode
	cardClocks map[Number][]float64
	goals      map[Number]int
	assists    map[Number]int
}

func indexTeam(team TeamNode) *teamIndex {
	idx := &teamIndex{
		starters:   make(map[Number]struct{}, len(team.Starters)),
		subs:       team.Substitutions,
		cardClocks: make(map[Number][]float64, len(team.Cards)),
		goals:      make(map[Number]int, len(team.Goals)),
		assists:    make(map[Number]int),
	}

	for _, p := range team.Starters {
		idx.starters[p.Nr] = struct{}{}
	}

	// Card order in the source decides which card is the second one.
	for _, c := range team.Cards {
		idx.cardClocks[c.Nr] = append(idx.cardClocks[c.Nr], c.Clock.Minutes())
	}

	for _, g := range team.Goals {
		idx.goals[g.Nr]++
		credited := make(map[Number]struct{}, len(g.Passers))
		for _, p := range g.Passers {
			if _, dup := credited[p.Nr]; dup {
				continue
			}
			credited[p.Nr] = struct{}{}
			idx.assists[p.Nr]++
		}
	}

	return idx
}

func (idx *teamIndex) firstSubIn(nr Number) (SubstitutionNode, bool) {
	for _, s := range idx.subs {
		if s.InNr == nr {
			return s, true
		}
	}
	return SubstitutionNode{}, false
}

func (idx *teamIndex) firstSubOut(nr Number) (SubstitutionNode, bool) {
	for _, s := range idx.subs {
		if s.OutNr == nr {
			return s, true
		}
	}
	return SubstitutionNode{}, false
}

// cardFlags derives the yellow/red flags from the raw card count.
func cardFlags(count int) (yellow, red int) {
	if count >= 1 {
		yellow = 1
	}
	if count >= 2 {
		red = 1
	}
	return yellow, red
}

func buildPlayerLines(team TeamNode, endOfGame float64) []PlayerLine {
	idx := indexTeam(team)
	lines := make([]PlayerLine, 0, len(team.Roster))
	for _, p := range team.Roster {
		minutes, appeared := minutesPlayed(reconstructStint(p.Nr, idx), endOfGame)
		yellow, red := cardFlags(len(idx.cardClocks[p.Nr]))

		line := PlayerLine{
			ID:          PlayerID(team.Name, int(p.Nr)),
			Number:      int(p.Nr),
			Name:        strings.TrimSpace(p.GivenName + " " + p.FamilyName),
			Role:        strings.TrimSpace(p.Role),
			Minutes:     minutes,
			Goals:       idx.goals[p.Nr],
			Assists:     idx.assists[p.Nr],
			YellowCards: yellow,
			RedCards:    red,
		}
		if appeared {
			line.GamesPlayed = 1
		}
		lines = append(lines, line)
	}
	return lines
}
