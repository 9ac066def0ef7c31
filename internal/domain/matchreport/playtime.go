package matchreport

import "math"

// stint is the on-pitch interval of one player. A player that never entered
// has entered=false; a player still on the pitch at the final whistle has
// left=false.
type stint struct {
	start   float64
	end     float64
	entered bool
	left    bool
}

func (s stint) minutes(endOfGame float64) float64 {
	if !s.entered {
		return 0
	}
	end := endOfGame
	if s.left {
		end = s.end
	}
	return math.Max(0, end-s.start)
}

// reconstructStint derives a player's interval from the starter list,
// substitutions and a second-card ejection. A substitution in overrides
// starter status; an ejection can only shorten the interval.
func reconstructStint(nr Number, idx *teamIndex) stint {
	var s stint
	if _, ok := idx.starters[nr]; ok {
		s.start = 0
		s.entered = true
	}

	if sub, ok := idx.firstSubIn(nr); ok {
		s.start = sub.Clock.Minutes()
		s.entered = true
	}

	if sub, ok := idx.firstSubOut(nr); ok {
		s.end = sub.Clock.Minutes()
		s.left = true
	}

	if cards := idx.cardClocks[nr]; len(cards) >= 2 {
		ejection := cards[1]
		if !s.left || ejection < s.end {
			s.end = ejection
			s.left = true
		}
	}

	return s
}

// minutesPlayed rounds to whole minutes and reports whether the player
// appeared at all. Appearance is judged on the unrounded value.
func minutesPlayed(s stint, endOfGame float64) (int, bool) {
	raw := s.minutes(endOfGame)
	return int(math.Round(raw)), raw > 0
}
