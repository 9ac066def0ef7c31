package leaguestanding

// Outcome is one side's result bucket for a single match.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeWonRegulation
	OutcomeWonOvertime
	OutcomeLostOvertime
	OutcomeLostRegulation
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWonRegulation:
		return "won_regulation"
	case OutcomeWonOvertime:
		return "won_overtime"
	case OutcomeLostOvertime:
		return "lost_overtime"
	case OutcomeLostRegulation:
		return "lost_regulation"
	default:
		return "none"
	}
}

// ScoringPolicy stores the points awarded per outcome bucket.
type ScoringPolicy struct {
	WonRegulation  int
	WonOvertime    int
	LostOvertime   int
	LostRegulation int
}

func DefaultScoringPolicy() ScoringPolicy {
	return ScoringPolicy{
		WonRegulation:  5,
		WonOvertime:    3,
		LostOvertime:   2,
		LostRegulation: 1,
	}
}

// DecideOutcome buckets one side of a match. Equal scores yield OutcomeNone.
func DecideOutcome(score, opponentScore int, overtime bool) Outcome {
	switch {
	case score > opponentScore && overtime:
		return OutcomeWonOvertime
	case score > opponentScore:
		return OutcomeWonRegulation
	case score < opponentScore && overtime:
		return OutcomeLostOvertime
	case score < opponentScore:
		return OutcomeLostRegulation
	default:
		return OutcomeNone
	}
}

func (p ScoringPolicy) Points(o Outcome) int {
	switch o {
	case OutcomeWonRegulation:
		return p.WonRegulation
	case OutcomeWonOvertime:
		return p.WonOvertime
	case OutcomeLostOvertime:
		return p.LostOvertime
	case OutcomeLostRegulation:
		return p.LostRegulation
	default:
		return 0
	}
}

// Delta builds the standing increment one match contributes to a team.
func (p ScoringPolicy) Delta(teamName string, score, opponentScore int, overtime bool) Standing {
	outcome := DecideOutcome(score, opponentScore, overtime)
	delta := Standing{
		TeamName:     teamName,
		Points:       p.Points(outcome),
		GoalsFor:     score,
		GoalsAgainst: opponentScore,
	}
	switch outcome {
	case OutcomeWonRegulation:
		delta.WonRegulation = 1
	case OutcomeWonOvertime:
		delta.WonOvertime = 1
	case OutcomeLostOvertime:
		delta.LostOvertime = 1
	case OutcomeLostRegulation:
		delta.LostRegulation = 1
	}
	return delta
}
