package matchreport

import (
	"encoding/json"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
)

// Document is the as-parsed content of one match report file.
type Document struct {
	Match *MatchNode `json:"Spele"`
}

type MatchNode struct {
	Teams List[TeamNode] `json:"Komand"`
}

// TeamNode is one team element with every repeated child already normalized.
type TeamNode struct {
	Name          string
	Roster        []PlayerNode
	Starters      []PlayerNode
	Goals         []GoalNode
	Substitutions []SubstitutionNode
	Cards         []CardNode
}

type teamWire struct {
	Name          string          `json:"Nosaukums"`
	Roster        json.RawMessage `json:"Speletaji"`
	Starters      json.RawMessage `json:"Pamatsastavs"`
	Goals         json.RawMessage `json:"Varti"`
	Substitutions json.RawMessage `json:"Mainas"`
	Cards         json.RawMessage `json:"Sodi"`
}

func (t *TeamNode) UnmarshalJSON(data []byte) error {
	var wire teamWire
	if err := sonic.Unmarshal(data, &wire); err != nil {
		return crerr.Wrap(err, "decode team")
	}

	roster, err := decodeContainer[PlayerNode](wire.Roster, "Speletajs")
	if err != nil {
		return err
	}
	starters, err := decodeContainer[PlayerNode](wire.Starters, "Speletajs")
	if err != nil {
		return err
	}
	goals, err := decodeContainer[GoalNode](wire.Goals, "VG")
	if err != nil {
		return err
	}
	subs, err := decodeContainer[SubstitutionNode](wire.Substitutions, "Maina")
	if err != nil {
		return err
	}
	cards, err := decodeContainer[CardNode](wire.Cards, "Sods")
	if err != nil {
		return err
	}

	*t = TeamNode{
		Name:          strings.TrimSpace(wire.Name),
		Roster:        roster,
		Starters:      starters,
		Goals:         goals,
		Substitutions: subs,
		Cards:         cards,
	}
	return nil
}

type PlayerNode struct {
	Nr         Number `json:"Nr"`
	GivenName  string `json:"Vards"`
	FamilyName string `json:"Uzvards"`
	Role       string `json:"Loma"`
}

type GoalNode struct {
	Clock   Clock            `json:"Laiks"`
	Nr      Number           `json:"Nr"`
	Passers List[PasserNode] `json:"P"`
}

type PasserNode struct {
	Nr Number `json:"Nr"`
}

// SubstitutionNode carries the leaving player in Nr1 and the entering one in Nr2.
type SubstitutionNode struct {
	Clock Clock  `json:"Laiks"`
	OutNr Number `json:"Nr1"`
	InNr  Number `json:"Nr2"`
}

type CardNode struct {
	Clock Clock  `json:"Laiks"`
	Nr    Number `json:"Nr"`
}

// Number is a jersey number. Values that are not integers decode to zero.
type Number int

func (n *Number) UnmarshalJSON(data []byte) error {
	*n = Number(parseLeadingInt(unquote(data)))
	return nil
}

// Clock is a raw "MM:SS" match clock string. Non-string values decode empty.
type Clock string

func (c *Clock) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if !strings.HasPrefix(trimmed, `"`) {
		*c = ""
		return nil
	}
	var s string
	if err := sonic.UnmarshalString(trimmed, &s); err != nil {
		*c = ""
		return nil
	}
	*c = Clock(s)
	return nil
}

func (c Clock) Minutes() float64 {
	return ParseClock(string(c))
}

func unquote(data []byte) string {
	s := strings.TrimSpace(string(data))
	if unquoted, err := strconv.Unquote(s); err == nil {
		return unquoted
	}
	return s
}

// parseLeadingInt reads an optional sign and the leading digits of s.
func parseLeadingInt(s string) int {
	v, _ := leadingInt(s)
	return v
}

// leadingInt is parseLeadingInt that also reports whether any digit was read.
func leadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	v, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return v, true
}

// Result is the parser output: two team sides of one match.
type Result struct {
	Teams      [2]TeamSide
	IsOvertime bool
	EndOfGame  float64
}

type TeamSide struct {
	Name          string
	Score         int
	OpponentScore int
	Players       []PlayerLine
}

// PlayerLine is one player's contribution to a single match.
type PlayerLine struct {
	ID          string
	Number      int
	Name        string
	Role        string
	Minutes     int
	Goals       int
	Assists     int
	YellowCards int
	RedCards    int
	// GamesPlayed is 1 when the unrounded stint is positive, so a
	// few-second cameo counts as a game even though Minutes rounds to 0.
	GamesPlayed int
}

// PlayerID builds the ledger key for a roster entry.
func PlayerID(team string, nr int) string {
	return team + "-" + strconv.Itoa(nr)
}
