package matchreport

import (
	"bytes"
	"unicode/utf8"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
)

// ErrMalformedInput marks a match file that cannot be turned into a result.
var ErrMalformedInput = crerr.New("malformed match input")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Parse decodes raw match file bytes and builds the two-team result.
func Parse(raw []byte) (Result, error) {
	doc, err := Decode(raw)
	if err != nil {
		return Result{}, err
	}
	return Build(doc)
}

func Decode(raw []byte) (Document, error) {
	raw = bytes.TrimPrefix(raw, utf8BOM)
	if len(bytes.TrimSpace(raw)) == 0 {
		return Document{}, crerr.Wrap(ErrMalformedInput, "empty document")
	}
	if !utf8.Valid(raw) {
		return Document{}, crerr.Wrap(ErrMalformedInput, "document is not valid utf-8")
	}

	var doc Document
	if err := sonic.Unmarshal(raw, &doc); err != nil {
		return Document{}, crerr.Wrapf(ErrMalformedInput, "decode document: %v", err)
	}
	if doc.Match == nil {
		return Document{}, crerr.Wrap(ErrMalformedInput, "missing Spele root node")
	}
	return doc, nil
}

// Build composes the match result from a decoded document.
func Build(doc Document) (Result, error) {
	if doc.Match == nil {
		return Result{}, crerr.Wrap(ErrMalformedInput, "missing Spele root node")
	}
	teams := doc.Match.Teams
	if len(teams) != 2 {
		return Result{}, crerr.Wrapf(ErrMalformedInput, "expected 2 teams, got %d", len(teams))
	}
	for i, team := range teams {
		if team.Name == "" {
			return Result{}, crerr.Wrapf(ErrMalformedInput, "team %d has no Nosaukums", i+1)
		}
	}

	clocks := make([]float64, 0, len(teams[0].Goals)+len(teams[1].Goals))
	for _, team := range teams {
		for _, g := range team.Goals {
			clocks = append(clocks, g.Clock.Minutes())
		}
	}
	endOfGame, overtime := DetectOvertimeEnd(clocks)

	var result Result
	result.IsOvertime = overtime
	result.EndOfGame = endOfGame
	for i, team := range teams {
		result.Teams[i] = TeamSide{
			Name:    team.Name,
			Score:   len(team.Goals),
			Players: buildPlayerLines(team, endOfGame),
		}
	}
	result.Teams[0].OpponentScore = result.Teams[1].Score
	result.Teams[1].OpponentScore = result.Teams[0].Score

	return result, nil
}
