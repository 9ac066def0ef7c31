package playerstats

import "context"

type Repository interface {
	ListBoard(ctx context.Context, board Board, limit int) ([]Totals, error)
	ListAll(ctx context.Context) ([]Totals, error)
}
