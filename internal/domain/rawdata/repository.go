package rawdata

import "context"

type Repository interface {
	HasProcessedFile(ctx context.Context, filename, fingerprint string) (bool, error)
	ListProcessedFiles(ctx context.Context) ([]ProcessedFile, error)
}
