package middlewares

import (
	"context"
	"errors"

	"github.com/graph-gophers/dataloader/v7"
	"github.com/mmdatafocus/pos_backend/models"
)

var errNoLoaders = errors.New("no dataloaders in context")

type cashierReader struct {
	fetch cashierFetcher
}

func (r *cashierReader) getCashiers(ctx context.Context, ids []int) []*dataloader.Result[*models.Cashier] {
	results, err := r.fetch(ctx, ids)
	if err != nil {
		return handleError[*models.Cashier](len(ids), err)
	}

	return generateLoaderResults(results, ids)
}

func GetCashier(ctx context.Context, id int) (*models.Cashier, error) {
	loaders := For(ctx)
	if loaders == nil {
		return nil, errNoLoaders
	}
	return loaders.cashierLoader.Load(ctx, id)()
}
