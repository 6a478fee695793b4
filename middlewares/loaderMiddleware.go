package middlewares

import (
	"context"
	"reflect"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/graph-gophers/dataloader/v7"
	"github.com/mmdatafocus/pos_backend/models"
)

type ctxKey string

const (
	loadersKey = ctxKey("dataloaders")
)

type customerFetcher func(ctx context.Context, ids []int) ([]models.Customer, error)
type cashierFetcher func(ctx context.Context, ids []int) ([]models.Cashier, error)

// Loaders wrap your data loaders to inject via middleware
type Loaders struct {
	customerLoader *dataloader.Loader[int, *models.Customer]
	cashierLoader  *dataloader.Loader[int, *models.Cashier]
}

// NewLoaders instantiates data loaders for the middleware
func NewLoaders() *Loaders {
	return newLoaders(models.GetCustomersByIds, models.GetCashiersByIds)
}

func newLoaders(fetchCustomers customerFetcher, fetchCashiers cashierFetcher) *Loaders {
	// define the data loader
	customerReader := &customerReader{fetch: fetchCustomers}
	cashierReader := &cashierReader{fetch: fetchCashiers}

	return &Loaders{
		customerLoader: dataloader.NewBatchedLoader(customerReader.getCustomers, dataloader.WithWait[int, *models.Customer](time.Millisecond)),
		cashierLoader:  dataloader.NewBatchedLoader(cashierReader.getCashiers, dataloader.WithWait[int, *models.Cashier](time.Millisecond)),
	}
}

func LoaderMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		loader := NewLoaders()
		ctx := WithLoaders(c.Request.Context(), loader)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func WithLoaders(ctx context.Context, loaders *Loaders) context.Context {
	return context.WithValue(ctx, loadersKey, loaders)
}

// For returns the request's loaders, nil outside a request that went through LoaderMiddleware.
func For(ctx context.Context) *Loaders {
	loaders, _ := ctx.Value(loadersKey).(*Loaders)
	return loaders
}

// handleError creates array of result with the same error repeated for as many items requested
func handleError[T any](itemsLength int, err error) []*dataloader.Result[T] {
	result := make([]*dataloader.Result[T], itemsLength)
	for i := 0; i < itemsLength; i++ {
		result[i] = &dataloader.Result[T]{Error: err}
	}
	return result
}

// turns results from db into dataloader results
// (T must be a struct)
func generateLoaderResults[T models.Data](results []T, ids []int) []*dataloader.Result[*T] {
	// generate resultMap from results
	resultMap := make(map[int]T)
	var resultZero T
	resultMap[0] = resultZero.GetDefault(0).(T)
	for _, result := range results {
		resultMap[result.GetId()] = result
	}

	loaderResults := make([]*dataloader.Result[*T], 0, len(ids))
	for _, id := range ids {
		data := resultMap[id]
		if reflect.ValueOf(data).IsZero() {
			data = data.GetDefault(id).(T)
		}
		loaderResults = append(loaderResults, &dataloader.Result[*T]{Data: &data})
	}
	return loaderResults
}
