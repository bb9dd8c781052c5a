package pipeline

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/mosscheck/internal/model"
)

// --- Comparer Mock ---

type mockComparer struct {
	mock.Mock
}

func (m *mockComparer) Submit(ctx context.Context, suspect string, batch model.Batch) (string, error) {
	args := m.Called(ctx, suspect, batch)
	return args.String(0), args.Error(1)
}

// --- Fetcher Mock ---

type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) FetchReport(ctx context.Context, rawURL, destDir, name string) (int64, error) {
	args := m.Called(ctx, rawURL, destDir, name)
	return args.Get(0).(int64), args.Error(1)
}
