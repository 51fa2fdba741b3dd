package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/kaumanns/evolve-a-query/pkg/index"
)

// MockIndex is a testify mock for the index collaborator contract.
type MockIndex struct {
	mock.Mock
}

var _ index.Index = (*MockIndex)(nil)

func (m *MockIndex) Search(ctx context.Context, body string, size int) (*index.Result, error) {
	args := m.Called(ctx, body, size)
	if result := args.Get(0); result != nil {
		return result.(*index.Result), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockIndex) Explain(ctx context.Context, body, docID string) (*index.Explanation, error) {
	args := m.Called(ctx, body, docID)
	if expl := args.Get(0); expl != nil {
		return expl.(*index.Explanation), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockIndex) Get(ctx context.Context, docID string) (*index.Document, error) {
	args := m.Called(ctx, docID)
	if doc := args.Get(0); doc != nil {
		return doc.(*index.Document), args.Error(1)
	}
	return nil, args.Error(1)
}
