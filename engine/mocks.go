package engine

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/robbyt/go-scripting/execution/bindings"
)

// MockEngine is a mock implementation of the Engine interface.
type MockEngine struct {
	mock.Mock
}

// NewMockEngine returns a MockEngine whose Metadata call returns meta.
func NewMockEngine(meta Metadata) *MockEngine {
	m := new(MockEngine)
	m.On("Metadata").Return(meta).Maybe()
	return m
}

func (m *MockEngine) Metadata() Metadata {
	args := m.Called()
	return args.Get(0).(Metadata)
}

func (m *MockEngine) Eval(ctx context.Context, src Source, sctx *bindings.Context) (any, error) {
	args := m.Called(ctx, src, sctx)
	return args.Get(0), args.Error(1)
}
