package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// Client is a mock implementation of sheets.Client
type Client struct {
	mock.Mock
}

func (m *Client) GetAllRows(ctx context.Context, readRange string) ([][]string, error) {
	args := m.Called(ctx, readRange)
	if grid, ok := args.Get(0).([][]string); ok {
		return grid, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) OverwriteRange(ctx context.Context, writeRange string, grid [][]string) (int64, error) {
	args := m.Called(ctx, writeRange, grid)
	return args.Get(0).(int64), args.Error(1)
}
