package mocks

import (
	"context"

	"fakeout/core/datasets"

	"github.com/stretchr/testify/mock"
)

// Client is a mock implementation of datasets.Client
type Client struct {
	mock.Mock
}

func (m *Client) NumRows(ctx context.Context, dataset, config, split string) (int, error) {
	args := m.Called(ctx, dataset, config, split)
	return args.Int(0), args.Error(1)
}

func (m *Client) Rows(ctx context.Context, dataset, config, split string, offset, limit int) ([]datasets.Row, error) {
	args := m.Called(ctx, dataset, config, split, offset, limit)
	if rows, ok := args.Get(0).([]datasets.Row); ok {
		return rows, args.Error(1)
	}
	return nil, args.Error(1)
}
