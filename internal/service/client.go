package service

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/napolitain/solver-geode/internal/converter"
)

// Client calls a remote solver service
type Client struct {
	conn *grpc.ClientConn
}

// NewClient connects to target ("host:port" or "unix:/path"). Extra options are
// applied after the defaults.
func NewClient(target string, opts ...grpc.DialOption) (*Client, error) {
	defaults := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(codecName)),
	}

	conn, err := grpc.NewClient(target, append(defaults, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to solver service: %w", err)
	}
	return &Client{conn: conn}, nil
}

// Close closes the connection
func (c *Client) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// QualitySum calls the QualitySum RPC
func (c *Client) QualitySum(ctx context.Context, req *converter.SolveRequest) (*converter.SolveResponse, error) {
	resp := new(converter.SolveResponse)
	if err := c.conn.Invoke(ctx, "/"+serviceName+"/QualitySum", req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// TopProduct calls the TopProduct RPC
func (c *Client) TopProduct(ctx context.Context, req *converter.SolveRequest) (*converter.SolveResponse, error) {
	resp := new(converter.SolveResponse)
	if err := c.conn.Invoke(ctx, "/"+serviceName+"/TopProduct", req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}
