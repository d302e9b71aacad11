// Package rpcnode wraps the go-ethereum client used by every validator in
// this module, and classifies the errors it returns the way the original
// tool's event scanner did: node-protocol errors (bad request shape),
// transient errors (worth a retry), and everything else (fatal).
package rpcnode

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"net"
	"net/http"
	"strings"
	"time"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
)

// Client is a thin, dial-once wrapper over ethclient.Client. Safe for
// concurrent use — ethclient.Client itself is.
type Client struct {
	url string
	eth *ethclient.Client
}

// Dial connects to url within ctx's deadline.
func Dial(ctx context.Context, url string) (*Client, error) {
	c, err := ethclient.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("rpcnode: dial %s: %w", url, err)
	}
	return &Client{url: url, eth: c}, nil
}

func (c *Client) Close() { c.eth.Close() }

func (c *Client) URL() string { return c.url }

func (c *Client) FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error) {
	logs, err := c.eth.FilterLogs(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("eth_getLogs: %w", err)
	}
	return logs, nil
}

func (c *Client) CodeAt(ctx context.Context, addr common.Address) ([]byte, error) {
	code, err := c.eth.CodeAt(ctx, addr, nil)
	if err != nil {
		return nil, fmt.Errorf("eth_getCode: %w", err)
	}
	return code, nil
}

func (c *Client) CallContract(ctx context.Context, msg ethereum.CallMsg) ([]byte, error) {
	out, err := c.eth.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, fmt.Errorf("eth_call: %w", err)
	}
	return out, nil
}

func (c *Client) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	r, err := c.eth.TransactionReceipt(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("eth_getTransactionReceipt: %w", err)
	}
	return r, nil
}

func (c *Client) TransactionByHash(ctx context.Context, hash common.Hash) (*types.Transaction, error) {
	tx, pending, err := c.eth.TransactionByHash(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("eth_getTransactionByHash: %w", err)
	}
	if pending {
		return nil, fmt.Errorf("eth_getTransactionByHash: %s is still pending", hash)
	}
	return tx, nil
}

func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	n, err := c.eth.BlockNumber(ctx)
	if err != nil {
		return 0, fmt.Errorf("eth_blockNumber: %w", err)
	}
	return n, nil
}

func (c *Client) HeaderByNumber(ctx context.Context, number uint64) (*types.Header, error) {
	h, err := c.eth.HeaderByNumber(ctx, new(big.Int).SetUint64(number))
	if err != nil {
		return nil, fmt.Errorf("eth_getBlockByNumber: %w", err)
	}
	return h, nil
}

// LatestHeader fetches the chain head.
func (c *Client) LatestHeader(ctx context.Context) (*types.Header, error) {
	h, err := c.eth.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("eth_getBlockByNumber(latest): %w", err)
	}
	return h, nil
}

// Classification buckets an RPC error for the scanner's retry/backoff
// policy. Mirrors the dispatch in the original's EventIterator.iterate:
// ValueError (the node rejected the request shape) forces the batch size
// down to its floor and rolls the cursor back; everything in
// RETRY_EXCEPTIONS shrinks the batch and retries; anything else is fatal.
type Classification int

const (
	Fatal Classification = iota
	NodeProtocol
	Transient
)

// Classify inspects err the way the original tool's iterate() loop does,
// using string/type heuristics over the RPC error surface since
// go-ethereum does not expose a single typed hierarchy for "the node
// rejected this request" the way Python's web3.py ValueError does.
func Classify(err error) Classification {
	if err == nil {
		return Fatal
	}

	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		// JSON-RPC error objects (code != 0) are the node telling us the
		// request itself was malformed or out of range — e.g. "query
		// returned more than 10000 results", "invalid block range".
		return NodeProtocol
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "too many results"),
		strings.Contains(msg, "query returned more than"),
		strings.Contains(msg, "block range"),
		strings.Contains(msg, "limit exceeded"):
		return NodeProtocol
	case isTransient(err),
		strings.Contains(msg, "timeout"),
		strings.Contains(msg, "connection reset"),
		strings.Contains(msg, "eof"),
		strings.Contains(msg, "too many requests"),
		strings.Contains(msg, "rate limit"):
		return Transient
	default:
		return Fatal
	}
}

func isTransient(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var httpErr rpc.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode >= http.StatusInternalServerError ||
			httpErr.StatusCode == http.StatusTooManyRequests
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return errors.Is(err, context.DeadlineExceeded)
}

// Backoff is the fixed pause the original tool sleeps after a
// node-protocol error before retrying at the minimum batch size.
const Backoff = 10 * time.Second
