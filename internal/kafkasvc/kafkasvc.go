// Package kafkasvc implements the request/response Kafka loop this
// module exposes as its `request` subcommand, and the GasValidator
// façade (§9 Open Question 2 of the design notes): a single function
// that runs the full validator chain over one descriptor and reduces it
// to a pass/fail plus a joined message.
package kafkasvc

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/jibrel-network/chain-assets-validator/internal/asset"
	"github.com/jibrel-network/chain-assets-validator/internal/cmcclient"
	"github.com/jibrel-network/chain-assets-validator/internal/crosscheck"
	"github.com/jibrel-network/chain-assets-validator/internal/issue"
	"github.com/jibrel-network/chain-assets-validator/internal/rpcnode"
	"github.com/jibrel-network/chain-assets-validator/internal/schema"
)

const (
	RequestTopic  = "asset_validation_request"
	ResponseTopic = "asset_validation_response"
	ConsumerGroup = "mygroup"
	PollTimeout   = 15 * time.Second
)

// request is the input payload: {node, uuid, ...descriptor}, the
// descriptor fields flattened alongside node/uuid.
type request struct {
	Node string `json:"node"`
	UUID string `json:"uuid"`
	asset.Descriptor
}

// response is the output payload produced on ResponseTopic.
type response struct {
	UUID    string `json:"uuid"`
	Result  bool   `json:"result"`
	Message string `json:"message"`
}

// Validate dials node, runs the shape/crosscheck/gas-profile chain
// against descriptor, and reduces the resulting issues to a pass/fail
// plus a semicolon-joined message of every surfaced issue. Ignorable
// issues matching descriptor.Ignore are dropped before the reduction,
// same as the CLI path unions --ignore with the per-entry list; every
// other issue, fatal or ignorable, fails the descriptor. cmcAPIKey may
// be empty, in which case the cross-check stage is skipped.
func Validate(ctx context.Context, nodeURL string, descriptor asset.Descriptor, cmcAPIKey string, fast bool, concurrency int) (ok bool, message string) {
	client, err := rpcnode.Dial(ctx, nodeURL)
	if err != nil {
		return false, fmt.Sprintf("dial %s: %v", nodeURL, err)
	}
	defer client.Close()

	var crosscheckV *crosscheck.Validator
	if cmcAPIKey != "" {
		assets, err := cmcclient.New(cmcAPIKey).FetchAll(ctx)
		if err != nil {
			return false, fmt.Sprintf("coinmarketcap: %v", err)
		}
		crosscheckV = crosscheck.New(assets)
	}

	dispatcher := schema.New(client, fast, crosscheckV, concurrency)
	_, issues, err := dispatcher.ValidateEntry(ctx, descriptor)
	if err != nil {
		return false, err.Error()
	}

	classifier := issue.NewClassifier(descriptor.Ignore)

	var fatal []string
	for _, i := range issues {
		surfaced, ok := classifier.Classify(descriptor.Symbol, i)
		if !ok {
			continue
		}
		fatal = append(fatal, surfaced.Error())
	}
	if len(fatal) > 0 {
		return false, strings.Join(fatal, "; ")
	}
	return true, "ok"
}

// Loop owns one Kafka reader/writer pair: consume from RequestTopic,
// produce to ResponseTopic.
type Loop struct {
	reader *kafka.Reader
	writer *kafka.Writer

	cmcAPIKey   string
	fast        bool
	concurrency int
}

// NewLoop builds a Loop against brokers (host:port strings).
func NewLoop(brokers []string, cmcAPIKey string, fast bool, concurrency int) *Loop {
	return &Loop{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:     brokers,
			GroupID:     ConsumerGroup,
			Topic:       RequestTopic,
			StartOffset: kafka.FirstOffset,
		}),
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    ResponseTopic,
			Balancer: &kafka.LeastBytes{},
		},
		cmcAPIKey:   cmcAPIKey,
		fast:        fast,
		concurrency: concurrency,
	}
}

// Close releases the reader and writer.
func (l *Loop) Close() error {
	rerr := l.reader.Close()
	werr := l.writer.Close()
	if rerr != nil {
		return rerr
	}
	return werr
}

// RunOnce polls a single request message (up to PollTimeout), validates
// it, and produces a single response message. kafka-go's WriteMessages
// blocks until the broker acknowledges, so no separate flush step is
// needed.
func (l *Loop) RunOnce(ctx context.Context) error {
	pollCtx, cancel := context.WithTimeout(ctx, PollTimeout)
	defer cancel()

	msg, err := l.reader.ReadMessage(pollCtx)
	if err != nil {
		return fmt.Errorf("kafkasvc: read: %w", err)
	}

	var req request
	if err := json.Unmarshal(msg.Value, &req); err != nil {
		return fmt.Errorf("kafkasvc: decode request: %w", err)
	}

	ok, message := Validate(ctx, req.Node, req.Descriptor, l.cmcAPIKey, l.fast, l.concurrency)

	payload, err := json.Marshal(response{UUID: req.UUID, Result: ok, Message: message})
	if err != nil {
		return fmt.Errorf("kafkasvc: encode response: %w", err)
	}

	if err := l.writer.WriteMessages(ctx, kafka.Message{Value: payload}); err != nil {
		return fmt.Errorf("kafkasvc: write: %w", err)
	}
	return nil
}
