package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/tessro/tokyobox/internal/backend"
	tberrors "github.com/tessro/tokyobox/internal/errors"
)

const bridgeTimeout = 5 * time.Second

// bridgeErrors are the sentinels a bridge error message can start with.
var bridgeErrors = []error{
	tberrors.ErrUnknownSetting,
	tberrors.ErrInvalidSetting,
	tberrors.ErrInvalidInput,
	tberrors.ErrMalformedMessage,
	tberrors.ErrBackendUnavailable,
}

// newBridgeClient returns a client for the running overlay's bridge.
// Calls are not retried: a missing bridge should fail fast.
func newBridgeClient(listen string) *backend.Client {
	c := backend.New(backend.Options{
		BaseURL: "http://" + listen,
		Timeout: bridgeTimeout,
		Retries: 1,
	})
	if Verbose() {
		c.SetVerbose(true, func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		})
	}
	return c
}

// callBridge sends a request to the running overlay.
func callBridge(ctx context.Context, method, path string, body, result interface{}) error {
	err := newBridgeClient(cfg.Bridge.Listen).Do(ctx, method, path, body, result)
	return bridgeError(err, cfg.Bridge.Listen)
}

func getBridge(ctx context.Context, path string, result interface{}) error {
	return callBridge(ctx, http.MethodGet, path, nil, result)
}

func postBridge(ctx context.Context, path string, body, result interface{}) error {
	return callBridge(ctx, http.MethodPost, path, body, result)
}

// bridgeError turns a bridge client failure into a CLI error: bridge
// responses keep their message, anything else means the bridge is not
// reachable.
func bridgeError(err error, listen string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var statusErr *backend.StatusError
	if !errors.As(err, &statusErr) {
		return fmt.Errorf("%w at %s: %v", tberrors.ErrBridgeUnavailable, listen, err)
	}

	msg := bridgeMessage(statusErr.Body)
	for _, sentinel := range bridgeErrors {
		if prefix := sentinel.Error(); strings.HasPrefix(msg, prefix) {
			return fmt.Errorf("%w%s", sentinel, strings.TrimPrefix(msg, prefix))
		}
	}

	switch {
	case statusErr.Status == http.StatusBadGateway:
		return fmt.Errorf("%w: %s", tberrors.ErrBackendUnavailable, msg)
	case statusErr.Status == http.StatusBadRequest:
		return fmt.Errorf("%w: %s", tberrors.ErrInvalidInput, msg)
	case msg == "":
		return fmt.Errorf("bridge returned %d", statusErr.Status)
	default:
		return errors.New(msg)
	}
}

// bridgeMessage extracts the error message from a bridge error body.
func bridgeMessage(body string) string {
	var resp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal([]byte(body), &resp); err == nil && resp.Error != "" {
		return resp.Error
	}
	return body
}
