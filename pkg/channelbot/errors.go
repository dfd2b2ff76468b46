// Copyright 2024-2026 Aiku AI

package channelbot

import (
	"errors"

	"go.mau.fi/util/exerrors"
)

var (
	// ErrUnauthorized is returned for updates from anyone but the operator.
	ErrUnauthorized = errors.New("sender is not the operator")
	// ErrPublishRejected marks a send the gateway did not accept.
	ErrPublishRejected = errors.New("publish rejected by gateway")
	// ErrEmptyDraft is returned when publishing a draft with no blocks.
	ErrEmptyDraft = errors.New("draft has no blocks")
	// ErrNoDraft is returned for draft operations without an open draft.
	ErrNoDraft = errors.New("no draft in progress")
	// ErrUnknownCallback is returned for callback payloads outside the
	// known namespaces.
	ErrUnknownCallback = errors.New("unknown callback payload")
)

// publishRejected wraps a gateway error so that both errors.Is(err,
// ErrPublishRejected) and errors.As on the gateway's own error type work.
func publishRejected(err error) error {
	if err == nil {
		return nil
	}
	return exerrors.NewDualError(ErrPublishRejected, err)
}
