// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package identity resolves the participant on whose behalf an operation
// runs.
//
// A credential directory holds one file per credential: the filename is
// the credential name and the trimmed contents are its value. The
// participant id is read from the participant-id file.
package identity

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/feedforward/internal/apperrors"
)

// ParticipantIDFile is the credential holding the participant id.
const ParticipantIDFile = "participant-id"

// Provider resolves the current participant.
type Provider interface {
	// CurrentParticipantID returns the participant id or an error wrapping
	// apperrors.ErrAuthentication.
	CurrentParticipantID(ctx context.Context) (string, error)
}

// Static always resolves to the same participant. An empty Static
// resolves to nothing.
type Static string

// CurrentParticipantID returns the trimmed id.
func (s Static) CurrentParticipantID(context.Context) (string, error) {
	id := strings.TrimSpace(string(s))
	if id == "" {
		return "", apperrors.ErrAuthentication
	}
	return id, nil
}

// Dir resolves the participant from a credential directory. The directory
// is read on every call so a rotated credential takes effect immediately.
type Dir string

// CurrentParticipantID reads the participant-id credential.
func (d Dir) CurrentParticipantID(context.Context) (string, error) {
	creds, err := LoadCredentials(string(d))
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrAuthentication, err)
	}
	id := creds[ParticipantIDFile]
	if id == "" {
		return "", fmt.Errorf("%w: no %s in %s", apperrors.ErrAuthentication, ParticipantIDFile, string(d))
	}
	return id, nil
}

// Chain tries each provider in order and returns the first participant
// resolved.
type Chain []Provider

// CurrentParticipantID returns the first id resolved. When none resolves
// the error wraps ErrAuthentication and the last provider's failure.
func (c Chain) CurrentParticipantID(ctx context.Context) (string, error) {
	var lastErr error
	for _, p := range c {
		id, err := p.CurrentParticipantID(ctx)
		if err == nil {
			return id, nil
		}
		lastErr = err
	}
	switch {
	case lastErr == nil:
		return "", apperrors.ErrAuthentication
	case errors.Is(lastErr, apperrors.ErrAuthentication):
		return "", lastErr
	default:
		return "", fmt.Errorf("%w: %v", apperrors.ErrAuthentication, lastErr)
	}
}

// LoadCredentials reads all files in dir and returns a map of filename to
// trimmed contents. A missing directory is not an error and yields an
// empty map. Dotfiles, subdirectories, empty files, and unreadable files
// are skipped.
func LoadCredentials(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading credential directory %s: %w", dir, err)
	}

	creds := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			creds[entry.Name()] = value
		}
	}
	return creds, nil
}
