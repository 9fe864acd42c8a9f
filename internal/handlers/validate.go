// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"menupress/internal/content"
)

// Request limits.
const (
	maxBodyBytes = 1 << 20
	maxEdits     = 100
	maxPathDepth = 16
)

type errorBody struct {
	Success *bool  `json:"success,omitempty"`
	Error   string `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// decodeJSON reads a single JSON object from the request body. Unknown
// fields are rejected. An empty body is accepted only when allowEmpty is
// set, leaving dst untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, allowEmpty bool) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	err := dec.Decode(dst)
	var tooLarge *http.MaxBytesError
	switch {
	case errors.Is(err, io.EOF):
		if allowEmpty {
			return nil
		}
		return errors.New("request body is required")
	case errors.As(err, &tooLarge):
		return fmt.Errorf("request body exceeds %d bytes", tooLarge.Limit)
	case err != nil:
		return fmt.Errorf("invalid request body: %w", err)
	}
	if dec.More() {
		return errors.New("request body must hold a single JSON object")
	}
	return nil
}

// contentEdit replaces the value at Path.
type contentEdit struct {
	Path  content.Path    `json:"path"`
	Value json.RawMessage `json:"value"`
}

// contentRequest is either a single edit or a list of edits.
type contentRequest struct {
	Path  content.Path    `json:"path"`
	Value json.RawMessage `json:"value"`
	Edits []contentEdit   `json:"edits"`
}

func (req contentRequest) mutations() ([]content.Mutation, error) {
	edits := req.Edits
	switch {
	case len(req.Path) > 0 && len(edits) > 0:
		return nil, errors.New("use either path and value or edits, not both")
	case len(req.Path) > 0 || req.Value != nil:
		edits = []contentEdit{{Path: req.Path, Value: req.Value}}
	case len(edits) == 0:
		return nil, errors.New("no edits given")
	}
	if len(edits) > maxEdits {
		return nil, fmt.Errorf("too many edits (max %d)", maxEdits)
	}

	muts := make([]content.Mutation, 0, len(edits))
	for i, e := range edits {
		if msg := validateEdit(e); msg != "" {
			return nil, fmt.Errorf("edit %d: %s", i, msg)
		}
		muts = append(muts, content.SetPath(e.Path, e.Value))
	}
	return muts, nil
}

// validateEdit checks one edit and returns the first problem found.
func validateEdit(e contentEdit) string {
	if len(e.Path) == 0 {
		return "path is required"
	}
	if len(e.Path) > maxPathDepth {
		return fmt.Sprintf("path is too deep (max %d segments)", maxPathDepth)
	}
	if e.Value == nil {
		return "value is required"
	}
	return ""
}
