// Package iojson writes command output as JSON from a CLI perspective.
package iojson

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Error is the standard shape for machine-readable command errors.
type Error struct {
	Message string         `json:"message"`
	Data    map[string]any `json:"data,omitempty"`
}

func jsonError(msg string, jsonErr error) string {
	// json.Marshal on plain strings to get proper escaping
	msgBytes, _ := json.Marshal(msg)
	errBytes, _ := json.Marshal(jsonErr.Error())
	return fmt.Sprintf(`{"message":%s,"data":{"json_error":%s}}`, msgBytes, errBytes)
}

// WriteWith marshals obj as indented JSON to w. A marshal failure writes an
// Error blob to ew instead; that indicates a bug in the caller's type.
func WriteWith(w io.Writer, ew io.Writer, obj any) error {
	bits, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		errStr := jsonError("error marshaling in iojson.WriteWith", err)
		_, err = fmt.Fprintln(ew, errStr)
		return err
	}

	_, err = fmt.Fprintln(w, string(bits))
	return err
}

// Write calls WriteWith with [os.Stdout] and [os.Stderr].
func Write(obj any) error {
	return WriteWith(os.Stdout, os.Stderr, obj)
}

// WriteLine marshals obj as a single JSON line to w.
func WriteLine(w io.Writer, obj any) error {
	bits, err := json.Marshal(obj)
	if err != nil {
		return fmt.Errorf("marshal line: %w", err)
	}
	_, err = fmt.Fprintln(w, string(bits))
	return err
}
