// Package jsonpath queries JSON documents, such as saved simulation reports,
// with a small JSONPath subset translated to gjson paths.
//
// Supported forms:
//
//	$                     the whole document
//	$.hourly.max          object members
//	$.estimates[2]        array elements
//	$['runId']            bracketed member names
//	$.intervals[*].total  a member of every array element
//	$.estimates.#         array length (gjson syntax passes through)
package jsonpath

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"go.uber.org/multierr"
)

// Query evaluates path against doc and returns the raw gjson result.
func Query(doc []byte, path string) (gjson.Result, error) {
	if len(doc) == 0 {
		return gjson.Result{}, fmt.Errorf("empty JSON document")
	}
	if path == "" {
		return gjson.Result{}, fmt.Errorf("empty JSONPath expression")
	}
	if !gjson.ValidBytes(doc) {
		return gjson.Result{}, fmt.Errorf("invalid JSON document")
	}

	result := gjson.GetBytes(doc, convertToGjsonPath(path))
	if !result.Exists() {
		return gjson.Result{}, fmt.Errorf("path not found: %s", path)
	}
	return result, nil
}

// Extract returns the value at path as a string. Strings are returned
// unquoted, null as "null", and objects and arrays as raw JSON.
func Extract(doc []byte, path string) (string, error) {
	result, err := Query(doc, path)
	if err != nil {
		return "", err
	}
	if result.Type == gjson.Null {
		return "null", nil
	}
	return result.String(), nil
}

// ExtractMultiple extracts every named path. Values that resolve are
// returned even when others fail; the error combines every failure.
func ExtractMultiple(doc []byte, paths map[string]string) (map[string]string, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no JSONPath expressions provided")
	}

	results := make(map[string]string, len(paths))
	var errs error
	for name, path := range paths {
		value, err := Extract(doc, path)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		results[name] = value
	}
	return results, errs
}

// convertToGjsonPath converts a JSONPath expression to a gjson path.
//
//	$.users[0].name  ->  users.0.name
//	$.users[*].name  ->  users.#.name
func convertToGjsonPath(path string) string {
	path = strings.TrimPrefix(path, "$")
	path = strings.TrimPrefix(path, ".")
	if path == "" {
		return "@this"
	}

	replacer := strings.NewReplacer(
		"['", ".", "']", "",
		`["`, ".", `"]`, "",
		"[*]", ".#",
		"[", ".", "]", "",
	)
	path = replacer.Replace(path)
	return strings.TrimPrefix(path, ".")
}
