package parse

import "strings"

// QueryParam is one entry of a URL query string. Equals is false for a bare
// key without "=".
type QueryParam struct {
	Key    string
	Value  string
	Equals bool
}

// Query extracts the query parameters of a URL. Collection URLs carry
// template variables such as {{host}}, so the string is split by hand rather
// than parsed as an RFC 3986 URL; keys and values are returned undecoded.
func Query(rawURL string) []QueryParam {
	_, query, ok := strings.Cut(rawURL, "?")
	if !ok {
		return nil
	}
	query, _, _ = strings.Cut(query, "#")

	var params []QueryParam
	for _, pair := range strings.Split(query, "&") {
		if pair == "" {
			continue
		}
		key, value, equals := strings.Cut(pair, "=")
		params = append(params, QueryParam{Key: key, Value: value, Equals: equals})
	}
	return params
}
