package schema

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Listen phases.
const (
	ListenPreRequest = "prerequest"
	ListenTest       = "test"
)

// DefaultScriptType is the script language assumed when none is given.
const DefaultScriptType = "text/javascript"

// Event binds a script to an execution phase.
type Event struct {
	ID       string  `json:"id,omitempty"`
	Listen   string  `json:"listen,omitempty"`
	Script   *Script `json:"script,omitempty"`
	Disabled bool    `json:"disabled,omitempty"`
}

// Script is an event body.
type Script struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
	Type string `json:"type,omitempty"`
	Exec *Exec  `json:"exec,omitempty"`
	Src  any    `json:"src,omitempty"`
}

// Exec is a script body. Legacy documents write it as one multi-line
// string, structured ones as a list of lines. IsText records which one was
// decoded so that it is written back the same way until Split is called.
type Exec struct {
	Text   string
	Lines  []string
	IsText bool
}

// Split turns a text body into lines. It is a no-op on line bodies.
func (e *Exec) Split() {
	if !e.IsText {
		return
	}
	e.Lines = strings.Split(e.Text, "\n")
	e.Text = ""
	e.IsText = false
}

// Join returns the body as one newline-joined string.
func (e *Exec) Join() string {
	if e.IsText {
		return e.Text
	}
	return strings.Join(e.Lines, "\n")
}

func (e Exec) MarshalJSON() ([]byte, error) {
	if e.IsText {
		return json.Marshal(e.Text)
	}
	if e.Lines == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(e.Lines)
}

func (e *Exec) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*e = Exec{}
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		e.IsText = true
		return json.Unmarshal(data, &e.Text)
	}
	return json.Unmarshal(data, &e.Lines)
}
