package mcp

import (
	"encoding/json"
	"path/filepath"
	"strconv"

	"triples-mcp/internal/draws"
	"triples-mcp/internal/stats"
)

// ResponseEnvelope is the JSON shape of every tool result.
type ResponseEnvelope struct {
	Data       any      `json:"data"`
	SnapshotID string   `json:"snapshot_id,omitempty"`
	File       string   `json:"file,omitempty"`
	Warnings   []string `json:"warnings,omitempty"`
	Guidance   []string `json:"guidance,omitempty"`
}

// WrapResponse builds the envelope for a tool result.
func WrapResponse(data any, snap *Snapshot, warnings, guidance []string) ResponseEnvelope {
	env := ResponseEnvelope{Data: data, Warnings: warnings, Guidance: guidance}
	if snap != nil {
		env.SnapshotID = snap.ID
		env.File = filepath.Base(snap.File)
	}
	return env
}

func (s *Server) formatResult(data any) string {
	out, _ := json.MarshalIndent(data, "", "  ")
	return string(out)
}

// analysisWarnings flags results the caller should not over-interpret.
func analysisWarnings(a stats.Analysis) []string {
	var w []string
	switch a.Chronology.Method {
	case draws.MethodUnknown:
		w = append(w, "Chronology could not be determined from dates or draw numbers; rows are used in file order.")
	case draws.MethodNone:
		w = append(w, "The table has fewer than two rows; chronology was not checked.")
	}
	if len(a.Events) == 0 {
		w = append(w, "No triples or quadruples in the table; baseline and window rates are unavailable.")
	}
	if a.MaxDrawNumber == nil {
		w = append(w, "No numeric draw numbers; manual entries will never be reset automatically.")
	}
	return w
}

func drawNumberLabel(v *int64) string {
	if v == nil {
		return "unavailable"
	}
	return strconv.FormatInt(*v, 10)
}
