package store

import (
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	"github.com/jonathan/interview-assistant/internal/types"
)

// SnapshotVersion is the current persisted layout. Version 1 is the legacy
// unversioned layout: a bare InterviewState with no envelope.
const SnapshotVersion = 2

// ErrUnknownSnapshotVersion is returned when a snapshot was written by a
// newer layout than this build understands. The caller keeps the file and
// starts from a fresh state.
type ErrUnknownSnapshotVersion struct {
	Version int
}

func (e *ErrUnknownSnapshotVersion) Error() string {
	return fmt.Sprintf("snapshot version %d is newer than supported version %d", e.Version, SnapshotVersion)
}

type snapshot struct {
	Version int                  `json:"version"`
	State   types.InterviewState `json:"state"`
}

// snapshotSchema validates the versioned envelope before decoding. It checks
// structure, not business invariants; those are repaired after restore.
const snapshotSchema = `{
  "type": "object",
  "required": ["version", "state"],
  "properties": {
    "version": {"type": "integer", "minimum": 1},
    "state": {
      "type": "object",
      "required": ["candidates", "active_tab", "timer"],
      "properties": {
        "candidates": {"type": "array"},
        "active_tab": {"type": "string", "enum": ["interviewee", "interviewer"]},
        "is_interview_active": {"type": "boolean"},
        "time_remaining": {"type": "integer"},
        "show_welcome_back": {"type": "boolean"},
        "timer": {
          "type": "object",
          "required": ["is_running", "total_duration", "remaining"],
          "properties": {
            "is_running": {"type": "boolean"},
            "total_duration": {"type": "integer", "minimum": 0},
            "remaining": {"type": "integer", "minimum": 0}
          }
        }
      }
    }
  }
}`

var compiledSnapshotSchema = gojsonschema.NewStringLoader(snapshotSchema)

// EncodeSnapshot serializes the whole aggregate under the current version.
func EncodeSnapshot(state types.InterviewState) ([]byte, error) {
	data, err := json.Marshal(snapshot{Version: SnapshotVersion, State: state})
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot restores an aggregate from persisted bytes. Unversioned
// payloads are treated as the legacy version 1 layout and migrated; versions
// newer than this build are refused.
func DecodeSnapshot(data []byte) (types.InterviewState, error) {
	var probe struct {
		Version *int `json:"version"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return types.InterviewState{}, fmt.Errorf("snapshot is not valid JSON: %w", err)
	}

	if probe.Version == nil {
		return decodeLegacySnapshot(data)
	}

	if *probe.Version > SnapshotVersion {
		return types.InterviewState{}, &ErrUnknownSnapshotVersion{Version: *probe.Version}
	}

	result, err := gojsonschema.Validate(compiledSnapshotSchema, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return types.InterviewState{}, fmt.Errorf("snapshot schema validation failed: %w", err)
	}
	if !result.Valid() {
		return types.InterviewState{}, fmt.Errorf("snapshot does not match schema: %v", result.Errors())
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return types.InterviewState{}, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return snap.State, nil
}

// decodeLegacySnapshot migrates the unversioned layout: a bare InterviewState
// at the top level.
func decodeLegacySnapshot(data []byte) (types.InterviewState, error) {
	var state types.InterviewState
	if err := json.Unmarshal(data, &state); err != nil {
		return types.InterviewState{}, fmt.Errorf("failed to decode legacy snapshot: %w", err)
	}
	if state.Candidates == nil {
		state.Candidates = []types.Candidate{}
	}
	if !state.ActiveTab.Valid() {
		state.ActiveTab = types.TabInterviewee
	}
	return state, nil
}
