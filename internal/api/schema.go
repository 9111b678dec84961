package api

import (
	"net/http"

	"github.com/invopop/jsonschema"

	"github.com/vovakirdan/subway-runner/internal/runner"
)

// SnapshotSchema describes the JSON form of runner.Snapshot, the frame
// format streamed by /ws/play.
func SnapshotSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		ExpandedStruct: true,
	}
	schema := reflector.Reflect(&runner.Snapshot{})
	schema.Title = "Subway Runner Snapshot"
	schema.Description = "Render state of one simulation tick."
	return schema
}

func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, SnapshotSchema())
}
