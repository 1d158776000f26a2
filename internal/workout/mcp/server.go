package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const serverName = "gymsession-workouts"

var toolGetWorkoutSession = mcp.NewTool("get_workout_session",
	mcp.WithDescription("Returns one workout session. By default a summary with totals, personal record count and per-slot progress; with view=full the raw session including every set and pause."),
	mcp.WithString("session_id", mcp.Required(), mcp.Description("Workout session id (UUID)")),
	mcp.WithString("view", mcp.Description("summary (default) or full"), mcp.Enum("summary", "full")),
)

var toolListWorkoutSessions = mcp.NewTool("list_workout_sessions",
	mcp.WithDescription("Lists workout session summaries, newest first. Use to see recent training, or finished/abandoned sessions only."),
	mcp.WithString("status", mcp.Description("Filter by status"), mcp.Enum("in_progress", "paused", "completed", "abandoned")),
	mcp.WithNumber("page", mcp.Description("Page number, starting at 1. Defaults to 1.")),
	mcp.WithNumber("size", mcp.Description("Page size, at most 100. Defaults to 20.")),
)

var toolListPersonalRecords = mcp.NewTool("list_personal_records",
	mcp.WithDescription("Lists sets flagged as personal records (weight, reps at weight or volume), newest first."),
	mcp.WithNumber("exercise_id", mcp.Description("Only records of this exercise")),
)

var toolSuggestWeight = mcp.NewTool("suggest_weight",
	mcp.WithDescription("Suggests a working weight for an exercise: the heaviest normal set of the most recent finished session with it. Returns null weight when there is no history."),
	mcp.WithNumber("exercise_id", mcp.Required(), mcp.Description("Exercise id")),
)

// NewServer builds a read-only MCP server over the workout sessions of one owner.
func NewServer(service sessionReader, ownerID int64, version string) *server.MCPServer {
	h := NewHandler(service, ownerID)
	s := server.NewMCPServer(serverName, version,
		server.WithToolCapabilities(false),
		server.WithInstructions("Workout session history: sessions, summaries, personal records and weight suggestions. Read only."),
	)

	s.AddTools(
		server.ServerTool{Tool: toolGetWorkoutSession, Handler: h.GetWorkoutSession},
		server.ServerTool{Tool: toolListWorkoutSessions, Handler: h.ListWorkoutSessions},
		server.ServerTool{Tool: toolListPersonalRecords, Handler: h.ListPersonalRecords},
		server.ServerTool{Tool: toolSuggestWeight, Handler: h.SuggestWeight},
	)

	return s
}
