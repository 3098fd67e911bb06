package engine

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lfaley/taskmesh/core"
	"github.com/lfaley/taskmesh/invoker"
	"github.com/lfaley/taskmesh/registry"
)

// MockInvoker proves, via testify expectations, that no invocation happens
// on validation-only paths.
type MockInvoker struct {
	mock.Mock
}

func (m *MockInvoker) Invoke(ctx context.Context, inv core.Invocation) (any, error) {
	args := m.Called(ctx, inv)
	return args.Get(0), args.Error(1)
}

func newTestRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg := registry.New()
	for _, id := range []string{"agent1", "agent2", "agent3"} {
		require.NoError(t, reg.Register(registry.AgentInfo{
			ID:    id,
			Name:  id,
			Tools: []registry.ToolInfo{{Name: "work"}},
		}))
	}
	return reg
}

func simpleRequest(p core.PatternType, agentIDs ...string) *core.OrchestrationRequest {
	agents := make([]core.AgentConfig, 0, len(agentIDs))
	for _, id := range agentIDs {
		agents = append(agents, core.AgentConfig{AgentID: id, ToolName: "work"})
	}
	return &core.OrchestrationRequest{Pattern: p, Agents: agents}
}

func TestOrchestrate_SequentialTwoAgents(t *testing.T) {
	orch := New(newTestRegistry(t), invoker.NewSimulated())

	res, err := orch.Orchestrate(context.Background(), simpleRequest(core.PatternSequential, "agent1", "agent2"))

	require.NoError(t, err)
	assert.Equal(t, core.StatusCompleted, res.Status)
	require.Len(t, res.AgentResults, 2)
	assert.Equal(t, "agent1", res.AgentResults[0].AgentID)
	assert.Equal(t, "agent2", res.AgentResults[1].AgentID)
	assert.Equal(t, core.PatternSequential, res.Metadata.Pattern)
	assert.NotEmpty(t, res.Metadata.OrchestrationID)
	assert.NotEmpty(t, res.Summary)
}

func TestOrchestrate_GroupChatPartialOnFailure(t *testing.T) {
	sim := invoker.NewSimulated().FailWith("agent2", errors.New("boom"))
	orch := New(newTestRegistry(t), sim)

	req := simpleRequest(core.PatternGroupChat, "agent1", "agent2")
	req.Config = &core.RequestConfig{ContinueOnError: func() *bool { b := true; return &b }()}

	res, err := orch.Orchestrate(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, core.StatusPartial, res.Status)
	completed, failed, _ := core.CountByStatus(res.AgentResults)
	assert.Greater(t, completed, 0)
	assert.Greater(t, failed, 0)
}

func TestOrchestrate_RejectsUnknownAgent(t *testing.T) {
	mi := new(MockInvoker)
	orch := New(newTestRegistry(t), mi)

	res, err := orch.Orchestrate(context.Background(), simpleRequest(core.PatternSequential, "ghost"))

	require.Error(t, err)
	assert.Nil(t, res, "a rejected call must not also carry a result")
	var ve *core.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, core.CodeInvalidRequest, ve.Code)
	mi.AssertNotCalled(t, "Invoke", mock.Anything, mock.Anything)
}

func TestOrchestrate_RejectsUnknownTool(t *testing.T) {
	orch := New(newTestRegistry(t), invoker.NewSimulated())

	req := &core.OrchestrationRequest{
		Pattern: core.PatternSequential,
		Agents:  []core.AgentConfig{{AgentID: "agent1", ToolName: "translate"}},
	}
	_, err := orch.Orchestrate(context.Background(), req)

	require.Error(t, err)
	var ve *core.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Errors[0], "translate")
}

func TestOrchestrate_RejectsUnknownPattern(t *testing.T) {
	orch := New(newTestRegistry(t), invoker.NewSimulated())

	_, err := orch.Orchestrate(context.Background(), simpleRequest("round-robin", "agent1"))

	require.Error(t, err)
	var ve *core.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Errors[0], "round-robin")
}

func TestValidateWorkflow_NeverInvokesAndLeavesRegistryAlone(t *testing.T) {
	mi := new(MockInvoker)
	reg := newTestRegistry(t)
	orch := New(reg, mi)

	before := reg.Stats()
	v := orch.ValidateWorkflow(simpleRequest(core.PatternSequential, "agent1", "agent2"))

	assert.True(t, v.Valid)
	assert.Empty(t, v.Errors)
	assert.Equal(t, before, reg.Stats())
	mi.AssertNotCalled(t, "Invoke", mock.Anything, mock.Anything)
}

func TestValidateWorkflow_MatchesOrchestrateErrors(t *testing.T) {
	orch := New(newTestRegistry(t), invoker.NewSimulated())
	req := simpleRequest(core.PatternSequential, "ghost")

	v := orch.ValidateWorkflow(req)
	_, err := orch.Orchestrate(context.Background(), req)

	require.False(t, v.Valid)
	var ve *core.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, v.Errors, ve.Errors)
}

func TestValidateWorkflow_StructuralErrors(t *testing.T) {
	orch := New(newTestRegistry(t), invoker.NewSimulated())

	tests := []struct {
		name string
		req  *core.OrchestrationRequest
		want string
	}{
		{"nil request", nil, "request is required"},
		{"empty agents", &core.OrchestrationRequest{Pattern: core.PatternSequential}, "non-empty"},
		{"missing agentId", &core.OrchestrationRequest{Pattern: core.PatternSequential, Agents: []core.AgentConfig{{ToolName: "work"}}}, "agentId"},
		{"missing toolName", &core.OrchestrationRequest{Pattern: core.PatternSequential, Agents: []core.AgentConfig{{AgentID: "agent1"}}}, "toolName"},
		{"negative timeout", &core.OrchestrationRequest{Pattern: core.PatternSequential, Agents: []core.AgentConfig{{AgentID: "agent1", ToolName: "work", Timeout: -5}}}, "negative timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := orch.ValidateWorkflow(tt.req)
			require.False(t, v.Valid)
			found := false
			for _, e := range v.Errors {
				if strings.Contains(e, tt.want) {
					found = true
				}
			}
			assert.True(t, found, "errors %v should mention %q", v.Errors, tt.want)
		})
	}
}

func TestValidateWorkflow_ConcurrentWarning(t *testing.T) {
	orch := New(newTestRegistry(t), invoker.NewSimulated())

	v := orch.ValidateWorkflow(simpleRequest(core.PatternConcurrent, "agent1", "agent2"))

	assert.True(t, v.Valid)
	require.NotEmpty(t, v.Warnings)
	assert.Contains(t, v.Warnings[0], "maxConcurrency")
}

func TestValidateWorkflow_GroupChatMinimum(t *testing.T) {
	orch := New(newTestRegistry(t), invoker.NewSimulated())

	v := orch.ValidateWorkflow(simpleRequest(core.PatternGroupChat, "agent1"))

	assert.False(t, v.Valid)
	assert.Contains(t, v.Errors, "At least two agents are required for group chat")
}

func TestListPatterns(t *testing.T) {
	orch := New(newTestRegistry(t), invoker.NewSimulated())

	descriptors := orch.ListPatterns()
	require.Len(t, descriptors, 4)
	assert.Equal(t, core.PatternSequential, descriptors[0].Type)
	assert.Equal(t, core.PatternConcurrent, descriptors[1].Type)
	assert.Equal(t, core.PatternHandoff, descriptors[2].Type)
	assert.Equal(t, core.PatternGroupChat, descriptors[3].Type)
	for _, d := range descriptors {
		assert.NotEmpty(t, d.Name)
		assert.NotEmpty(t, d.Description)
		assert.NotEmpty(t, d.Capabilities)
	}
}

func TestPatternInfo(t *testing.T) {
	orch := New(newTestRegistry(t), invoker.NewSimulated())

	info, err := orch.PatternInfo(core.PatternHandoff)
	require.NoError(t, err)
	assert.Equal(t, core.PatternHandoff, info.Type)
	assert.NotEmpty(t, info.UseCases)
	assert.NotEmpty(t, info.Example)
	assert.NotEmpty(t, info.BestPractices)

	_, err = orch.PatternInfo("round-robin")
	require.Error(t, err)
	var ve *core.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, core.CodeUnknownPattern, ve.Code)
}

func TestListAvailableAgents(t *testing.T) {
	orch := New(newTestRegistry(t), invoker.NewSimulated())

	catalog := orch.ListAvailableAgents()
	require.Len(t, catalog.Agents, 3)
	assert.Equal(t, "agent1", catalog.Agents[0].ID)
	assert.Equal(t, 1, catalog.Agents[0].ToolCount)
	assert.Equal(t, []string{"work"}, catalog.Agents[0].Tools)
	assert.Equal(t, 3, catalog.Stats.TotalAgents)
	assert.Equal(t, 3, catalog.Stats.AvailableAgents)
}
