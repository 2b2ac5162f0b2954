package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"capsolver"
)

type balanceInput struct{}

type balanceOutput struct {
	Balance  float64  `json:"balance"`
	Packages []string `json:"packages,omitempty"`
}

type createTaskInput struct {
	Task map[string]any `json:"task" jsonschema:"task document including its type tag such as ReCaptchaV2TaskProxyLess"`
}

type createTaskOutput struct {
	TaskID   string `json:"taskId"`
	Status   string `json:"status,omitempty"`
	Solution any    `json:"solution,omitempty"`
}

type taskResultInput struct {
	TaskID         string `json:"taskId" jsonschema:"task id returned by create_task"`
	TimeoutSeconds int    `json:"timeoutSeconds,omitempty" jsonschema:"maximum wait in seconds, defaults to the configured poll timeout"`
}

type taskResultOutput struct {
	Solution any `json:"solution"`
}

// toolServer exposes one session as MCP tools.
type toolServer struct {
	s   *capsolver.Session
	log *logger
}

func (t *toolServer) balance(ctx context.Context, _ *mcp.CallToolRequest, _ balanceInput) (*mcp.CallToolResult, balanceOutput, error) {
	b, err := t.s.Balance(ctx)
	if err != nil {
		return nil, balanceOutput{}, err
	}
	return nil, balanceOutput{Balance: b.Balance, Packages: b.Packages}, nil
}

func (t *toolServer) createTask(ctx context.Context, _ *mcp.CallToolRequest, in createTaskInput) (*mcp.CallToolResult, createTaskOutput, error) {
	raw, err := json.Marshal(in.Task)
	if err != nil {
		return nil, createTaskOutput{}, fmt.Errorf("marshal task: %w", err)
	}
	created, err := t.s.CreateTaskRaw(ctx, raw)
	if err != nil {
		return nil, createTaskOutput{}, err
	}
	t.log.infof("mcp: task created: taskId=%s", created.TaskID)
	out := createTaskOutput{TaskID: created.TaskID, Status: created.Status}
	if len(created.Solution) > 0 {
		if err := json.Unmarshal(created.Solution, &out.Solution); err != nil {
			return nil, createTaskOutput{}, fmt.Errorf("decode solution: %w", err)
		}
	}
	return nil, out, nil
}

func (t *toolServer) taskResult(ctx context.Context, _ *mcp.CallToolRequest, in taskResultInput) (*mcp.CallToolResult, taskResultOutput, error) {
	var opts []capsolver.PollOption
	if in.TimeoutSeconds > 0 {
		opts = append(opts, capsolver.PollTimeout(time.Duration(in.TimeoutSeconds)*time.Second))
	}
	sol, err := capsolver.GetTaskResult[any](ctx, t.s, in.TaskID, opts...)
	if err != nil {
		return nil, taskResultOutput{}, err
	}
	return nil, taskResultOutput{Solution: sol}, nil
}

func newMCPServer(t *toolServer) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: "capsolver", Version: version}, nil)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_balance",
		Description: "Return the CapSolver account balance and packages.",
	}, t.balance)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_task",
		Description: "Submit a captcha task document. Recognition tasks may return the solution directly.",
	}, t.createTask)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_task_result",
		Description: "Wait for a task created by create_task and return its solution.",
	}, t.taskResult)
	return server
}

func newMCPCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the client as MCP tools over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, _, err := a.session()
			if err != nil {
				return err
			}
			a.log.info("mcp: serving on stdio")
			return newMCPServer(&toolServer{s: s, log: a.log}).Run(cmd.Context(), &mcp.StdioTransport{})
		},
	}
}
