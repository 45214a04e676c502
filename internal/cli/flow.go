package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

// NewFlowCmd создаёт группу команд для управления flows.
func NewFlowCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "flow",
		Short: "Manage flows",
	}

	cmd.AddCommand(
		newFlowListCmd(clientFn, outputFn),
		newFlowCreateCmd(clientFn, outputFn),
		newFlowShowCmd(clientFn, outputFn),
		newFlowVersionsCmd(clientFn, outputFn),
	)

	return cmd
}

func newFlowListCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var name string
	var status string
	var page int
	var pageSize int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List flows visible to the user",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			flows, err := client.ListFlows(ListFlowsOpts{
				Name:     name,
				Status:   status,
				Page:     page,
				PageSize: pageSize,
			})
			if err != nil {
				return err
			}

			headers := []string{"ID", "NAME", "OWNER", "STATUS", "WRITE", "VERSIONS", "UPDATED"}
			rows := make([][]string, len(flows))
			for i, f := range flows {
				rows[i] = []string{
					f.ID,
					f.Name,
					f.UserName,
					f.Status,
					strconv.FormatBool(f.Write),
					strconv.Itoa(len(f.Versions)),
					f.UpdatedAt,
				}
			}

			out.Print(headers, rows, flows)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Filter by name substring")
	cmd.Flags().StringVar(&status, "status", "", "Filter by status (DRAFT/ONLINE)")
	cmd.Flags().IntVar(&page, "page", 0, "Page number, starting from 1")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "Page size")

	return cmd
}

func newFlowCreateCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var name string
	var description string
	var graphFile string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new flow with its initial version",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			req := CreateFlowRequest{Name: name, Description: description}
			if graphFile != "" {
				data, err := readGraphFile(graphFile)
				if err != nil {
					return err
				}
				req.Data = data
			}

			flow, err := client.CreateFlow(req)
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Flow created: %s", flow.ID))
			out.Print(
				[]string{"ID", "NAME", "STATUS", "CREATED"},
				[][]string{{flow.ID, flow.Name, flow.Status, flow.CreatedAt}},
				flow,
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Flow name (required)")
	cmd.Flags().StringVar(&description, "description", "", "Flow description")
	cmd.Flags().StringVar(&graphFile, "graph-file", "", "Path to graph JSON file for the initial version")
	cmd.MarkFlagRequired("name")

	return cmd
}

func newFlowShowCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show flow details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			flow, err := client.GetFlow(args[0])
			if err != nil {
				return err
			}

			out.Print(
				[]string{"ID", "NAME", "STATUS", "OWNER", "CREATED", "UPDATED"},
				[][]string{{flow.ID, flow.Name, flow.Status, flow.UserID, flow.CreatedAt, flow.UpdatedAt}},
				flow,
			)
			return nil
		},
	}
}

func newFlowVersionsCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "versions FLOW_ID",
		Short: "List flow versions, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			versions, err := client.ListVersions(args[0])
			if err != nil {
				return err
			}

			headers := []string{"ID", "NAME", "CURRENT", "CREATED"}
			rows := make([][]string, len(versions))
			for i, v := range versions {
				rows[i] = []string{
					strconv.FormatInt(v.ID, 10),
					v.Name,
					strconv.FormatBool(v.IsCurrent),
					v.CreatedAt,
				}
			}

			out.Print(headers, rows, versions)
			return nil
		},
	}
}

// readGraphFile читает и проверяет JSON-файл графа.
func readGraphFile(path string) (json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read graph file: %w", err)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("graph file is not valid JSON")
	}
	return json.RawMessage(data), nil
}
