package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// NewVersionCmd создаёт группу команд для управления версиями flow.
func NewVersionCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Manage flow versions",
	}

	cmd.AddCommand(
		newVersionShowCmd(clientFn, outputFn),
		newVersionCreateCmd(clientFn, outputFn),
		newVersionUpdateCmd(clientFn, outputFn),
		newVersionDeleteCmd(clientFn, outputFn),
		newVersionSetCurrentCmd(clientFn, outputFn),
	)

	return cmd
}

func parseVersionID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid version id: %s", raw)
	}
	return id, nil
}

func versionRow(v *VersionResponse) []string {
	return []string{
		strconv.FormatInt(v.ID, 10),
		v.FlowID,
		v.Name,
		strconv.FormatBool(v.IsCurrent),
		v.CreatedAt,
	}
}

var versionHeaders = []string{"ID", "FLOW_ID", "NAME", "CURRENT", "CREATED"}

func newVersionShowCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show version details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			id, err := parseVersionID(args[0])
			if err != nil {
				return err
			}

			version, err := client.GetVersion(id)
			if err != nil {
				return err
			}

			out.Print(versionHeaders, [][]string{versionRow(version)}, version)
			return nil
		},
	}
}

func newVersionCreateCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var name string
	var description string
	var graphFile string

	cmd := &cobra.Command{
		Use:   "create FLOW_ID",
		Short: "Create a new flow version from a graph file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			req := CreateVersionRequest{Name: name, Description: description}
			if graphFile != "" {
				data, err := readGraphFile(graphFile)
				if err != nil {
					return err
				}
				req.Data = data
			}

			version, err := client.CreateVersion(args[0], req)
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Version %d created for flow %s", version.ID, version.FlowID))
			out.Print(versionHeaders, [][]string{versionRow(version)}, version)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Version name (required)")
	cmd.Flags().StringVar(&description, "description", "", "Version description")
	cmd.Flags().StringVar(&graphFile, "graph-file", "", "Path to graph JSON file")
	cmd.MarkFlagRequired("name")

	return cmd
}

func newVersionUpdateCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var name string
	var description string
	var graphFile string

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update version fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			id, err := parseVersionID(args[0])
			if err != nil {
				return err
			}

			req := UpdateVersionRequest{}
			if cmd.Flags().Changed("name") {
				req.Name = &name
			}
			if cmd.Flags().Changed("description") {
				req.Description = &description
			}
			if graphFile != "" {
				data, err := readGraphFile(graphFile)
				if err != nil {
					return err
				}
				req.Data = data
			}

			version, err := client.UpdateVersion(id, req)
			if err != nil {
				return err
			}

			out.Success("Version updated")
			out.Print(versionHeaders, [][]string{versionRow(version)}, version)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New version name")
	cmd.Flags().StringVar(&description, "description", "", "New version description")
	cmd.Flags().StringVar(&graphFile, "graph-file", "", "Path to graph JSON file")

	return cmd
}

func newVersionDeleteCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a version (the current version is protected)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			id, err := parseVersionID(args[0])
			if err != nil {
				return err
			}

			if err := client.DeleteVersion(id); err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Version deleted: %d", id))
			return nil
		},
	}
}

func newVersionSetCurrentCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "set-current FLOW_ID VERSION_ID",
		Short: "Switch the current version of a flow",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			versionID, err := parseVersionID(args[1])
			if err != nil {
				return err
			}

			if err := client.SetCurrentVersion(args[0], versionID); err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Version %d is now current for flow %s", versionID, args[0]))
			return nil
		},
	}
}
