package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// NewCompareCmd создаёт команду сравнения выходов узла между версиями.
func NewCompareCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var questions []string
	var versions []int64
	var nodeID string
	var inputsFile string

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare a node's output across flow versions",
		Long: `Compare runs every question against every listed version and prints
a row per question with one answer column per version.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			req := CompareRequest{
				QuestionList: questions,
				VersionList:  versions,
				NodeID:       nodeID,
			}

			if inputsFile != "" {
				data, err := os.ReadFile(inputsFile)
				if err != nil {
					return fmt.Errorf("failed to read inputs file: %w", err)
				}
				if err := json.Unmarshal(data, &req.Inputs); err != nil {
					return fmt.Errorf("inputs file is not a valid JSON object: %w", err)
				}
			}

			answers, err := client.Compare(req)
			if err != nil {
				return err
			}

			headers := []string{"QUESTION"}
			for _, v := range versions {
				headers = append(headers, "V"+strconv.FormatInt(v, 10))
			}

			rows := make([][]string, len(answers))
			for i, slot := range answers {
				row := []string{questions[i]}
				for _, v := range versions {
					row = append(row, renderAnswer(slot[strconv.FormatInt(v, 10)]))
				}
				rows[i] = row
			}

			out.Print(headers, rows, answers)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&questions, "question", nil, "Test question (repeatable, required)")
	cmd.Flags().Int64SliceVar(&versions, "version", nil, "Version ID (repeatable, required)")
	cmd.Flags().StringVar(&nodeID, "node", "", "Node whose output is compared (required)")
	cmd.Flags().StringVar(&inputsFile, "inputs-file", "", "Path to JSON file with the graph inputs template")
	cmd.MarkFlagRequired("question")
	cmd.MarkFlagRequired("version")
	cmd.MarkFlagRequired("node")

	return cmd
}

// renderAnswer приводит ответ версии к однострочному виду для таблицы.
func renderAnswer(answer any) string {
	if answer == nil {
		return "-"
	}
	if s, ok := answer.(string); ok {
		return strings.ReplaceAll(s, "\n", " ")
	}
	data, err := json.Marshal(answer)
	if err != nil {
		return fmt.Sprintf("%v", answer)
	}
	return string(data)
}
