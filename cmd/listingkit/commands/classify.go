package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/listingkit/listingkit/internal/output"
	"github.com/listingkit/listingkit/pkg/classify"
)

type classification struct {
	URL    string `json:"url"`
	Kind   string `json:"kind"`
	Family string `json:"family"`
}

var classifyCmd = &cobra.Command{
	Use:   "classify URL...",
	Short: "Classify URLs without fetching them",
	Long: `Classify prints the target kind (listing or agent) and site family
for each URL. No network requests are made; classification never fails,
unrecognized hosts report family "unknown".`,
	Args: cobra.MinimumNArgs(1),
	RunE: runClassify,
}

func init() {
	rootCmd.AddCommand(classifyCmd)
	classifyCmd.Flags().String("format", "json", "output format: json, jsonl, yaml")
}

func runClassify(cmd *cobra.Command, args []string) error {
	formatStr, _ := cmd.Flags().GetString("format")
	format, err := output.ParseFormat(formatStr)
	if err != nil {
		return err
	}

	writer, err := output.NewWriter(os.Stdout, format)
	if err != nil {
		return err
	}

	for _, raw := range args {
		url := classify.Normalize(raw)
		kind, family := classify.Classify(url)
		if err := writer.Write(classification{
			URL:    url,
			Kind:   string(kind),
			Family: string(family),
		}); err != nil {
			return err
		}
	}
	return writer.Close()
}
