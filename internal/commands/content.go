package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/terraincognita07/femcare/internal/content"
)

func addContent(topLevel *cobra.Command, opts *GlobalOptions) {
	cmd := &cobra.Command{
		Use:   "content",
		Short: "Health tip articles.",
	}

	var plain, normalize bool
	sections := &cobra.Command{
		Use:   "sections [file]",
		Short: "Split an article into heading, paragraph and list sections.",
		Long:  "Split an article written in the markdown subset (#-headings, '* ' list items, **bold**, *italic*, _underscore_) into sections. Reads stdin when no file is given.",
		Example: `
femcare content sections tips/iron.md
cat tips/iron.md | femcare content sections --json
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readArticle(cmd.InOrStdin(), firstArg(args))
			if err != nil {
				return err
			}

			parsed := content.Sectionize(raw)
			switch {
			case opts.JSON:
				return printJSON(parsed)
			case plain:
				printLine("%s", content.PlainText(parsed))
			case normalize:
				printLine("%s", content.Flatten(parsed))
			default:
				printSections(parsed)
			}
			return nil
		},
	}
	sections.Flags().BoolVar(&plain, "plain", false, "Print text only, one line per heading or item.")
	sections.Flags().BoolVar(&normalize, "normalize", false, "Print the article back in normalized markdown.")

	cmd.AddCommand(sections)
	topLevel.AddCommand(cmd)
}

func readArticle(stdin io.Reader, path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read article: %w", err)
	}
	return string(data), nil
}

func printSections(sections []content.Section) {
	for index, section := range sections {
		if index > 0 {
			printLine("")
		}
		switch section.Kind {
		case content.SectionHeading:
			if section.Level <= 1 {
				printTitle(section.Content)
			} else {
				printLine("%s", headerStyle.Sprint(section.Content))
			}
		case content.SectionList:
			for _, item := range section.Items {
				printLine("  %s %s", accentStyle.Sprint("•"), item)
			}
		default:
			for _, item := range section.Items {
				printLine("%s", item)
			}
		}
	}
}
