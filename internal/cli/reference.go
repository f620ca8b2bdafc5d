package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lumenwell/capreport/pkg/cache"
	"github.com/lumenwell/capreport/pkg/report"
)

// newReferenceCmd creates the reference command. The reference document is
// built from frozen inputs and must be byte-identical on every host; CI
// uses --check to catch rendering drift.
func newReferenceCmd() *cobra.Command {
	var (
		output string
		check  bool
		expect string
	)

	cmd := &cobra.Command{
		Use:   "reference",
		Short: "Emit or verify the frozen reference document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := report.Reference()
			if err != nil {
				return err
			}

			if check {
				again, err := report.Reference()
				if err != nil {
					return err
				}
				if doc != again {
					printError("Reference document is not reproducible")
					return fmt.Errorf("reference drift: consecutive renders differ")
				}

				if expect == "" {
					expect = report.ReferenceChecksum
				}
				hash := cache.Hash([]byte(doc))
				if hash != expect {
					printError("Reference hash mismatch")
					printDetail("want %s", expect)
					printDetail("got  %s", hash)
					return fmt.Errorf("reference drift: hash mismatch")
				}

				printSuccess("Reference document verified")
				printDetail("sha256:%s", hash)
				return nil
			}

			if output != "" {
				if err := os.WriteFile(output, []byte(doc), 0o644); err != nil {
					return fmt.Errorf("write %s: %w", output, err)
				}
				printSuccess("Reference document written")
				printFile(output)
				return nil
			}

			fmt.Print(doc)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the document to a file instead of stdout")
	cmd.Flags().BoolVar(&check, "check", false, "verify reproducibility instead of emitting the document")
	cmd.Flags().StringVar(&expect, "hash", "", "expected sha256 of the document (with --check; defaults to the recorded checksum)")

	return cmd
}
