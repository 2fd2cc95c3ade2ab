package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/gorblint/internal/configloader"
	"github.com/yaklabco/gorblint/internal/logging"
	"github.com/yaklabco/gorblint/pkg/config"
)

// initFlags holds the flags for the init command.
type initFlags struct {
	force  bool
	output string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new gorblint configuration file",
		Long: `Create a .gorblint.yml configuration file in the current directory listing
every rule with its default settings and options.

Examples:
  gorblint init                          Create .gorblint.yml
  gorblint init --force                  Overwrite an existing file
  gorblint init --output config/lint.yml Write to a custom path`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd.InOrStdin(), cmd.OutOrStdout(), flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "overwrite existing configuration file")
	cmd.Flags().StringVarP(&flags.output, "output", "o", configloader.ProjectConfigFiles[0], "output file path")

	return cmd
}

func runInit(in io.Reader, out io.Writer, flags *initFlags) error {
	logger := logging.NewInteractive()

	force := flags.force
	if !force && fileExists(flags.output) {
		confirmed, err := confirmOverwrite(in, out, flags.output)
		if err != nil {
			return err
		}
		if !confirmed {
			return withExitCode(ExitInvalidUsage,
				fmt.Errorf("file %q already exists; use --force to overwrite", flags.output))
		}
		force = true
	}

	if err := configloader.WriteConfig(flags.output, config.GenerateTemplate(), force); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return withExitCode(ExitInvalidUsage,
				fmt.Errorf("file %q already exists; use --force to overwrite", flags.output))
		}
		return withExitCode(ExitIOError, err)
	}

	logger.Info("created configuration file", logging.FieldPath, flags.output)
	logger.Info("run 'gorblint rules' to see all available rules")

	return nil
}

// confirmOverwrite asks before replacing path. Without a terminal on stdin
// the answer is no.
func confirmOverwrite(in io.Reader, out io.Writer, path string) (bool, error) {
	file, ok := in.(*os.File)
	if !ok || !term.IsTerminal(int(file.Fd())) {
		return false, nil
	}

	if _, err := fmt.Fprintf(out, "%s already exists. Overwrite? [y/N] ", path); err != nil {
		return false, fmt.Errorf("write prompt: %w", err)
	}

	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read response: %w", err)
	}

	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes", nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
