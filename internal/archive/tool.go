package archive

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// ToolRunner extracts an archive into destDir using some external means.
type ToolRunner interface {
	Run(ctx context.Context, archivePath, destDir string) error
}

// CommandTool runs an external multi-format extractor. The command line is
// Name Args... OutdirFlag destDir archivePath.
type CommandTool struct {
	Name       string
	Args       []string
	OutdirFlag string
}

// DefaultTool returns the patool based extractor.
func DefaultTool() *CommandTool {
	return &CommandTool{Name: "patool", Args: []string{"--non-interactive", "extract"}, OutdirFlag: "--outdir"}
}

// ParseCommand splits a command line such as "patool extract --outdir"
// into a CommandTool. The last token starting with "-" becomes the outdir
// flag.
func ParseCommand(line string) (*CommandTool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty extractor command")
	}
	tool := &CommandTool{Name: fields[0]}
	args := fields[1:]
	if n := len(args); n > 0 && strings.HasPrefix(args[n-1], "-") {
		tool.OutdirFlag = args[n-1]
		args = args[:n-1]
	}
	tool.Args = args
	return tool, nil
}

func (t *CommandTool) Run(ctx context.Context, archivePath, destDir string) error {
	args := append([]string{}, t.Args...)
	if t.OutdirFlag != "" {
		args = append(args, t.OutdirFlag, destDir)
	}
	args = append(args, archivePath)

	cmd := exec.CommandContext(ctx, t.Name, args...)
	cmd.Dir = destDir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s: %w: %s", t.Name, err, msg)
		}
		return fmt.Errorf("%s: %w", t.Name, err)
	}
	return nil
}
