package fwmaker

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	MsgRootShort       = "Assemble firmware flash images from component binaries"
	MsgInitShort       = "Generate a default layout description"
	MsgCheckShort      = "Validate a layout description"
	MsgBuildShort      = "Check a layout and write the image"
	MsgConvertShort    = "Re-encode a layout description in another format"
	MsgComponentsShort = "List recognized and essential components"
	MsgConfigShort     = "Print a commented configuration template"
	MsgTopicsShort     = "Display available documentation topics"
	MsgTopicsLong      = "Display a list of all available help topics that provide additional documentation beyond command help."
	MsgCompletionShort = "Generate shell completion script"

	// Status messages
	MsgLayoutWritten = "Wrote layout %s\n"
	MsgConverted     = "Converted %s to %s\n"
	MsgLayoutValid   = "Layout %s is valid\n"

	// Error messages
	MsgErrLayoutExists = "%s already exists, use --force to replace it"
	MsgErrNoComponents = "no components given and no recognized components configured"
	MsgErrEssentialAll = "--essential and --all cannot be used together"

	// Flag descriptions
	MsgFlagVerbose   = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig    = "Read settings from this TOML or YAML file"
	MsgFlagFormat    = "Output format: auto, term, text or json"
	MsgFlagDir       = "Run as if started in this directory"
	MsgFlagLayout    = "Layout description file (default from layout.path)"
	MsgFlagBaseDir   = "Resolve relative component paths against this directory"
	MsgFlagOutput    = "Image file to write (default from output.path)"
	MsgFlagWrite     = "Write the layout file instead of printing it"
	MsgFlagForce     = "Replace an existing file"
	MsgFlagEssential = "Only include essential components"
	MsgFlagAll       = "Include every recognized component"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/init-long.txt
	msgInitLongRaw string
	MsgInitLong    = strings.TrimSpace(msgInitLongRaw)

	//go:embed msgs/init-example.txt
	msgInitExampleRaw string
	MsgInitExample    = strings.TrimRight(msgInitExampleRaw, "\n")

	//go:embed msgs/check-long.txt
	msgCheckLongRaw string
	MsgCheckLong    = strings.TrimSpace(msgCheckLongRaw)

	//go:embed msgs/build-long.txt
	msgBuildLongRaw string
	MsgBuildLong    = strings.TrimSpace(msgBuildLongRaw)

	//go:embed msgs/build-example.txt
	msgBuildExampleRaw string
	MsgBuildExample    = strings.TrimRight(msgBuildExampleRaw, "\n")

	//go:embed msgs/convert-long.txt
	msgConvertLongRaw string
	MsgConvertLong    = strings.TrimSpace(msgConvertLongRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)
