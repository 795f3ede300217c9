package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/effective-security/toolchat/config"
	"github.com/effective-security/toolchat/mcpconn"
	"github.com/effective-security/toolchat/registry"
	"github.com/spf13/cobra"
	yaml "gopkg.in/yaml.v3"
)

var toolsFormat string

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "Connect to the configured providers and list their tools",
	RunE:  runTools,
}

func init() {
	toolsCmd.Flags().StringVar(&toolsFormat, "format", "text", "output format: text or yaml")
}

type toolParam struct {
	Type     string `yaml:"type"`
	Required bool   `yaml:"required,omitempty"`
}

type toolInfo struct {
	Name        string               `yaml:"name"`
	Provider    string               `yaml:"provider"`
	Description string               `yaml:"description,omitempty"`
	Parameters  map[string]toolParam `yaml:"parameters,omitempty"`
}

func runTools(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	reg := registry.New()
	mgr := mcpconn.NewManager()
	defer mgr.Shutdown()
	mgr.ConnectAll(ctx, cfg.Providers, reg)

	switch toolsFormat {
	case "yaml":
		list := make([]toolInfo, 0, reg.Len())
		for _, d := range reg.Descriptors() {
			info := toolInfo{
				Name:        d.Name,
				Description: d.Description,
			}
			if owner, err := reg.ResolveOwner(d.Name); err == nil {
				info.Provider = owner.Name()
			}
			if len(d.Parameters) > 0 {
				info.Parameters = make(map[string]toolParam, len(d.Parameters))
				for name, p := range d.Parameters {
					info.Parameters[name] = toolParam{Type: p.Type, Required: p.Required}
				}
			}
			list = append(list, info)
		}
		return yaml.NewEncoder(os.Stdout).Encode(list)
	default:
		fmt.Print(reg.Describe())
	}
	return nil
}
