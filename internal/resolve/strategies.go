package resolve

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/firefly-engineering/firefly-outpost/internal/config"
	"github.com/firefly-engineering/firefly-outpost/internal/logging"
	"github.com/firefly-engineering/firefly-outpost/internal/system"
)

// TerraformStrategies builds the standard strategy chain for a Terraform
// provisioned target, in priority order:
//
//  1. terraform output -json <name>  — the structured state query
//  2. terraform show                 — IPv4 scan of the human-readable dump
//  3. getent hosts <target>.local    — mDNS resolution of the hostname
//
// Every strategy shells out through the executor, so tests drive the chain
// with canned tool output.
func TerraformStrategies(exec system.CommandExecutor, target string, prov config.Provisioner) []Strategy {
	return []Strategy{
		{
			Name: "terraform-output",
			Lookup: func(ctx context.Context) string {
				out, err := exec.Execute(ctx, "terraform", "-chdir="+prov.Dir, "output", "-json", prov.Output)
				if err != nil {
					logging.Debug("terraform output failed", "error", err)
					return ""
				}
				return decodeOutputValue(out)
			},
		},
		{
			Name: "terraform-show",
			Lookup: func(ctx context.Context) string {
				out, err := exec.Execute(ctx, "terraform", "-chdir="+prov.Dir, "show", "-no-color")
				if err != nil {
					logging.Debug("terraform show failed", "error", err)
					return ""
				}
				return ExtractIPv4(string(out))
			},
		},
		{
			Name: "mdns",
			Lookup: func(ctx context.Context) string {
				out, err := exec.Execute(ctx, "getent", "hosts", target+".local")
				if err != nil {
					logging.Debug("mdns lookup failed", "host", target+".local", "error", err)
					return ""
				}
				return ExtractIPv4(string(out))
			},
		},
	}
}

// decodeOutputValue unwraps a terraform output -json value. Outputs are
// either a bare JSON string or, for older state formats, an object with a
// "value" field.
func decodeOutputValue(out []byte) string {
	trimmed := strings.TrimSpace(string(out))

	var s string
	if err := json.Unmarshal([]byte(trimmed), &s); err == nil {
		return strings.TrimSpace(s)
	}

	var wrapped struct {
		Value string `json:"value"`
	}
	if err := json.Unmarshal([]byte(trimmed), &wrapped); err == nil {
		return strings.TrimSpace(wrapped.Value)
	}

	return ""
}
