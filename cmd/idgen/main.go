// Package main provides a CLI for issuing and inspecting identifiers.
// Usage: idgen gen --format 96 --count 10
//
//	idgen decode --format 128 <id>
//	idgen convert --from 64 --to 128 <id>
//	idgen token --subject billing --scope ids:generate
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"shortid/internal/config"
	"shortid/internal/domain/auth"
	"shortid/internal/domain/idgen"
	"shortid/pkg/shortid"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) < 1 {
		printUsage(out)
		return fmt.Errorf("command required")
	}

	opts, positional, err := parseArgs(args[1:])
	if err != nil {
		return err
	}
	cfg, err := config.Load(opts["config"])
	if err != nil {
		return err
	}

	switch args[0] {
	case "gen":
		return generate(ctx, cfg, opts, out)
	case "decode":
		return decode(ctx, cfg, opts, positional, out)
	case "convert":
		return convert(ctx, cfg, opts, positional, out)
	case "token":
		return token(cfg, opts, out)
	case "help", "--help", "-h":
		printUsage(out)
		return nil
	default:
		printUsage(out)
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

func printUsage(out io.Writer) {
	fmt.Fprintln(out, `shortid identifier CLI

Usage:
  idgen <command> [options]

Commands:
  gen       Issue identifiers (--format 128|96|64|uuid, --count N)
  decode    Show the fields of an identifier (--format F <id>)
  convert   Change identifier width (--from F --to F [--machine-high HH] [--machine HHHHHHHH] <id>)
  token     Sign an API token (--subject S [--scope a,b])
  help      Show this help

Every command accepts --config <file.toml>.

Environment Variables:
  SHORTID_CONFIG       Configuration file
  SHORTID_MACHINE_ID   Machine id, 8 hex digits
  SHORTID_EPOCH        Epoch for the 96 and 64-bit formats (RFC 3339)
  JWT_SECRET           Secret used by the token command`)
}

// parseArgs splits --key value pairs from positional arguments.
func parseArgs(args []string) (map[string]string, []string, error) {
	opts := make(map[string]string)
	var positional []string
	for i := 0; i < len(args); i++ {
		key, ok := strings.CutPrefix(args[i], "--")
		if !ok {
			positional = append(positional, args[i])
			continue
		}
		if i+1 >= len(args) {
			return nil, nil, fmt.Errorf("--%s requires a value", key)
		}
		opts[key] = args[i+1]
		i++
	}
	return opts, positional, nil
}

func newService(cfg config.Config) (*idgen.Service, error) {
	machine32, err := cfg.MachineID32()
	if err != nil {
		return nil, err
	}
	machine24, err := cfg.MachineID24()
	if err != nil {
		return nil, err
	}
	node, err := cfg.NodeID()
	if err != nil {
		return nil, err
	}
	epoch, err := cfg.EpochValue()
	if err != nil {
		return nil, err
	}

	var opts []shortid.Option
	if cfg.Generator.UnboundedAdvance {
		opts = append(opts, shortid.WithUnboundedAdvance())
	}
	return idgen.NewService(shortid.New(opts...), idgen.Settings{
		Machine32: machine32,
		Machine24: machine24,
		Node:      node,
		Epoch:     epoch,
		MaxBatch:  cfg.Generator.MaxBatch,
	}), nil
}

func generate(ctx context.Context, cfg config.Config, opts map[string]string, out io.Writer) error {
	format, err := idgen.ParseFormat(valueOr(opts["format"], "128"))
	if err != nil {
		return err
	}
	count, err := strconv.Atoi(valueOr(opts["count"], "1"))
	if err != nil {
		return fmt.Errorf("--count: %w", err)
	}
	svc, err := newService(cfg)
	if err != nil {
		return err
	}

	ids, err := svc.Generate(ctx, format, count)
	if err != nil {
		return err
	}
	for _, id := range ids {
		fmt.Fprintln(out, id.Value)
	}
	return nil
}

func decode(ctx context.Context, cfg config.Config, opts map[string]string, positional []string, out io.Writer) error {
	if len(positional) != 1 {
		return fmt.Errorf("decode takes exactly one identifier")
	}
	format, err := idgen.ParseFormat(valueOr(opts["format"], "128"))
	if err != nil {
		return err
	}
	svc, err := newService(cfg)
	if err != nil {
		return err
	}

	d, err := svc.Decode(ctx, format, positional[0])
	if err != nil {
		return err
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}

func convert(ctx context.Context, cfg config.Config, opts map[string]string, positional []string, out io.Writer) error {
	if len(positional) != 1 {
		return fmt.Errorf("convert takes exactly one identifier")
	}
	from, err := idgen.ParseFormat(opts["from"])
	if err != nil {
		return err
	}
	to, err := idgen.ParseFormat(opts["to"])
	if err != nil {
		return err
	}
	var high uint64
	if v := opts["machine-high"]; v != "" {
		if high, err = strconv.ParseUint(v, 16, 8); err != nil {
			return fmt.Errorf("--machine-high: %w", err)
		}
	}
	svc, err := newService(cfg)
	if err != nil {
		return err
	}

	id, err := svc.Convert(ctx, idgen.ConvertRequest{
		From:        from,
		To:          to,
		ID:          positional[0],
		MachineHigh: byte(high),
		Machine:     opts["machine"],
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(out, id)
	return nil
}

func token(cfg config.Config, opts map[string]string, out io.Writer) error {
	subject := opts["subject"]
	if subject == "" {
		return fmt.Errorf("--subject is required")
	}
	if cfg.Auth.Secret == "" {
		return fmt.Errorf("auth secret is not configured (JWT_SECRET)")
	}
	scopes := []string{auth.ScopeGenerate, auth.ScopeRead}
	if v := opts["scope"]; v != "" {
		scopes = strings.Split(v, ",")
	}

	jwtCfg := auth.DefaultJWTConfig(cfg.Auth.Secret)
	jwtCfg.Issuer = cfg.Auth.Issuer
	jwtCfg.TokenTTL = cfg.Auth.TokenTTL
	tok, expiresAt, err := auth.NewJWTService(jwtCfg).GenerateToken(subject, scopes)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, tok)
	fmt.Fprintf(out, "expires %s\n", expiresAt.UTC().Format("2006-01-02T15:04:05Z"))
	return nil
}

func valueOr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
