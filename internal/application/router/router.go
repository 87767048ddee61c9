// Package router classifies console input and runs the commands that belong
// to skyrim-search-se.
package router

import (
	"bytes"
	"context"
	"strings"

	"github.com/google/shlex"

	"github.com/doeshing/skyrim-search-se/internal/domain"
	"github.com/doeshing/skyrim-search-se/internal/ports"
)

// Router implements ports.CommandRouter.
type Router struct {
	aliases  map[string]struct{}
	executor ports.QueryExecutor
	logger   ports.Logger
}

// New builds a Router answering to aliases (matched case-insensitively).
// An empty alias list falls back to domain.DefaultAliases.
func New(aliases []string, executor ports.QueryExecutor, logger ports.Logger) *Router {
	if len(aliases) == 0 {
		aliases = domain.DefaultAliases
	}
	set := make(map[string]struct{}, len(aliases))
	for _, alias := range aliases {
		set[strings.ToLower(alias)] = struct{}{}
	}
	return &Router{aliases: set, executor: executor, logger: logger}
}

// Route implements ports.CommandRouter.
func (r *Router) Route(ctx context.Context, raw string) domain.Decision {
	tokens, err := tokenize(raw)
	if err != nil {
		r.logger.Debug("tokenize failed", map[string]interface{}{"input": raw, "error": err.Error()})
		if fields := strings.Fields(raw); len(fields) > 0 && r.isAlias(fields[0]) {
			return domain.Decision{Kind: domain.NotMine, Output: domain.ParseFailedNotice}
		}
		return domain.Decision{Kind: domain.NotMine}
	}
	if len(tokens) == 0 {
		return domain.Decision{Kind: domain.NotMine}
	}

	if !r.isAlias(tokens[0]) {
		if strings.EqualFold(tokens[0], domain.HelpWord) {
			return domain.Decision{Kind: domain.UsageRequested, Output: domain.UsageHint}
		}
		return domain.Decision{Kind: domain.NotMine}
	}

	parsed, out, err := parse(tokens)
	if err != nil {
		r.logger.Debug("parse failed", map[string]interface{}{"input": raw, "error": err.Error()})
		return domain.Decision{Kind: domain.HandledWithError, Output: out}
	}

	return r.dispatch(ctx, parsed, out)
}

func (r *Router) dispatch(ctx context.Context, parsed domain.ParsedCommand, out string) domain.Decision {
	switch cmd := parsed.(type) {
	case nil:
		// help, --help and --version print and stop
		return domain.Decision{Kind: domain.Handled, Output: out}
	case domain.QueryCommand:
		rendered, err := r.executor.Run(ctx, cmd.SQL, cmd.IntAsDecimal)
		if err != nil {
			return domain.Decision{Kind: domain.HandledWithError, Output: err.Error()}
		}
		return domain.Decision{Kind: domain.Handled, Output: rendered}
	default:
		return domain.Decision{Kind: domain.HandledWithError, Output: domain.ProgramName + ": unsupported command"}
	}
}

// parse runs tokens through the command grammar. On failure the returned
// text carries the error followed by usage.
func parse(tokens []string) (domain.ParsedCommand, string, error) {
	var (
		parsed domain.ParsedCommand
		out    bytes.Buffer
	)

	root := newRootCommand(strings.ToLower(tokens[0]), &out, func(cmd domain.ParsedCommand) {
		parsed = cmd
	})
	root.SetArgs(append([]string{}, tokens[1:]...))

	cmd, err := root.ExecuteC()
	if err != nil {
		if cmd == nil {
			cmd = root
		}
		var msg bytes.Buffer
		msg.WriteString("error: ")
		msg.WriteString(err.Error())
		msg.WriteString("\n\n")
		msg.WriteString(cmd.UsageString())
		return nil, msg.String(), domain.Wrap(domain.KindParse, "parse error", err)
	}
	return parsed, out.String(), nil
}

// tokenize splits raw the way a POSIX shell would, honouring quotes and escapes.
func tokenize(raw string) ([]string, error) {
	tokens, err := shlex.Split(raw)
	if err != nil {
		return nil, domain.Wrap(domain.KindTokenize, "tokenize error", err)
	}
	return tokens, nil
}

func (r *Router) isAlias(word string) bool {
	_, ok := r.aliases[strings.ToLower(word)]
	return ok
}

var _ ports.CommandRouter = (*Router)(nil)
